package session

import "context"

// CredentialRecord is the durable form of a session: the raw tokens, the
// serialized user, and the absolute expiry the server supplied. The expiry
// is not computed from the token exp claim because refresh tokens extend
// validity independently.
type CredentialRecord struct {
	Token            string
	RefreshToken     string
	User             Identity
	ExpiresAtUnixUTC int64
}

// CredentialStore is the persistence contract used by Manager. All four
// fields of a record are written and read as one unit; a load that finds
// only part of a record must report absence, not a partial record.
type CredentialStore interface {
	Save(ctx context.Context, record CredentialRecord) error
	Load(ctx context.Context) (*CredentialRecord, error)
	Clear(ctx context.Context) error
}
