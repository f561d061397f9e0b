package credstore

import "time"

// CredentialRow is one of the four correlated entries that make up a
// persisted credential record. Every row of a record carries the same
// absolute expiry so a partial write is detectable on load.
type CredentialRow struct {
	Name             string    `gorm:"primaryKey"`
	Value            string    `gorm:"not null"`
	ExpiresAtUnixUTC int64     `gorm:"not null"`
	UpdatedAt        time.Time `gorm:"not null"`
}

func (CredentialRow) TableName() string { return "credential_rows" }
