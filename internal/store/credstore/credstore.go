// Package credstore implements session.CredentialStore on a local gorm
// database. The record is stored as four correlated rows (token, refresh
// token, serialized user, expiry) written in one transaction; a load that
// finds anything less than a consistent set reports absence.
package credstore

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/gamevault/storefront/pkg/session"
)

const (
	rowToken        = "token"
	rowRefreshToken = "refresh_token"
	rowUser         = "user"
	rowExpiry       = "expires_at"

	rowCount = 4
)

// Store persists credential records with gorm.
type Store struct {
	db *gorm.DB
}

// New returns a Store backed by gorm.DB.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Migrate creates the credential table.
func (store *Store) Migrate() error {
	return store.db.AutoMigrate(&CredentialRow{})
}

// Save writes all four rows atomically, each tagged with the record's
// absolute expiry.
func (store *Store) Save(ctx context.Context, record session.CredentialRecord) error {
	serializedUser, err := json.Marshal(record.User)
	if err != nil {
		return fmt.Errorf("serialize user: %w", err)
	}
	rows := []CredentialRow{
		{Name: rowToken, Value: record.Token, ExpiresAtUnixUTC: record.ExpiresAtUnixUTC},
		{Name: rowRefreshToken, Value: record.RefreshToken, ExpiresAtUnixUTC: record.ExpiresAtUnixUTC},
		{Name: rowUser, Value: string(serializedUser), ExpiresAtUnixUTC: record.ExpiresAtUnixUTC},
		{Name: rowExpiry, Value: fmt.Sprintf("%d", record.ExpiresAtUnixUTC), ExpiresAtUnixUTC: record.ExpiresAtUnixUTC},
	}
	return store.db.WithContext(ctx).Transaction(func(transaction *gorm.DB) error {
		for _, row := range rows {
			err := transaction.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "name"}},
				DoUpdates: clause.AssignmentColumns([]string{"value", "expires_at_unix_utc", "updated_at"}),
			}).Create(&row).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// Load reads the full record. A missing row, or rows that disagree on
// expiry, read as no record at all: half-written state must never surface
// as a session.
func (store *Store) Load(ctx context.Context) (*session.CredentialRecord, error) {
	var rows []CredentialRow
	if err := store.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) < rowCount {
		return nil, nil
	}
	byName := make(map[string]CredentialRow, len(rows))
	for _, row := range rows {
		byName[row.Name] = row
	}
	for _, name := range []string{rowToken, rowRefreshToken, rowUser, rowExpiry} {
		if _, ok := byName[name]; !ok {
			return nil, nil
		}
	}
	expiry := byName[rowExpiry].ExpiresAtUnixUTC
	for _, row := range byName {
		if row.ExpiresAtUnixUTC != expiry {
			return nil, nil
		}
	}

	var user session.Identity
	if err := json.Unmarshal([]byte(byName[rowUser].Value), &user); err != nil {
		return nil, nil
	}
	record := &session.CredentialRecord{
		Token:            byName[rowToken].Value,
		RefreshToken:     byName[rowRefreshToken].Value,
		User:             user,
		ExpiresAtUnixUTC: expiry,
	}
	return record, nil
}

// Clear removes all credential rows. Idempotent.
func (store *Store) Clear(ctx context.Context) error {
	return store.db.WithContext(ctx).Where("1 = 1").Delete(&CredentialRow{}).Error
}
