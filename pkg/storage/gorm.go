package storage

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ronuchit/predicators/pkg/core"
	"github.com/ronuchit/predicators/pkg/validate"
)

// GormStore implements core.Store using GORM.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed record store.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Migrate creates the necessary tables.
func (s *GormStore) Migrate(ctx context.Context) error {
	return s.db.WithContext(ctx).AutoMigrate(&core.SubmissionRecord{})
}

// Exists reports whether an accepted submission record exists for the
// identity.
func (s *GormStore) Exists(ctx context.Context, identity string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&core.SubmissionRecord{}).
		Where("identity = ?", identity).
		Where("outcome = ?", core.OutcomeSubmitted).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Record upserts the record for its identity. Reasons are sanitized before
// storage. An accepted record is never downgraded: once an identity has
// OutcomeSubmitted, later failure or skip outcomes for the same identity
// are ignored, preserving the at-most-once submission ledger.
func (s *GormStore) Record(ctx context.Context, rec *core.SubmissionRecord) error {
	rec.Reason = validate.SanitizeReason(rec.Reason)
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing core.SubmissionRecord
		err := tx.Where("identity = ?", rec.Identity).First(&existing).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err == nil && existing.Accepted() && rec.Outcome != core.OutcomeSubmitted {
			return nil
		}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "identity"}},
			UpdateAll: true,
		}).Create(rec).Error
	})
}

// Get returns the record for an identity, or nil if none exists.
func (s *GormStore) Get(ctx context.Context, identity string) (*core.SubmissionRecord, error) {
	var rec core.SubmissionRecord
	err := s.db.WithContext(ctx).
		Where("identity = ?", identity).
		First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

// ListByOutcome returns up to limit records with the given outcome, oldest
// first.
func (s *GormStore) ListByOutcome(ctx context.Context, outcome core.Outcome, limit int) ([]*core.SubmissionRecord, error) {
	query := s.db.WithContext(ctx).
		Where("outcome = ?", outcome).
		Order("created_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var recs []*core.SubmissionRecord
	if err := query.Find(&recs).Error; err != nil {
		return nil, err
	}
	return recs, nil
}
