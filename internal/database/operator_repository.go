package database

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrInvalidOperator is returned for records without radio ID or callsign
var ErrInvalidOperator = errors.New("operator record is not valid")

const batchSize = 1000

// OperatorRepository provides database operations for DMR operators
type OperatorRepository struct {
	db *gorm.DB
}

// NewOperatorRepository creates a new repository instance
func NewOperatorRepository(db *gorm.DB) *OperatorRepository {
	return &OperatorRepository{db: db}
}

// FindByCallsign returns the operator registered under callsign, or nil
// when there is none. A callsign can hold several radio IDs; the lowest
// one is returned.
func (r *OperatorRepository) FindByCallsign(callsign string) (*Operator, error) {
	var op Operator
	err := r.db.Where("callsign = ?", NormalizeCallsign(callsign)).
		Order("radio_id ASC").
		First(&op).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &op, nil
}

// ListByCallsign returns every radio ID registered under callsign
func (r *OperatorRepository) ListByCallsign(callsign string) ([]Operator, error) {
	var ops []Operator
	err := r.db.Where("callsign = ?", NormalizeCallsign(callsign)).
		Order("radio_id ASC").
		Find(&ops).Error
	return ops, err
}

// FindByRadioID returns the operator holding radioID, or nil
func (r *OperatorRepository) FindByRadioID(radioID uint32) (*Operator, error) {
	var op Operator
	err := r.db.Where("radio_id = ?", radioID).First(&op).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &op, nil
}

// Upsert creates or updates a single operator
func (r *OperatorRepository) Upsert(op *Operator) error {
	if op == nil {
		return fmt.Errorf("operator cannot be nil")
	}
	op.Normalize()
	if !op.IsValid() {
		return fmt.Errorf("%w: radio_id=%d, callsign=%q", ErrInvalidOperator, op.RadioID, op.Callsign)
	}
	op.UpdatedAt = time.Now()
	return r.db.Save(op).Error
}

// UpsertBatch creates or updates operators in chunks, each chunk in one
// statement. Invalid records are skipped. It returns how many were stored.
func (r *OperatorRepository) UpsertBatch(ops []Operator) (int, error) {
	valid := make([]Operator, 0, len(ops))
	now := time.Now()
	for _, op := range ops {
		op.Normalize()
		if op.IsValid() {
			op.UpdatedAt = now
			valid = append(valid, op)
		}
	}
	if len(valid) == 0 {
		return 0, nil
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "radio_id"}},
			UpdateAll: true,
		}).CreateInBatches(valid, batchSize).Error
	})
	if err != nil {
		return 0, fmt.Errorf("batch upsert failed: %w", err)
	}
	return len(valid), nil
}

// Count returns the total number of operators
func (r *OperatorRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&Operator{}).Count(&count).Error
	return count, err
}

// LastUpdated returns the newest update time, zero when the table is empty
func (r *OperatorRepository) LastUpdated() (time.Time, error) {
	var op Operator
	err := r.db.Order("updated_at DESC").First(&op).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	return op.UpdatedAt, nil
}
