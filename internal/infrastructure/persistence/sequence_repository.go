package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/wms/backend/internal/domain/ledger"
	"gorm.io/gorm"
)

// documentSequence is a per-tenant daily counter row for document numbering
type documentSequence struct {
	TenantID uuid.UUID `gorm:"type:uuid;primaryKey"`
	Kind     string    `gorm:"type:varchar(10);primaryKey"`
	Day      string    `gorm:"type:varchar(8);primaryKey"`
	Value    int64     `gorm:"not null"`
}

// TableName returns the table name for GORM
func (documentSequence) TableName() string {
	return "document_sequences"
}

// GormSequenceRepository hands out per-tenant daily sequences using an atomic
// upsert, so two writers asking for the same kind on the same day never see
// the same value.
type GormSequenceRepository struct {
	db *gorm.DB
}

// NewGormSequenceRepository creates a new GormSequenceRepository
func NewGormSequenceRepository(db *gorm.DB) *GormSequenceRepository {
	return &GormSequenceRepository{db: db}
}

// Next returns the next sequence value for a document kind on a date
func (r *GormSequenceRepository) Next(ctx context.Context, tenantID uuid.UUID, kind string, date time.Time) (int64, error) {
	var value int64
	err := r.db.WithContext(ctx).Raw(
		`INSERT INTO document_sequences (tenant_id, kind, day, value)
		 VALUES (?, ?, ?, 1)
		 ON CONFLICT (tenant_id, kind, day)
		 DO UPDATE SET value = document_sequences.value + 1
		 RETURNING value`,
		tenantID, kind, date.Format("20060102"),
	).Scan(&value).Error
	if err != nil {
		return 0, err
	}
	return value, nil
}

// Ensure GormSequenceRepository implements SequenceRepository
var _ ledger.SequenceRepository = (*GormSequenceRepository)(nil)
