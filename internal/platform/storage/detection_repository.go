package storage

import (
	"context"

	"gorm.io/gorm"

	"voiceguard-server-go/internal/platform/errors"
)

// DetectionRepository persists and queries detection audit records.
type DetectionRepository struct {
	db *gorm.DB
}

// NewDetectionRepository creates a repository over the given database.
func NewDetectionRepository(db *gorm.DB) *DetectionRepository {
	return &DetectionRepository{db: db}
}

// Save stores a completed detection.
func (r *DetectionRepository) Save(ctx context.Context, record *DetectionRecord) error {
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return errors.Wrap(errors.KindStorage, "detection.save", "failed to save detection record", err)
	}
	return nil
}

// FindByRequestID looks a record up by its request identifier. A missing
// record returns nil without error.
func (r *DetectionRepository) FindByRequestID(ctx context.Context, requestID string) (*DetectionRecord, error) {
	var record DetectionRecord
	if err := r.db.WithContext(ctx).Where("request_id = ?", requestID).First(&record).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, errors.Wrap(errors.KindStorage, "detection.find_by_request_id", "failed to find detection record", err)
	}
	return &record, nil
}

// FindRecent returns up to limit records, newest first.
func (r *DetectionRepository) FindRecent(ctx context.Context, limit int) ([]DetectionRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	var records []DetectionRecord
	if err := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&records).Error; err != nil {
		return nil, errors.Wrap(errors.KindStorage, "detection.find_recent", "failed to list detection records", err)
	}
	return records, nil
}

// CountByClassification tallies stored records per label.
func (r *DetectionRepository) CountByClassification(ctx context.Context, label string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&DetectionRecord{}).
		Where("classification = ?", label).Count(&count).Error; err != nil {
		return 0, errors.Wrap(errors.KindStorage, "detection.count", "failed to count detection records", err)
	}
	return count, nil
}
