package ledger

import (
	"gorm.io/gorm"

	"github.com/ruei-yu/activity-checkin-points/models"
)

// GormStore keeps the ledger in a relational table. Batch atomicity comes
// from a single transaction; the database serializes concurrent writers.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore wraps an initialized gorm connection.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Load returns every record in write order (ascending primary key).
func (s *GormStore) Load() ([]models.CheckinRecord, error) {
	var records []models.CheckinRecord
	if err := s.db.Order("id ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// Append inserts the batch in one transaction.
func (s *GormStore) Append(records ...models.CheckinRecord) error {
	if len(records) == 0 {
		return nil
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&records).Error
	})
}
