package models

import "time"

// TimestampLayout is the second-precision layout used for persisted check-in times.
const TimestampLayout = "2006-01-02 15:04:05"

// DateLayout is the ISO calendar-date layout used for event dates.
const DateLayout = "2006-01-02"

// CheckinRecord is one completed check-in. Records are immutable once
// appended; the ledger never updates or deletes them in place.
type CheckinRecord struct {
	ID              uint      `gorm:"primaryKey" json:"-"`
	Timestamp       time.Time `gorm:"index;not null" json:"timestamp"`
	ParticipantName string    `gorm:"size:64;index;not null" json:"participant_name"`
	Category        string    `gorm:"size:64;not null" json:"category"`
	PointsAwarded   int       `gorm:"not null" json:"points_awarded"`
	Note            string    `gorm:"size:255" json:"note"`
	EventDate       string    `gorm:"size:10;index" json:"event_date"`
	EventTitle      string    `gorm:"size:255" json:"event_title"`
}

// TableName keeps the table name stable regardless of struct pluralization.
func (CheckinRecord) TableName() string {
	return "checkin_records"
}
