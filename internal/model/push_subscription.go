package model

import "time"

// PushSubscription holds a browser push subscription watching one or more
// artifacts.
type PushSubscription struct {
	Endpoint  string    `gorm:"primaryKey"`
	P256DH    string    `gorm:"column:p256dh;not null"`
	Auth      string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`

	// Associations
	Artifacts []*Artifact `gorm:"many2many:subscription_artifact_mapping;"`
}
