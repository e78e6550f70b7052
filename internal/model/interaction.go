package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SensorData is the immutable sensor snapshot captured with an interaction.
type SensorData struct {
	Type  SensorType     `gorm:"column:sensor_type;size:32;not null" json:"type"`
	Value float64        `gorm:"column:sensor_value;not null" json:"value"`
	Unit  string         `gorm:"column:sensor_unit;size:32;default:'raw'" json:"unit"`
	Raw   map[string]any `gorm:"column:sensor_raw;serializer:json" json:"rawData,omitempty"`
}

// SoundResult records whether the sound channel fired.
type SoundResult struct {
	Played bool   `gorm:"column:resp_sound_played;not null;default:false" json:"played"`
	File   string `gorm:"column:resp_sound_file;size:256" json:"file,omitempty"`
}

// LightResult records whether the light channel fired.
type LightResult struct {
	Activated bool         `gorm:"column:resp_light_activated;not null;default:false" json:"activated"`
	Pattern   LightPattern `gorm:"column:resp_light_pattern;size:32" json:"pattern,omitempty"`
}

// ResponseDetails summarizes a fired response. Populated only by the trigger
// operation; TriggeredAt is set exactly when ResponseTriggered flips to true.
type ResponseDetails struct {
	Sound       SoundResult `gorm:"embedded" json:"sound"`
	Light       LightResult `gorm:"embedded" json:"light"`
	TriggeredAt *time.Time  `gorm:"column:resp_triggered_at" json:"triggeredAt"`
}

// DeviceInfo holds free-form provenance about the reporting sensor device.
type DeviceInfo struct {
	DeviceID        string  `gorm:"column:device_id;size:64" json:"deviceId,omitempty"`
	FirmwareVersion string  `gorm:"column:device_firmware;size:32" json:"firmwareVersion,omitempty"`
	BatteryLevel    float64 `gorm:"column:device_battery" json:"batteryLevel,omitempty"`
	SignalStrength  float64 `gorm:"column:device_signal" json:"signalStrength,omitempty"`
}

// InteractionMetadata holds free-form ambient context with no behavioral effect.
type InteractionMetadata struct {
	VisitorCount int    `gorm:"column:meta_visitor_count" json:"visitorCount,omitempty"`
	Weather      string `gorm:"column:meta_weather;size:64" json:"weather,omitempty"`
	TimeOfDay    string `gorm:"column:meta_time_of_day;size:32" json:"timeOfDay,omitempty"`
}

// Interaction represents one recorded sensor event tied to an artifact at a
// point in time. ArtifactID is denormalized and upper-cased; it survives
// deletion of the owning artifact, while ArtifactRef goes stale.
type Interaction struct {
	ID                string              `gorm:"primaryKey;size:36" json:"id"`
	ArtifactID        string              `gorm:"size:64;index:idx_interactions_artifact_created;not null" json:"artifactId"`
	ArtifactRef       *int64              `gorm:"index" json:"-"`
	SensorData        SensorData          `gorm:"embedded" json:"sensorData"`
	InteractionType   InteractionType     `gorm:"size:32;default:'detected'" json:"interactionType"`
	Duration          int                 `gorm:"not null;default:0" json:"duration"`
	ResponseTriggered bool                `gorm:"not null;default:false" json:"responseTriggered"`
	ResponseDetails   ResponseDetails     `gorm:"embedded" json:"responseDetails"`
	DeviceInfo        DeviceInfo          `gorm:"embedded" json:"deviceInfo"`
	Metadata          InteractionMetadata `gorm:"embedded" json:"metadata"`
	Processed         bool                `gorm:"index;not null;default:false" json:"processed"`
	CreatedAt         time.Time           `gorm:"index:idx_interactions_artifact_created;index" json:"createdAt"`
	UpdatedAt         time.Time           `json:"updatedAt"`
}

// BeforeCreate assigns a fresh identifier when none was supplied.
func (i *Interaction) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.New().String()
	}
	return nil
}
