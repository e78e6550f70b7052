package model

import "time"

// Location describes where an artifact is displayed. Display metadata only.
type Location struct {
	Room        string      `gorm:"column:location_room;size:64;index;not null" json:"room"`
	Section     string      `gorm:"column:location_section;size:64" json:"section,omitempty"`
	Coordinates Coordinates `gorm:"embedded" json:"coordinates"`
}

// Coordinates is a 2D position within a room.
type Coordinates struct {
	X float64 `gorm:"column:location_x" json:"x"`
	Y float64 `gorm:"column:location_y" json:"y"`
}

// SensorConfig describes the sensor wired to an artifact.
type SensorConfig struct {
	Type        SensorType `gorm:"column:sensor_type;size:32;not null" json:"type"`
	Sensitivity int        `gorm:"column:sensor_sensitivity;not null" json:"sensitivity"`
	Threshold   float64    `gorm:"column:sensor_threshold;not null" json:"threshold"`
}

// SoundConfig is the sound channel of a response pattern.
type SoundConfig struct {
	Enabled  bool   `gorm:"column:sound_enabled;not null;default:false" json:"enabled"`
	File     string `gorm:"column:sound_file;size:256" json:"file,omitempty"`
	Volume   int    `gorm:"column:sound_volume;not null" json:"volume"`
	Duration int    `gorm:"column:sound_duration;not null" json:"duration"`
}

// LightConfig is the light channel of a response pattern.
type LightConfig struct {
	Enabled   bool         `gorm:"column:light_enabled;not null;default:false" json:"enabled"`
	Color     string       `gorm:"column:light_color;size:32" json:"color"`
	Pattern   LightPattern `gorm:"column:light_pattern;size:32" json:"pattern"`
	Intensity int          `gorm:"column:light_intensity;not null" json:"intensity"`
	Duration  int          `gorm:"column:light_duration;not null" json:"duration"`
}

// ResponsePattern declares the sound/light cue played when an artifact is
// interacted with.
type ResponsePattern struct {
	Type  ResponseType `gorm:"column:response_type;size:32;not null" json:"type"`
	Sound SoundConfig  `gorm:"embedded" json:"sound"`
	Light LightConfig  `gorm:"embedded" json:"light"`
}

// ArtifactMetadata holds free-form descriptive fields with no behavioral effect.
type ArtifactMetadata struct {
	Period      string `gorm:"column:meta_period;size:128" json:"period,omitempty"`
	Artist      string `gorm:"column:meta_artist;size:128" json:"artist,omitempty"`
	YearCreated int    `gorm:"column:meta_year_created" json:"yearCreated,omitempty"`
	Category    string `gorm:"column:meta_category;size:64" json:"category,omitempty"`
}

// ArtifactStatistics holds running counters mutated only when an interaction
// is recorded.
type ArtifactStatistics struct {
	TotalInteractions int64      `gorm:"column:total_interactions;not null;default:0" json:"totalInteractions"`
	LastInteraction   *time.Time `gorm:"column:last_interaction" json:"lastInteraction"`
}

// Artifact represents a museum exhibit item paired with a sensor profile and
// a response profile. The externally visible ArtifactID is unique and always
// stored upper-cased.
type Artifact struct {
	ID              int64              `gorm:"primaryKey" json:"-"`
	ArtifactID      string             `gorm:"uniqueIndex;size:64;not null" json:"artifactId"`
	Name            string             `gorm:"size:128;not null" json:"name"`
	Description     string             `gorm:"size:512;not null" json:"description"`
	Location        Location           `gorm:"embedded" json:"location"`
	SensorConfig    SensorConfig       `gorm:"embedded" json:"sensorConfig"`
	ResponsePattern ResponsePattern    `gorm:"embedded" json:"responsePattern"`
	IsActive        bool               `gorm:"index;not null" json:"isActive"`
	Metadata        ArtifactMetadata   `gorm:"embedded" json:"metadata"`
	Statistics      ArtifactStatistics `gorm:"embedded" json:"statistics"`
	CreatedAt       time.Time          `json:"createdAt"`
	UpdatedAt       time.Time          `json:"updatedAt"`
}

// Projection returns the minimal artifact view handed back alongside a newly
// recorded interaction, so the caller can decide whether to trigger a
// response without a second round trip.
func (a *Artifact) Projection() ArtifactProjection {
	return ArtifactProjection{
		ID:              a.ArtifactID,
		Name:            a.Name,
		ResponsePattern: a.ResponsePattern,
	}
}

// ArtifactProjection is the minimal artifact view embedded in interaction
// responses.
type ArtifactProjection struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	ResponsePattern ResponsePattern `json:"responsePattern"`
}
