package model

// SensorType defines the recognized kinds of artifact sensors.
type SensorType string

const (
	SensorProximity   SensorType = "proximity"
	SensorTouch       SensorType = "touch"
	SensorMotion      SensorType = "motion"
	SensorTemperature SensorType = "temperature"
	SensorCustom      SensorType = "custom"
)

// Valid reports whether s is a member of the sensor type enum.
func (s SensorType) Valid() bool {
	switch s {
	case SensorProximity, SensorTouch, SensorMotion, SensorTemperature, SensorCustom:
		return true
	}
	return false
}

// ResponseType defines the kinds of response patterns an artifact can carry.
type ResponseType string

const (
	ResponseSound    ResponseType = "sound"
	ResponseLight    ResponseType = "light"
	ResponseCombined ResponseType = "combined"
)

// Valid reports whether r is a member of the response type enum.
func (r ResponseType) Valid() bool {
	switch r {
	case ResponseSound, ResponseLight, ResponseCombined:
		return true
	}
	return false
}

// LightPattern defines the recognized light playback patterns.
type LightPattern string

const (
	LightSolid   LightPattern = "solid"
	LightBlink   LightPattern = "blink"
	LightPulse   LightPattern = "pulse"
	LightRainbow LightPattern = "rainbow"
)

// Valid reports whether p is a member of the light pattern enum.
func (p LightPattern) Valid() bool {
	switch p {
	case LightSolid, LightBlink, LightPulse, LightRainbow:
		return true
	}
	return false
}

// InteractionType classifies how far a visitor interaction progressed.
type InteractionType string

const (
	InteractionDetected  InteractionType = "detected"
	InteractionEngaged   InteractionType = "engaged"
	InteractionCompleted InteractionType = "completed"
)

// Valid reports whether i is a member of the interaction type enum.
func (i InteractionType) Valid() bool {
	switch i {
	case InteractionDetected, InteractionEngaged, InteractionCompleted:
		return true
	}
	return false
}
