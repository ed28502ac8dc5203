package bodyshape

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var (
	ErrInvalidMeasurement = errors.New("invalid measurement")
	ErrUnknownGender      = errors.New("unknown gender")
	ErrUnknownShape       = errors.New("unknown body shape")
)

// Gender is the gender selected on the measurement form.
type Gender string

const (
	GenderFemale Gender = "Female"
	GenderMale   Gender = "Male"
)

// ParseGender normalizes and validates a gender string.
func ParseGender(raw string) (Gender, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "female":
		return GenderFemale, nil
	case "male":
		return GenderMale, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownGender, raw)
	}
}

// Measurements are body measurements in centimeters.
type Measurements struct {
	Gender   Gender  `json:"gender"`
	Shoulder float64 `json:"shoulder"`
	Bust     float64 `json:"bust"`
	Waist    float64 `json:"waist"`
	Hip      float64 `json:"hip"`
	Height   float64 `json:"height"`
}

// Validate reports the first measurement that is not a finite positive number.
// Classify does not call it; callers validate before classifying.
func (m Measurements) Validate() error {
	if _, err := ParseGender(string(m.Gender)); err != nil {
		return err
	}
	fields := []struct {
		name  string
		value float64
	}{
		{"shoulder", m.Shoulder},
		{"bust", m.Bust},
		{"waist", m.Waist},
		{"hip", m.Hip},
		{"height", m.Height},
	}
	for _, f := range fields {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) || f.value <= 0 {
			return fmt.Errorf("%w: %s must be greater than zero", ErrInvalidMeasurement, f.name)
		}
	}
	return nil
}
