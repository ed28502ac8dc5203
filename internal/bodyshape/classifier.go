package bodyshape

import (
	"fmt"
	"math"
	"strings"
)

// Shape is one of the five body-shape labels.
type Shape string

const (
	Hourglass        Shape = "Hourglass"
	Pear             Shape = "Pear"
	Apple            Shape = "Apple"
	Rectangle        Shape = "Rectangle"
	InvertedTriangle Shape = "Inverted Triangle"
)

// AllShapes returns the shapes in a stable order.
func AllShapes() []Shape {
	return []Shape{Hourglass, Pear, Apple, Rectangle, InvertedTriangle}
}

// ParseShape matches a label case-insensitively, ignoring surrounding whitespace.
func ParseShape(raw string) (Shape, error) {
	normalized := strings.ToLower(strings.Join(strings.Fields(raw), " "))
	for _, s := range AllShapes() {
		if strings.ToLower(string(s)) == normalized {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownShape, raw)
}

// Ratios are the proportions the classifier works from.
// WaistToBust is reported but no rule reads it.
type Ratios struct {
	WaistToHip    float64 `json:"waistToHip"`
	BustToHip     float64 `json:"bustToHip"`
	ShoulderToHip float64 `json:"shoulderToHip"`
	WaistToBust   float64 `json:"waistToBust"`
}

// ComputeRatios derives the classifier ratios. A zero denominator yields NaN.
func ComputeRatios(m Measurements) Ratios {
	return Ratios{
		WaistToHip:    ratio(m.Waist, m.Hip),
		BustToHip:     ratio(m.Bust, m.Hip),
		ShoulderToHip: ratio(m.Shoulder, m.Hip),
		WaistToBust:   ratio(m.Waist, m.Bust),
	}
}

func ratio(num, den float64) float64 {
	if den == 0 {
		return math.NaN()
	}
	return num / den
}

// Classify maps measurements to a body shape. Rules are evaluated in a fixed
// order and the first match wins; reordering them changes boundary results.
// Any comparison against a NaN ratio is false, so degenerate input falls
// through to Rectangle.
func Classify(m Measurements) Shape {
	r := ComputeRatios(m)

	switch {
	case r.WaistToHip <= 0.75 && math.Abs(r.BustToHip-1) <= 0.10:
		return Hourglass
	case m.Hip > m.Shoulder*1.05 && m.Hip > m.Bust*1.05:
		return Pear
	case r.WaistToHip > 0.85 || m.Waist > m.Bust*0.95:
		return Apple
	case r.ShoulderToHip > 1.10 || r.BustToHip > 1.10:
		return InvertedTriangle
	case r.WaistToHip > 0.75 && math.Abs(r.BustToHip-1) <= 0.15:
		return Rectangle
	}
	return Rectangle
}
