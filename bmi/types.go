package bmi

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// MeasurementSystem selects which input fields and formula apply
type MeasurementSystem int

const (
	Metric MeasurementSystem = iota
	Imperial
)

// ParseSystem converts "metric" or "imperial" (any case) to a MeasurementSystem
func ParseSystem(s string) (MeasurementSystem, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "metric":
		return Metric, nil
	case "imperial":
		return Imperial, nil
	default:
		return Metric, fmt.Errorf("unknown measurement system %q (use: metric, imperial)", s)
	}
}

func (m MeasurementSystem) String() string {
	switch m {
	case Metric:
		return "metric"
	case Imperial:
		return "imperial"
	default:
		return "unknown"
	}
}

// Field is a raw numeric value exactly as it was typed into a form.
// It decodes from either a JSON string or a JSON number.
type Field string

func (f *Field) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = Field(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("field must be a string or a number: %w", err)
	}
	*f = Field(n.String())
	return nil
}

// FieldOf formats a float as a Field
func FieldOf(v float64) Field {
	return Field(strconv.FormatFloat(v, 'f', -1, 64))
}

// Inputs holds the raw form values for both measurement systems.
// Only the fields of the selected system are read.
type Inputs struct {
	HeightCm Field
	WeightKg Field

	HeightFt  Field
	HeightIn  Field
	WeightLbs Field
}

// Category is the qualitative BMI classification
type Category int

const (
	Underweight Category = iota
	Normal
	Overweight
	Obese
)

var categoryNames = [...]string{"Underweight", "Normal", "Overweight", "Obese"}

func (c Category) String() string {
	if c < Underweight || c > Obese {
		return "Unknown"
	}
	return categoryNames[c]
}

// Class returns the lowercase category name used by renderers
func (c Category) Class() string {
	return strings.ToLower(c.String())
}

// ParseCategory accepts a category name in title or lower case
func ParseCategory(s string) (Category, error) {
	for i, name := range categoryNames {
		if strings.EqualFold(name, strings.TrimSpace(s)) {
			return Category(i), nil
		}
	}
	return Underweight, fmt.Errorf("unknown category %q", s)
}

func (c Category) MarshalText() ([]byte, error) {
	if c < Underweight || c > Obese {
		return nil, fmt.Errorf("invalid category %d", int(c))
	}
	return []byte(c.String()), nil
}

func (c *Category) UnmarshalText(text []byte) error {
	parsed, err := ParseCategory(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Result is a rounded BMI value and its category
type Result struct {
	Value    float64
	Category Category
}

// Display formats the value with exactly one decimal digit
func (r Result) Display() string {
	return strconv.FormatFloat(r.Value, 'f', 1, 64)
}

// Finite reports whether the value is a real number. Extreme inputs such as a
// height of 1e-160 cm overflow to +Inf without failing validation.
func (r Result) Finite() bool {
	return !math.IsInf(r.Value, 0) && !math.IsNaN(r.Value)
}
