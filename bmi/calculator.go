package bmi

import "math"

// imperialFactor converts lb/in² to kg/m²
const imperialFactor = 703

// Classifier maps a rounded BMI value to a Category
type Classifier interface {
	Classify(value float64) (Category, error)
}

// ClassifierFunc adapts a plain function to the Classifier interface
type ClassifierFunc func(value float64) Category

func (f ClassifierFunc) Classify(value float64) (Category, error) {
	return f(value), nil
}

// Standard is the fixed four-way classification chain
var Standard Classifier = ClassifierFunc(Classify)

// Calculator computes BMI results using a configurable Classifier.
// The zero value uses Standard. A Calculator holds no per-call state.
type Calculator struct {
	classifier Classifier
}

// NewCalculator returns a Calculator that classifies with c (Standard when nil)
func NewCalculator(c Classifier) *Calculator {
	return &Calculator{classifier: c}
}

// Compute validates raw inputs for the given system, computes the rounded BMI
// and classifies it with the standard chain.
func Compute(system MeasurementSystem, in Inputs) (Result, error) {
	var c Calculator
	return c.Compute(system, in)
}

// FromMetric computes BMI from centimeters and kilograms
func FromMetric(heightCm, weightKg float64) (Result, error) {
	var c Calculator
	return c.metric(heightCm, weightKg)
}

// FromImperial computes BMI from feet, inches and pounds
func FromImperial(heightFt, heightIn, weightLbs float64) (Result, error) {
	var c Calculator
	return c.imperial(heightFt, heightIn, weightLbs)
}

// Compute parses the fields of the selected system and computes the result.
// On a *ValidationError no partial result is returned.
func (c *Calculator) Compute(system MeasurementSystem, in Inputs) (Result, error) {
	switch system {
	case Metric:
		return c.metric(parseLeading(string(in.HeightCm)), parseLeading(string(in.WeightKg)))
	case Imperial:
		inches := parseLeading(string(in.HeightIn))
		if math.IsNaN(inches) {
			inches = 0
		}
		return c.imperial(parseLeading(string(in.HeightFt)), inches, parseLeading(string(in.WeightLbs)))
	default:
		return Result{}, invalid("system")
	}
}

func (c *Calculator) metric(heightCm, weightKg float64) (Result, error) {
	h := heightCm / 100
	if !positive(h) {
		return Result{}, invalid("heightCm")
	}
	if !positive(weightKg) {
		return Result{}, invalid("weightKg")
	}
	return c.finish(weightKg / (h * h))
}

func (c *Calculator) imperial(heightFt, heightIn, weightLbs float64) (Result, error) {
	if !positive(heightFt) {
		return Result{}, invalid("heightFt")
	}
	if !positive(weightLbs) {
		return Result{}, invalid("weightLbs")
	}
	if math.IsNaN(heightIn) || math.IsInf(heightIn, 0) {
		heightIn = 0
	}
	total := heightFt*12 + heightIn
	if !positive(total) {
		return Result{}, invalid("heightIn")
	}
	return c.finish((weightLbs / (total * total)) * imperialFactor)
}

func (c *Calculator) finish(raw float64) (Result, error) {
	value := Round(raw)

	classifier := c.classifier
	if classifier == nil {
		classifier = Standard
	}
	category, err := classifier.Classify(value)
	if err != nil {
		return Result{}, err
	}
	return Result{Value: value, Category: category}, nil
}

// Round rounds to one decimal digit with ties away from zero
func Round(v float64) float64 {
	return math.Round(v*10) / 10
}

// Classify applies the ordered category chain to a rounded BMI value.
// The branches are evaluated in order; values between 24.9 and 25.0 or
// above 29.9 fall through to the next branch.
func Classify(value float64) Category {
	if value < 18.5 {
		return Underweight
	} else if value >= 18.5 && value <= 24.9 {
		return Normal
	} else if value >= 25 && value <= 29.9 {
		return Overweight
	}
	return Obese
}
