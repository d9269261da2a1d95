package bmi

import (
	"fmt"
	"strconv"
)

var advice = map[Category]string{
	Underweight: "Consider consulting a healthcare provider for dietary advice.",
	Normal:      "This is considered a healthy weight range for your height.",
	Overweight:  "Consider incorporating regular physical activity and a balanced diet.",
	Obese:       "Consult a healthcare provider for guidance on weight management.",
}

// Message renders the user-facing summary for a result
func Message(r Result) string {
	return fmt.Sprintf("Your BMI of %s suggests you are in the %s category. %s",
		strconv.FormatFloat(r.Value, 'f', -1, 64), r.Category.Class(), Advice(r.Category))
}

// Advice returns the fixed recommendation sentence for a category
func Advice(c Category) string {
	return advice[c]
}
