package rules

import (
	"time"

	"github.com/liamcoop/bmi/bmi"
)

// Rule maps BMI values matching a CEL expression to a category.
// Rules are tried in ascending Priority; the first match wins.
type Rule struct {
	ID         string       `json:"id"`
	Name       string       `json:"name"`
	Category   bmi.Category `json:"category"`
	Expression string       `json:"expression"`
	Priority   int          `json:"priority"`
	Active     bool         `json:"active"`
	CreatedAt  time.Time    `json:"createdAt"`
	UpdatedAt  time.Time    `json:"updatedAt"`
}

// EvaluationResult contains the outcome of evaluating a rule against a BMI value
type EvaluationResult struct {
	RuleID   string
	RuleName string
	Category bmi.Category
	Matched  bool
	Error    error
	Trace    any // CEL evaluation state (optional)
}
