package main

import (
	"github.com/liamcoop/bmi/bmi"
	"github.com/liamcoop/bmi/rules"
)

// API Request and Response Models with Swagger annotations

// CalculateRequest carries the raw form fields; only those of the chosen system are read
type CalculateRequest struct {
	System    string    `json:"system" example:"metric" binding:"required"`
	HeightCm  bmi.Field `json:"heightCm,omitempty" example:"175"`
	WeightKg  bmi.Field `json:"weightKg,omitempty" example:"70"`
	HeightFt  bmi.Field `json:"heightFt,omitempty" example:"5"`
	HeightIn  bmi.Field `json:"heightIn,omitempty" example:"9"`
	WeightLbs bmi.Field `json:"weightLbs,omitempty" example:"154"`
	Scheme    string    `json:"scheme,omitempty" example:"standard"`
} // @name CalculateRequest

// CalculateResponse is a rendered BMI result
type CalculateResponse struct {
	ID            string       `json:"id" example:"123e4567-e89b-12d3-a456-426614174000"`
	System        string       `json:"system" example:"metric"`
	Scheme        string       `json:"scheme" example:"standard"`
	Value         float64      `json:"value" example:"22.9"`
	Display       string       `json:"display" example:"22.9"`
	Category      bmi.Category `json:"category" swaggertype:"string" example:"Normal"`
	CategoryClass string       `json:"categoryClass" example:"normal"`
	Message       string       `json:"message" example:"Your BMI of 22.9 suggests you are in the normal category. This is considered a healthy weight range for your height."`
} // @name CalculateResponse

// SchemeResponse describes a classification scheme
type SchemeResponse struct {
	Name        string        `json:"name" example:"standard"`
	Description string        `json:"description" example:"Standard adult cut-offs: 18.5, 25 and 30"`
	Rules       []*rules.Rule `json:"rules,omitempty"`
} // @name SchemeResponse

// SchemesListResponse lists every registered scheme
type SchemesListResponse struct {
	Schemes []SchemeResponse `json:"schemes"`
} // @name SchemesListResponse

// EvaluateRequest asks a scheme to explain how it classifies a BMI value
type EvaluateRequest struct {
	BMI *float64 `json:"bmi" example:"24.9" binding:"required"`
} // @name EvaluateRequest

// EvaluationResultResponse represents a single rule evaluation result
type EvaluationResultResponse struct {
	RuleID   string       `json:"ruleId" example:"normal"`
	RuleName string       `json:"ruleName" example:"Normal"`
	Category bmi.Category `json:"category" swaggertype:"string" example:"Normal"`
	Matched  bool         `json:"matched" example:"true"`
	Error    *string      `json:"error,omitempty"`
} // @name EvaluationResultResponse

// EvaluateResponse lists every rule outcome and the category the chain selects.
// Category is empty and Error set when a rule fails before any match.
type EvaluateResponse struct {
	Scheme         string                     `json:"scheme" example:"standard"`
	Value          float64                    `json:"value" example:"24.9"`
	Category       *bmi.Category              `json:"category,omitempty" swaggertype:"string" example:"Normal"`
	Results        []EvaluationResultResponse `json:"results"`
	Error          string                     `json:"error,omitempty"`
	EvaluationTime string                     `json:"evaluationTime" example:"45µs"`
} // @name EvaluateResponse

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error" example:"Please enter valid height and weight values."`
	Field   string `json:"field,omitempty" example:"heightCm"`
	Details string `json:"details,omitempty"`
} // @name ErrorResponse

// HealthResponse represents the health check response
type HealthResponse struct {
	Status  string `json:"status" example:"healthy"`
	Schemes int    `json:"schemes" example:"2"`
} // @name HealthResponse
