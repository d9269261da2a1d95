package rules

import "github.com/liamcoop/bmi/bmi"

// StandardRules mirrors bmi.Classify as an ordered rule chain.
// The obese rule is the catch-all for everything the earlier rules miss.
func StandardRules() []*Rule {
	return []*Rule{
		{ID: "underweight", Name: "Underweight", Category: bmi.Underweight, Expression: `bmi < 18.5`, Priority: 10, Active: true},
		{ID: "normal", Name: "Normal", Category: bmi.Normal, Expression: `bmi >= 18.5 && bmi <= 24.9`, Priority: 20, Active: true},
		{ID: "overweight", Name: "Overweight", Category: bmi.Overweight, Expression: `bmi >= 25.0 && bmi <= 29.9`, Priority: 30, Active: true},
		{ID: "obese", Name: "Obese", Category: bmi.Obese, Expression: `true`, Priority: 40, Active: true},
	}
}

// AsianRules applies the lower WHO cut-offs recommended for Asian populations
func AsianRules() []*Rule {
	return []*Rule{
		{ID: "underweight", Name: "Underweight", Category: bmi.Underweight, Expression: `bmi < 18.5`, Priority: 10, Active: true},
		{ID: "normal", Name: "Normal", Category: bmi.Normal, Expression: `bmi >= 18.5 && bmi <= 22.9`, Priority: 20, Active: true},
		{ID: "overweight", Name: "Overweight", Category: bmi.Overweight, Expression: `bmi >= 23.0 && bmi <= 27.4`, Priority: 30, Active: true},
		{ID: "obese", Name: "Obese", Category: bmi.Obese, Expression: `true`, Priority: 40, Active: true},
	}
}

// NewSeededEngine builds an engine over an in-memory store seeded with rules
func NewSeededEngine(rules []*Rule, cacheConfig CacheConfig) (*Engine, error) {
	store := NewInMemoryRuleStore()
	for _, r := range rules {
		if err := store.Add(r); err != nil {
			return nil, err
		}
	}
	return NewEngineWithCache(store, cacheConfig)
}
