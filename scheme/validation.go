package scheme

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/liamcoop/bmi/bmi"
)

const (
	maxRules      = 50
	maxNameLength = 64
)

var identifierPattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_-]*$`)

// ValidateScheme checks a scheme definition before it is compiled.
// It does not check expression syntax; the engine does that.
func ValidateScheme(s Scheme) error {
	if err := validateIdentifier(s.Name); err != nil {
		return fmt.Errorf("invalid scheme name %q: %w", s.Name, err)
	}

	if len(s.Rules) == 0 {
		return fmt.Errorf("scheme %q must contain at least one rule", s.Name)
	}
	if len(s.Rules) > maxRules {
		return fmt.Errorf("scheme %q contains %d rules, maximum allowed is %d", s.Name, len(s.Rules), maxRules)
	}

	seen := make(map[string]bool, len(s.Rules))
	for i, r := range s.Rules {
		if r == nil {
			return fmt.Errorf("scheme %q rule %d is nil", s.Name, i)
		}
		if err := validateIdentifier(r.ID); err != nil {
			return fmt.Errorf("scheme %q has invalid rule ID %q: %w", s.Name, r.ID, err)
		}
		if seen[r.ID] {
			return fmt.Errorf("scheme %q has duplicate rule ID %q", s.Name, r.ID)
		}
		seen[r.ID] = true

		if strings.TrimSpace(r.Expression) == "" {
			return fmt.Errorf("rule %q in scheme %q has an empty expression", r.ID, s.Name)
		}
		if _, err := bmi.ParseCategory(r.Category.String()); err != nil {
			return fmt.Errorf("rule %q in scheme %q: %w", r.ID, s.Name, err)
		}
	}

	return nil
}

// validateIdentifier checks a scheme name or rule ID
func validateIdentifier(name string) error {
	if len(name) == 0 {
		return fmt.Errorf("identifier cannot be empty")
	}
	if len(name) > maxNameLength {
		return fmt.Errorf("identifier length %d exceeds maximum of %d characters", len(name), maxNameLength)
	}
	if !identifierPattern.MatchString(name) {
		return fmt.Errorf("must match pattern %s", identifierPattern)
	}
	return nil
}

// VerifyCoverage checks that every one-decimal BMI value in (0, max] classifies.
// Schemes whose ranges leave a gap at this granularity are rejected.
func VerifyCoverage(c bmi.Classifier, max float64) error {
	steps := int(max * 10)
	for i := 1; i <= steps; i++ {
		value := float64(i) / 10
		if _, err := c.Classify(value); err != nil {
			return fmt.Errorf("coverage check failed at %.1f: %w", value, err)
		}
	}
	return nil
}
