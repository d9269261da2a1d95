package scheme

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/liamcoop/bmi/bmi"
	"github.com/liamcoop/bmi/rules"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManagerWithBuiltins(rules.DefaultCacheConfig())
	if err != nil {
		t.Fatalf("NewManagerWithBuiltins() failed: %v", err)
	}
	return m
}

func TestNewManagerWithBuiltins(t *testing.T) {
	m := newTestManager(t)

	if got := fmt.Sprint(m.List()); got != "[asian standard]" {
		t.Errorf("List() = %s, want [asian standard]", got)
	}

	s, err := m.Scheme("standard")
	if err != nil {
		t.Fatalf("Scheme() failed: %v", err)
	}
	if len(s.Rules) != 4 || s.Description == "" {
		t.Errorf("unexpected standard scheme: %+v", s)
	}
}

func TestManagerCalculator(t *testing.T) {
	m := newTestManager(t)

	testCases := []struct {
		scheme string
		want   bmi.Category
	}{
		{"standard", bmi.Normal},
		{"asian", bmi.Overweight},
	}

	for _, tc := range testCases {
		t.Run(tc.scheme, func(t *testing.T) {
			calc, err := m.Calculator(tc.scheme)
			if err != nil {
				t.Fatalf("Calculator() failed: %v", err)
			}
			result, err := calc.Compute(bmi.Imperial, bmi.Inputs{HeightFt: "5", HeightIn: "9", WeightLbs: "160"})
			if err != nil {
				t.Fatalf("Compute() failed: %v", err)
			}
			// 160 lb at 69 in is 23.6
			if result.Value != 23.6 {
				t.Errorf("Value = %v, want 23.6", result.Value)
			}
			if result.Category != tc.want {
				t.Errorf("Category = %v, want %v", result.Category, tc.want)
			}
		})
	}
}

func TestManagerUnknownScheme(t *testing.T) {
	m := newTestManager(t)

	if _, err := m.Engine("nope"); !errors.Is(err, ErrSchemeNotFound) {
		t.Errorf("Engine() error = %v, want ErrSchemeNotFound", err)
	}
	if _, err := m.Calculator("nope"); !errors.Is(err, ErrSchemeNotFound) {
		t.Errorf("Calculator() error = %v, want ErrSchemeNotFound", err)
	}
	if err := m.Remove("nope"); !errors.Is(err, ErrSchemeNotFound) {
		t.Errorf("Remove() error = %v, want ErrSchemeNotFound", err)
	}
}

// TestRegisterRejectsCoverageGap verifies a scheme without a catch-all cannot be registered
func TestRegisterRejectsCoverageGap(t *testing.T) {
	m := NewManager(rules.DefaultCacheConfig())

	err := m.Register(Scheme{
		Name: "gappy",
		Rules: []*rules.Rule{
			{ID: "low", Category: bmi.Underweight, Expression: `bmi < 18.5`, Priority: 1, Active: true},
			{ID: "high", Category: bmi.Obese, Expression: `bmi >= 25.0`, Priority: 2, Active: true},
		},
	})
	if err == nil {
		t.Fatal("Register() should reject a scheme with uncovered values")
	}
	if !strings.Contains(err.Error(), "18.5") || !errors.Is(err, rules.ErrNoMatch) {
		t.Errorf("error should name the first uncovered value: %v", err)
	}
	if len(m.List()) != 0 {
		t.Error("rejected scheme should not be registered")
	}
}

func TestRegisterRejectsBadExpression(t *testing.T) {
	m := NewManager(rules.DefaultCacheConfig())

	err := m.Register(Scheme{
		Name:  "broken",
		Rules: []*rules.Rule{{ID: "all", Category: bmi.Obese, Expression: `bmi >>> 1`, Active: true}},
	})
	if err == nil {
		t.Fatal("Register() should reject uncompilable rules")
	}
}

func TestRegisterReplacesAndDoesNotMutateInput(t *testing.T) {
	m := newTestManager(t)

	custom := []*rules.Rule{
		{ID: "everything", Category: bmi.Normal, Expression: `true`, Priority: 1, Active: true},
	}
	if err := m.Register(Scheme{Name: "standard", Rules: custom}); err != nil {
		t.Fatalf("Register() failed: %v", err)
	}
	if !custom[0].CreatedAt.IsZero() {
		t.Error("Register() should not stamp the caller's rules")
	}

	engine, _ := m.Engine("standard")
	if got, _ := engine.Classify(45.0); got != bmi.Normal {
		t.Errorf("replaced scheme Classify(45.0) = %v, want Normal", got)
	}

	if err := m.Remove("standard"); err != nil {
		t.Fatalf("Remove() failed: %v", err)
	}
	if got := fmt.Sprint(m.List()); got != "[asian]" {
		t.Errorf("List() = %s, want [asian]", got)
	}
}

func TestManagerConcurrentAccess(t *testing.T) {
	m := newTestManager(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			if engine, err := m.Engine("standard"); err == nil {
				engine.Classify(22.0)
			}
		}()
		go func(i int) {
			defer wg.Done()
			m.Register(Scheme{Name: fmt.Sprintf("s%d", i), Rules: rules.StandardRules()})
		}(i)
	}
	wg.Wait()

	if len(m.List()) != 22 {
		t.Errorf("List() has %d schemes, want 22", len(m.List()))
	}
}
