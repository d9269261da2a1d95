package rules

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/liamcoop/bmi/bmi"
)

// VariableName is the CEL variable holding the rounded BMI value
const VariableName = "bmi"

// costLimit bounds evaluation of user-supplied expressions
const costLimit = 1000000

// ErrNoMatch is returned by Classify when no active rule matches
var ErrNoMatch = errors.New("no classification rule matched")

// Engine compiles category rules to CEL programs and classifies BMI values.
// Safe for concurrent reads and compilation.
type Engine struct {
	env      *cel.Env
	store    RuleStore
	cache    RulesCache
	programs map[string]cel.Program // ruleID -> compiled program
	mu       sync.RWMutex
}

// NewEnv creates the CEL environment rules are compiled against
func NewEnv() (*cel.Env, error) {
	env, err := cel.NewEnv(
		cel.Variable(VariableName, cel.DoubleType),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}
	return env, nil
}

// NewEngine creates an engine over store and compiles its active rules
func NewEngine(store RuleStore) (*Engine, error) {
	return NewEngineWithCache(store, DefaultCacheConfig())
}

// NewEngineWithCache is NewEngine with an explicit cache configuration
func NewEngineWithCache(store RuleStore, cacheConfig CacheConfig) (*Engine, error) {
	env, err := NewEnv()
	if err != nil {
		return nil, err
	}

	en := &Engine{
		env:      env,
		store:    store,
		cache:    NewInMemoryRulesCache(cacheConfig),
		programs: make(map[string]cel.Program),
	}

	if err := en.CompileAllRules(); err != nil {
		return nil, fmt.Errorf("failed to compile rules: %w", err)
	}

	return en, nil
}

// CompileRule compiles a single rule expression and caches the program
func (en *Engine) CompileRule(ruleID, expression string) error {
	ast, issues := en.env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return fmt.Errorf("compile error: %w", issues.Err())
	}

	prog, err := en.env.Program(ast,
		cel.EvalOptions(cel.OptTrackState),
		cel.CostLimit(costLimit),
	)
	if err != nil {
		return fmt.Errorf("program creation error: %w", err)
	}

	en.mu.Lock()
	en.programs[ruleID] = prog
	en.mu.Unlock()

	return nil
}

// CompileAllRules compiles all active rules from the store
// and populates the cache with the active rules list
func (en *Engine) CompileAllRules() error {
	rules, err := en.store.ListActive()
	if err != nil {
		return err
	}

	for _, rule := range rules {
		if err := en.CompileRule(rule.ID, rule.Expression); err != nil {
			return fmt.Errorf("failed to compile rule %s: %w", rule.ID, err)
		}
	}

	en.cache.Set(rules)

	return nil
}

// AddRule validates that a rule compiles, then adds it to the store
func (en *Engine) AddRule(r *Rule) error {
	if _, err := en.store.Get(r.ID); err == nil {
		return fmt.Errorf("rule with ID %s already exists", r.ID)
	}

	if err := en.CompileRule(r.ID, r.Expression); err != nil {
		return fmt.Errorf("rule validation failed: %w", err)
	}

	if err := en.store.Add(r); err != nil {
		en.mu.Lock()
		delete(en.programs, r.ID)
		en.mu.Unlock()
		return err
	}

	en.cache.Invalidate()

	return nil
}

// UpdateRule recompiles and stores an existing rule
func (en *Engine) UpdateRule(r *Rule) error {
	if err := en.CompileRule(r.ID, r.Expression); err != nil {
		return fmt.Errorf("rule validation failed: %w", err)
	}

	if err := en.store.Update(r); err != nil {
		return err
	}

	en.cache.Invalidate()

	return nil
}

// DeleteRule removes a rule from the store and compiled programs
func (en *Engine) DeleteRule(ruleID string) error {
	if err := en.store.Delete(ruleID); err != nil {
		return err
	}

	en.mu.Lock()
	delete(en.programs, ruleID)
	en.mu.Unlock()

	en.cache.Invalidate()

	return nil
}

// Rules returns the active rules in evaluation order
func (en *Engine) Rules() ([]*Rule, error) {
	rules := en.cache.Get()
	if rules != nil {
		return rules, nil
	}

	rules, err := en.store.ListActive()
	if err != nil {
		return nil, err
	}
	en.cache.Set(rules)
	return rules, nil
}

// Evaluate evaluates a single rule against a BMI value.
// Non-boolean results count as no match.
func (en *Engine) Evaluate(ruleID string, value float64) (*EvaluationResult, error) {
	rule, err := en.store.Get(ruleID)
	if err != nil {
		return nil, err
	}

	result := en.eval(rule, value)
	return result, result.Error
}

// EvaluateAll evaluates every active rule against a BMI value.
// Evaluation continues past rules that fail; their errors are captured per result.
func (en *Engine) EvaluateAll(value float64) ([]*EvaluationResult, error) {
	rules, err := en.Rules()
	if err != nil {
		return nil, err
	}

	results := make([]*EvaluationResult, 0, len(rules))
	for _, rule := range rules {
		results = append(results, en.eval(rule, value))
	}

	return results, nil
}

// Classify returns the category of the first active rule that matches value.
// A rule that fails to evaluate stops classification.
func (en *Engine) Classify(value float64) (bmi.Category, error) {
	rules, err := en.Rules()
	if err != nil {
		return bmi.Underweight, err
	}

	for _, rule := range rules {
		if category, done, err := decide(en.eval(rule, value)); done {
			if err != nil {
				return bmi.Underweight, fmt.Errorf("classify %v: %w", value, err)
			}
			return category, nil
		}
	}

	return bmi.Underweight, fmt.Errorf("classify %v: %w", value, ErrNoMatch)
}

// FirstMatch picks the category from results already in evaluation order.
// It gives the same answer as Classify: a failed rule ends the chain.
func FirstMatch(results []*EvaluationResult) (bmi.Category, error) {
	for _, result := range results {
		if category, done, err := decide(result); done {
			return category, err
		}
	}
	return bmi.Underweight, ErrNoMatch
}

// decide reports whether result ends the chain, and with which category
func decide(result *EvaluationResult) (bmi.Category, bool, error) {
	if result.Error != nil {
		return bmi.Underweight, true, fmt.Errorf("rule %s: %w", result.RuleID, result.Error)
	}
	if result.Matched {
		return result.Category, true, nil
	}
	return bmi.Underweight, false, nil
}

func (en *Engine) eval(rule *Rule, value float64) *EvaluationResult {
	result := &EvaluationResult{
		RuleID:   rule.ID,
		RuleName: rule.Name,
		Category: rule.Category,
	}

	en.mu.RLock()
	prog, exists := en.programs[rule.ID]
	en.mu.RUnlock()

	if !exists {
		result.Error = fmt.Errorf("rule %s is not compiled", rule.ID)
		return result
	}

	out, details, err := prog.Eval(map[string]any{VariableName: value})
	if err != nil {
		result.Error = err
		return result
	}

	if boolVal, ok := out.Value().(bool); ok {
		result.Matched = boolVal
	}
	if details != nil {
		result.Trace = details.State()
	}

	return result
}
