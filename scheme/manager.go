package scheme

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/liamcoop/bmi/bmi"
	"github.com/liamcoop/bmi/rules"
)

// CoverageLimit is the upper bound swept by VerifyCoverage on registration
const CoverageLimit = 100.0

// ErrSchemeNotFound is returned when a scheme name is not registered
var ErrSchemeNotFound = errors.New("scheme not found")

// Scheme is a named, ordered set of classification rules
type Scheme struct {
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Rules       []*rules.Rule `json:"rules"`
}

// Builtin returns the schemes every manager starts with
func Builtin() []Scheme {
	return []Scheme{
		{
			Name:        "standard",
			Description: "Standard adult cut-offs: 18.5, 25 and 30",
			Rules:       rules.StandardRules(),
		},
		{
			Name:        "asian",
			Description: "WHO cut-offs for Asian populations: 18.5, 23 and 27.5",
			Rules:       rules.AsianRules(),
		},
	}
}

// SchemeEngine wraps a rules.Engine with its scheme metadata
type SchemeEngine struct {
	Scheme Scheme
	Engine *rules.Engine
}

// Manager holds one compiled engine per registered scheme
type Manager struct {
	engines     map[string]*SchemeEngine
	cacheConfig rules.CacheConfig
	mu          sync.RWMutex
}

// NewManager creates an empty manager
func NewManager(cacheConfig rules.CacheConfig) *Manager {
	return &Manager{
		engines:     make(map[string]*SchemeEngine),
		cacheConfig: cacheConfig,
	}
}

// NewManagerWithBuiltins creates a manager with the builtin schemes registered
func NewManagerWithBuiltins(cacheConfig rules.CacheConfig) (*Manager, error) {
	m := NewManager(cacheConfig)
	for _, s := range Builtin() {
		if err := m.Register(s); err != nil {
			return nil, fmt.Errorf("failed to register builtin scheme %s: %w", s.Name, err)
		}
	}
	return m, nil
}

// Register validates and compiles a scheme, then swaps it in atomically.
// Registering an existing name replaces it.
func (m *Manager) Register(s Scheme) error {
	if err := ValidateScheme(s); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	engine, err := rules.NewSeededEngine(copyRules(s.Rules), m.cacheConfig)
	if err != nil {
		return fmt.Errorf("failed to create engine: %w", err)
	}

	if err := VerifyCoverage(engine, CoverageLimit); err != nil {
		return fmt.Errorf("scheme %s: %w", s.Name, err)
	}

	m.mu.Lock()
	m.engines[s.Name] = &SchemeEngine{Scheme: s, Engine: engine}
	m.mu.Unlock()

	return nil
}

// Engine returns the compiled engine for a scheme
func (m *Manager) Engine(name string) (*rules.Engine, error) {
	se, err := m.get(name)
	if err != nil {
		return nil, err
	}
	return se.Engine, nil
}

// Scheme returns a registered scheme definition
func (m *Manager) Scheme(name string) (Scheme, error) {
	se, err := m.get(name)
	if err != nil {
		return Scheme{}, err
	}
	return se.Scheme, nil
}

// Calculator returns a bmi.Calculator classifying with the named scheme
func (m *Manager) Calculator(name string) (*bmi.Calculator, error) {
	engine, err := m.Engine(name)
	if err != nil {
		return nil, err
	}
	return bmi.NewCalculator(engine), nil
}

// List returns the registered scheme names in sorted order
func (m *Manager) List() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.engines))
	for name := range m.engines {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Remove unregisters a scheme
func (m *Manager) Remove(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.engines[name]; !exists {
		return fmt.Errorf("%w: %s", ErrSchemeNotFound, name)
	}
	delete(m.engines, name)
	return nil
}

func (m *Manager) get(name string) (*SchemeEngine, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	se, exists := m.engines[name]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrSchemeNotFound, name)
	}
	return se, nil
}

// copyRules keeps the caller's rules untouched by store timestamps
func copyRules(in []*rules.Rule) []*rules.Rule {
	out := make([]*rules.Rule, len(in))
	for i, r := range in {
		c := *r
		out[i] = &c
	}
	return out
}
