package rules

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestRuleStoreInterface(t *testing.T) {
	var _ RuleStore = (*InMemoryRuleStore)(nil)
}

func TestInMemoryRuleStoreAddGet(t *testing.T) {
	store := NewInMemoryRuleStore()

	rule := &Rule{ID: "test-1", Name: "Test Rule", Expression: `bmi < 18.5`, Active: true}
	if err := store.Add(rule); err != nil {
		t.Fatalf("Add() failed: %v", err)
	}

	retrieved, err := store.Get("test-1")
	if err != nil {
		t.Fatalf("Get() failed after Add(): %v", err)
	}
	if retrieved.Name != rule.Name {
		t.Errorf("Retrieved rule Name = %s, want %s", retrieved.Name, rule.Name)
	}
	if retrieved.CreatedAt.IsZero() || !retrieved.CreatedAt.Equal(retrieved.UpdatedAt) {
		t.Error("Add() should set CreatedAt and UpdatedAt")
	}

	if _, err := store.Get("missing"); err == nil {
		t.Error("Get() should fail for unknown ID")
	}
}

func TestInMemoryRuleStoreAddDuplicate(t *testing.T) {
	store := NewInMemoryRuleStore()

	if err := store.Add(&Rule{ID: "dup", Name: "First Rule"}); err != nil {
		t.Fatalf("First Add() should succeed: %v", err)
	}
	if err := store.Add(&Rule{ID: "dup", Name: "Second Rule"}); err == nil {
		t.Fatal("Add() with duplicate ID should return error")
	}

	retrieved, _ := store.Get("dup")
	if retrieved.Name != "First Rule" {
		t.Errorf("Rule should not have been overwritten, Name = %s", retrieved.Name)
	}
}

// TestInMemoryRuleStoreListActiveOrder verifies priority order with ID as tie-breaker
func TestInMemoryRuleStoreListActiveOrder(t *testing.T) {
	store := NewInMemoryRuleStore()
	for _, rule := range []*Rule{
		{ID: "c", Priority: 30, Active: true},
		{ID: "a", Priority: 10, Active: true},
		{ID: "x", Priority: 5, Active: false},
		{ID: "b2", Priority: 20, Active: true},
		{ID: "b1", Priority: 20, Active: true},
	} {
		store.Add(rule)
	}

	active, err := store.ListActive()
	if err != nil {
		t.Fatalf("ListActive() failed: %v", err)
	}

	var ids []string
	for _, r := range active {
		ids = append(ids, r.ID)
	}
	if got, want := fmt.Sprint(ids), "[a b1 b2 c]"; got != want {
		t.Errorf("ListActive() order = %s, want %s", got, want)
	}
}

func TestInMemoryRuleStoreUpdate(t *testing.T) {
	store := NewInMemoryRuleStore()
	store.Add(&Rule{ID: "u", Name: "Before", Active: true})
	original, _ := store.Get("u")
	createdAt := original.CreatedAt

	time.Sleep(5 * time.Millisecond)

	if err := store.Update(&Rule{ID: "u", Name: "After", Active: true}); err != nil {
		t.Fatalf("Update() failed: %v", err)
	}

	updated, _ := store.Get("u")
	if updated.Name != "After" {
		t.Errorf("Name = %s, want After", updated.Name)
	}
	if !updated.CreatedAt.Equal(createdAt) {
		t.Error("Update() should preserve CreatedAt")
	}
	if !updated.UpdatedAt.After(createdAt) {
		t.Error("Update() should advance UpdatedAt")
	}

	if err := store.Update(&Rule{ID: "missing"}); err == nil {
		t.Error("Update() should fail for unknown ID")
	}
}

func TestInMemoryRuleStoreDelete(t *testing.T) {
	store := NewInMemoryRuleStore()
	store.Add(&Rule{ID: "d", Active: true})

	if err := store.Delete("d"); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if _, err := store.Get("d"); err == nil {
		t.Error("Get() should fail after Delete()")
	}
	if err := store.Delete("d"); err == nil {
		t.Error("second Delete() should fail")
	}
}

func TestInMemoryRuleStoreConcurrentAccess(t *testing.T) {
	store := NewInMemoryRuleStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			store.Add(&Rule{ID: fmt.Sprintf("rule-%d", i), Priority: i, Active: true})
		}(i)
		go func() {
			defer wg.Done()
			store.ListActive()
		}()
	}
	wg.Wait()

	active, _ := store.ListActive()
	if len(active) != 50 {
		t.Errorf("ListActive() returned %d rules, want 50", len(active))
	}
}
