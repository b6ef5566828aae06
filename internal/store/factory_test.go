package store

import (
	"testing"
	"time"
)

func TestFactory_New_Memory(t *testing.T) {
	s, err := New("memory", ProviderConfig{Size: 100, TTL: time.Hour})
	if err != nil {
		t.Fatalf("New memory: %v", err)
	}
	defer s.Close()

	s.Set("test", []byte("data"))
	val, ok := s.Get("test")
	if !ok || string(val) != "data" {
		t.Fatal("Memory store should work after creation via factory")
	}
}

func TestFactory_New_UnknownProvider(t *testing.T) {
	_, err := New("nonexistent", ProviderConfig{Size: 1})
	if err == nil {
		t.Fatal("Expected error for unknown provider")
	}
}

func TestFactory_New_RejectsNonPositiveSize(t *testing.T) {
	_, err := New("memory", ProviderConfig{Size: 0, TTL: time.Hour})
	if err == nil {
		t.Fatal("Expected error for zero size")
	}
}

func TestFactory_RegisteredProviders(t *testing.T) {
	names := RegisteredProviders()

	found := map[string]bool{}
	for _, n := range names {
		found[n] = true
	}
	if !found["memory"] {
		t.Error("Expected memory provider to be registered")
	}
	if !found["redis"] {
		t.Error("Expected redis provider to be registered")
	}
}

func TestFactory_Register_DuplicatePanics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Fatal("Expected panic when registering a duplicate provider")
		}
	}()
	Register("memory", newMemoryStore)
}

func TestFactory_Register_NilPanics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Fatal("Expected panic when registering a nil provider")
		}
	}()
	Register("nil-provider", nil)
}
