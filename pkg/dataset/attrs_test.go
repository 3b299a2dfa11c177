package dataset

import (
	"reflect"
	"testing"
)

// TestAttrsOrder tests insertion-ordered iteration
func TestAttrsOrder(t *testing.T) {
	a := NewAttrs()
	a.Set("c", 1)
	a.Set("a", 2)
	a.Set("b", 3)
	a.Set("a", 4) // overwrite keeps position

	expected := []string{"c", "a", "b"}
	if !reflect.DeepEqual(a.Keys(), expected) {
		t.Errorf("Expected keys %v, got %v", expected, a.Keys())
	}
	if v, _ := a.Get("a"); v != 4 {
		t.Errorf("Expected overwritten value 4, got %v", v)
	}
}

// TestAttrsClone tests clone independence
func TestAttrsClone(t *testing.T) {
	a := NewAttrs()
	a.Set("k", "v")

	b := a.Clone()
	b.Set("k", "changed")
	b.Set("extra", 1)

	if v, _ := a.Get("k"); v != "v" {
		t.Errorf("Expected original value unchanged, got %v", v)
	}
	if a.Has("extra") {
		t.Error("Expected original to lack cloned key")
	}
}

// TestAttrsMerge tests rename-before-merge semantics
func TestAttrsMerge(t *testing.T) {
	dst := NewAttrs()
	dst.Set("id", 7)

	src := NewAttrs()
	src.Set("old_name", "value")
	src.Set("keep", true)

	dst.Merge(src, map[string]string{"old_name": "new_name"})

	if dst.Has("old_name") {
		t.Error("Expected renamed key to replace old key")
	}
	if v, ok := dst.Get("new_name"); !ok || v != "value" {
		t.Errorf("Expected new_name=value, got %v (present=%v)", v, ok)
	}
	expected := []string{"id", "new_name", "keep"}
	if !reflect.DeepEqual(dst.Keys(), expected) {
		t.Errorf("Expected keys %v, got %v", expected, dst.Keys())
	}
}
