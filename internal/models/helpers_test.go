package models

import "testing"

func TestRecordIDString(t *testing.T) {
	id := NewRecordID("user", "alice")

	s, err := RecordIDString(id)
	if err != nil {
		t.Fatalf("RecordIDString returned error: %v", err)
	}
	if s != "alice" {
		t.Errorf("RecordIDString = %q, want %q", s, "alice")
	}
}

func TestRecordIDStringNonString(t *testing.T) {
	id := NewRecordID("user", "7")
	id.ID = 7

	if _, err := RecordIDString(id); err == nil {
		t.Error("expected error for non-string record id")
	}
}
