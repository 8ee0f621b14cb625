package core

import (
	"testing"
)

// TestNewIDUniqueness tests that NewID generates unique identifiers
func TestNewIDUniqueness(t *testing.T) {
	const numIDs = 10000

	ids := make(map[ID]bool, numIDs)
	for i := 0; i < numIDs; i++ {
		id := NewID()
		if id.IsEmpty() {
			t.Errorf("Generated empty ID at iteration %d", i)
		}
		if ids[id] {
			t.Errorf("Generated duplicate ID: %s", id)
		}
		ids[id] = true
	}

	if len(ids) != numIDs {
		t.Errorf("Expected %d unique IDs, got %d", numIDs, len(ids))
	}
}

// TestIDIsEmpty tests ID emptiness check
func TestIDIsEmpty(t *testing.T) {
	if !ID("").IsEmpty() {
		t.Error("Expected empty ID to be empty")
	}
	if ID("not-empty").IsEmpty() {
		t.Error("Expected non-empty ID to not be empty")
	}
}

// TestParseReportID tests report ID parsing
func TestParseReportID(t *testing.T) {
	tests := []struct {
		input    string
		expected ReportID
		hasError bool
	}{
		{"valid-id", ReportID("valid-id"), false},
		{"", "", true},
		{"   ", "", true},
	}

	for _, tt := range tests {
		result, err := ParseReportID(tt.input)
		if tt.hasError {
			if err == nil {
				t.Errorf("ParseReportID(%q): expected error, got none", tt.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseReportID(%q): unexpected error: %v", tt.input, err)
		}
		if result != tt.expected {
			t.Errorf("ParseReportID(%q) = %q, want %q", tt.input, result, tt.expected)
		}
	}
}
