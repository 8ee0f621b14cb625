package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to v4 if v7 fails
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// Domain-specific ID types
type (
	ReportID        ID
	OwnerID         ID
	InvestigationID ID
)

// String conversions for domain IDs
func (id ReportID) String() string        { return ID(id).String() }
func (id OwnerID) String() string         { return ID(id).String() }
func (id InvestigationID) String() string { return ID(id).String() }

func (id ReportID) IsEmpty() bool { return ID(id).IsEmpty() }
func (id OwnerID) IsEmpty() bool  { return ID(id).IsEmpty() }

// ParseReportID parses a string into ReportID
func ParseReportID(s string) (ReportID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("report ID cannot be empty")
	}
	return ReportID(s), nil
}

// ParseOwnerID parses a string into OwnerID
func ParseOwnerID(s string) (OwnerID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("owner ID cannot be empty")
	}
	return OwnerID(s), nil
}
