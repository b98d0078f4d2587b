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
	RunID     ID
	MetricKey ID
)

// String conversions for domain IDs
func (id RunID) String() string    { return ID(id).String() }
func (k MetricKey) String() string { return ID(k).String() }

// Label returns the metric key with underscores replaced by spaces,
// the form used in chart titles and report prose.
func (k MetricKey) Label() string {
	return strings.ReplaceAll(string(k), "_", " ")
}

// ParseMetricKey parses a string into MetricKey
func ParseMetricKey(s string) (MetricKey, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("metric key cannot be empty")
	}
	return MetricKey(s), nil
}

// GroupLabel identifies one of the two experiment arms.
type GroupLabel string

const (
	GroupA GroupLabel = "A"
	GroupB GroupLabel = "B"
)

// String returns the string representation
func (g GroupLabel) String() string {
	return string(g)
}
