// Package sequence holds the shared identifier allocation domain: named
// monotonic counters and the per-entity-type formatting rules that turn a
// counter value into a public identifier.
package sequence

import (
	"fmt"
	"time"
)

// Counter is a named, persisted monotonic integer. One counter exists per
// entity type across the entire system; values are never reused and never
// decrease, even under concurrent allocation.
type Counter struct {
	Name      string
	Value     int64
	UpdatedAt time.Time
}

// EntityType identifies the counter namespace for an entity kind.
// Counter names are global, not per organization.
type EntityType string

const (
	EntityTypeOrganization EntityType = "organizationId"
	EntityTypeUser         EntityType = "userId"
	EntityTypeLead         EntityType = "leadId"
	EntityTypePipelineDeal EntityType = "pipelineId"
	EntityTypeQuote        EntityType = "quoteId"
	EntityTypeCustomer     EntityType = "customerId"
	EntityTypeProject      EntityType = "projectId"
	EntityTypeTask         EntityType = "taskId"
)

// IdentifierSpec describes how a counter value is rendered into a public
// identifier for one entity type.
type IdentifierSpec struct {
	Prefix string
	Width  int
}

// Widths are intentionally not uniform; each entity type keeps its own.
var identifierSpecs = map[EntityType]IdentifierSpec{
	EntityTypeOrganization: {Prefix: "ORG", Width: 6},
	EntityTypeUser:         {Prefix: "USR", Width: 6},
	EntityTypeLead:         {Prefix: "LED", Width: 9},
	EntityTypePipelineDeal: {Prefix: "PIP", Width: 7},
	EntityTypeQuote:        {Prefix: "QUO", Width: 7},
	EntityTypeCustomer:     {Prefix: "CUS", Width: 6},
	EntityTypeProject:      {Prefix: "PRJ", Width: 6},
	EntityTypeTask:         {Prefix: "TSK", Width: 8},
}

// IsValid reports whether the entity type has an identifier spec
func (t EntityType) IsValid() bool {
	_, ok := identifierSpecs[t]
	return ok
}

// String returns the counter name for the entity type
func (t EntityType) String() string {
	return string(t)
}

// SpecFor returns the identifier spec for an entity type
func SpecFor(t EntityType) (IdentifierSpec, bool) {
	spec, ok := identifierSpecs[t]
	return spec, ok
}

// EntityTypes returns all entity types with an identifier spec
func EntityTypes() []EntityType {
	types := make([]EntityType, 0, len(identifierSpecs))
	for t := range identifierSpecs {
		types = append(types, t)
	}
	return types
}

// Format renders a sequence value as a public identifier: the prefix followed
// by the value zero-padded to the configured width. Values wider than the
// configured width are kept whole rather than truncated.
func Format(prefix string, width int, value int64) string {
	return fmt.Sprintf("%s%0*d", prefix, width, value)
}

// FormatFor renders a sequence value using the entity type's spec
func (t EntityType) FormatFor(value int64) string {
	spec := identifierSpecs[t]
	return Format(spec.Prefix, spec.Width, value)
}
