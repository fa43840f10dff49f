// Package provider implements the LLM translation backends.
package provider

import "github.com/billy-and-the-oceans/callibella"

// Provider is the interface for LLM translation backends.
// This is an alias to the main package interface for convenience.
type Provider = callibella.Provider

// PlannedBlock is an alias to the main package type.
type PlannedBlock = callibella.PlannedBlock

// PlannedSegment is an alias to the main package type.
type PlannedSegment = callibella.PlannedSegment

// PlannedSpan is an alias to the main package type.
type PlannedSpan = callibella.PlannedSpan

// PlannedVariant is an alias to the main package type.
type PlannedVariant = callibella.PlannedVariant
