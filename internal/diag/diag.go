// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package diag collects non-fatal diagnostics raised while loading and
// aggregating record batches. Warnings accumulate in a collector the
// orchestrator inspects after the run; they are never used as control flow.
package diag

import (
	"fmt"
	"io"
)

// Kind classifies a warning.
type Kind string

const (
	// KindMalformedRecord marks a record missing a required field. The
	// record is excluded from aggregation; the batch continues.
	KindMalformedRecord Kind = "malformed_record"

	// KindAmbiguousIdentity marks a name pair whose similarity score fell
	// in the indeterminate band. The pair is treated as distinct.
	KindAmbiguousIdentity Kind = "ambiguous_identity"

	// KindUnknownCategory marks a category path absent from the taxonomy
	// vocabulary.
	KindUnknownCategory Kind = "unknown_category"

	// KindFileLoad marks an input file that could not be read or parsed.
	KindFileLoad Kind = "file_load"
)

// Warning is one collected diagnostic.
type Warning struct {
	Kind Kind `json:"kind"`

	// Subject identifies what the warning is about: a record identifier,
	// a name pair, a file path.
	Subject string `json:"subject"`

	Message string `json:"message"`
}

func (w Warning) String() string {
	return fmt.Sprintf("%s [%s]: %s", w.Kind, w.Subject, w.Message)
}

// Collector accumulates warnings for one run. The zero value is not
// usable; construct with NewCollector. Not safe for concurrent use.
type Collector struct {
	warnings []Warning
}

// NewCollector returns an empty collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Add records a warning.
func (c *Collector) Add(kind Kind, subject, format string, args ...any) {
	c.warnings = append(c.warnings, Warning{
		Kind:    kind,
		Subject: subject,
		Message: fmt.Sprintf(format, args...),
	})
}

// Warnings returns the collected warnings in insertion order.
func (c *Collector) Warnings() []Warning {
	return c.warnings
}

// Count returns the number of warnings with the given kind.
func (c *Collector) Count(kind Kind) int {
	n := 0
	for _, w := range c.warnings {
		if w.Kind == kind {
			n++
		}
	}
	return n
}

// Len returns the total number of collected warnings.
func (c *Collector) Len() int {
	return len(c.warnings)
}

// Report writes every warning to w, one per line.
func (c *Collector) Report(w io.Writer) {
	for _, warning := range c.warnings {
		fmt.Fprintf(w, "warning: %s\n", warning)
	}
}
