// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package diag

import (
	"strings"
	"testing"
)

func TestCollectorAccumulatesInOrder(t *testing.T) {
	c := NewCollector()
	c.Add(KindMalformedRecord, "a1", "record has no %s", "identifier")
	c.Add(KindAmbiguousIdentity, "A | B", "similarity %.2f", 0.8)

	warnings := c.Warnings()
	if len(warnings) != 2 {
		t.Fatalf("len = %d, want 2", len(warnings))
	}
	if warnings[0].Kind != KindMalformedRecord || warnings[0].Subject != "a1" {
		t.Errorf("first warning = %+v", warnings[0])
	}
	if warnings[0].Message != "record has no identifier" {
		t.Errorf("message = %q", warnings[0].Message)
	}
	if c.Count(KindAmbiguousIdentity) != 1 {
		t.Errorf("Count(ambiguous) = %d, want 1", c.Count(KindAmbiguousIdentity))
	}
}

func TestCollectorReport(t *testing.T) {
	c := NewCollector()
	c.Add(KindFileLoad, "batch.json", "unexpected end of JSON input")

	var buf strings.Builder
	c.Report(&buf)

	out := buf.String()
	if !strings.Contains(out, "file_load") || !strings.Contains(out, "batch.json") {
		t.Errorf("report = %q", out)
	}
	if !strings.HasPrefix(out, "warning: ") {
		t.Errorf("report lines should be prefixed: %q", out)
	}
}
