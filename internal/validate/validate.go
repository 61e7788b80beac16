// Package validate checks a boundary document for structural defects.
// It never modifies the document and never fails: defects are data.
package validate

import (
	"fmt"

	"github.com/woozymasta/firconv/internal/geo"
)

// Kind identifies a class of defect.
type Kind int

// Defect kinds in the order they are checked.
const (
	DuplicateIdentifier Kind = iota + 1
	UnclosedRing
	ConsecutiveDuplicates
	DegenerateRing
	EmptyBoundary
)

var kindNames = map[Kind]string{
	DuplicateIdentifier:   "DuplicateIdentifier",
	UnclosedRing:          "UnclosedRing",
	ConsecutiveDuplicates: "ConsecutiveDuplicates",
	DegenerateRing:        "DegenerateRing",
	EmptyBoundary:         "EmptyBoundary",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// MarshalText renders the kind by name in JSON and YAML reports.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(b []byte) error {
	for kind, name := range kindNames {
		if name == string(b) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown finding kind %q", b)
}

// NoRing marks a finding that applies to the whole boundary.
const NoRing = -1

// Finding is one defect.
type Finding struct {
	Boundary string `json:"boundary" yaml:"boundary"`
	Kind     Kind   `json:"kind" yaml:"kind"`
	Index    int    `json:"index" yaml:"index"` // boundary position in the document
	Ring     int    `json:"ring" yaml:"ring"`   // NoRing for boundary-level findings
}

func (f Finding) String() string {
	if f.Ring == NoRing {
		return fmt.Sprintf("%s #%d: %s", f.Boundary, f.Index, f.Kind)
	}
	return fmt.Sprintf("%s #%d ring %d: %s", f.Boundary, f.Index, f.Ring, f.Kind)
}

// Report lists every finding of one validation run.
type Report struct {
	Findings []Finding `json:"findings" yaml:"findings"`
}

// Valid reports whether there are no findings.
func (r Report) Valid() bool {
	return len(r.Findings) == 0
}

// Count returns the number of findings of the given kind.
func (r Report) Count(kind Kind) int {
	n := 0
	for _, f := range r.Findings {
		if f.Kind == kind {
			n++
		}
	}
	return n
}

// ByBoundary returns the findings for the boundary at index i.
func (r Report) ByBoundary(i int) []Finding {
	var out []Finding
	for _, f := range r.Findings {
		if f.Index == i {
			out = append(out, f)
		}
	}
	return out
}

// Validate runs the identifier pass and then the geometry pass.
func Validate(doc *geo.Document) Report {
	var r Report
	r.Findings = append(r.Findings, Identifiers(doc)...)
	r.Findings = append(r.Findings, Geometry(doc)...)
	return r
}

// Identifiers flags every boundary whose identifier was already used by an
// earlier one. The first occurrence is not flagged.
func Identifiers(doc *geo.Document) []Finding {
	var out []Finding
	seen := make(map[string]struct{}, len(doc.Boundaries))
	for i, b := range doc.Boundaries {
		if _, dup := seen[b.ID]; dup {
			out = append(out, Finding{Kind: DuplicateIdentifier, Boundary: b.ID, Index: i, Ring: NoRing})
			continue
		}
		seen[b.ID] = struct{}{}
	}
	return out
}

// Geometry checks each ring for closure, repeated points and degeneracy,
// then flags boundaries without rings.
func Geometry(doc *geo.Document) []Finding {
	var out []Finding
	for i, b := range doc.Boundaries {
		for j, ring := range b.Rings {
			add := func(k Kind) {
				out = append(out, Finding{Kind: k, Boundary: b.ID, Index: i, Ring: j})
			}
			if !geo.IsClosed(ring) {
				add(UnclosedRing)
			}
			if geo.HasConsecutiveDuplicates(ring) {
				add(ConsecutiveDuplicates)
			}
			if geo.IsDegenerate(ring) {
				add(DegenerateRing)
			}
		}
		if len(b.Rings) == 0 {
			out = append(out, Finding{Kind: EmptyBoundary, Boundary: b.ID, Index: i, Ring: NoRing})
		}
	}
	return out
}
