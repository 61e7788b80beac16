// Package repair applies deterministic fixes for validation findings.
package repair

import (
	"fmt"

	"github.com/woozymasta/firconv/internal/geo"
	"github.com/woozymasta/firconv/internal/validate"
)

// Note records what was done about one finding.
type Note struct {
	Boundary string        `json:"boundary" yaml:"boundary"`
	Action   string        `json:"action" yaml:"action"`
	Kind     validate.Kind `json:"kind" yaml:"kind"`
	Index    int           `json:"index" yaml:"index"`
	Ring     int           `json:"ring" yaml:"ring"`
	// Unresolved is set when a whole boundary was dropped. A dropped ring
	// whose boundary keeps other rings is a fix.
	Unresolved bool `json:"unresolved,omitempty" yaml:"unresolved,omitempty"`
}

func (n Note) String() string {
	s := fmt.Sprintf("%s #%d", n.Boundary, n.Index)
	if n.Ring != validate.NoRing {
		s += fmt.Sprintf(" ring %d", n.Ring)
	}
	s += fmt.Sprintf(": %s: %s", n.Kind, n.Action)
	if n.Unresolved {
		s += " (unresolved)"
	}
	return s
}

// Notes is the outcome of one repair run.
type Notes []Note

// Unresolved returns the notes for dropped boundaries.
func (ns Notes) Unresolved() Notes {
	var out Notes
	for _, n := range ns {
		if n.Unresolved {
			out = append(out, n)
		}
	}
	return out
}

// Fix validates the document and repairs what it finds.
func Fix(doc *geo.Document) (*geo.Document, Notes) {
	return Repair(doc, validate.Validate(doc))
}

type ringFix struct {
	close, dedupe, drop bool
}

// Repair fixes the findings of report in place and returns doc:
// later duplicates are renamed with a numeric suffix, open rings are closed,
// repeated points are removed, degenerate rings are dropped, and boundaries
// left without rings are dropped. Findings that do not match the document
// are ignored.
func Repair(doc *geo.Document, report validate.Report) (*geo.Document, Notes) {
	var notes Notes

	rings := make(map[int]map[int]*ringFix)
	dropEmpty := make(map[int]bool)

	used := make(map[string]struct{}, len(doc.Boundaries))
	for _, b := range doc.Boundaries {
		used[b.ID] = struct{}{}
	}

	for _, f := range report.Findings {
		if f.Index < 0 || f.Index >= len(doc.Boundaries) {
			continue
		}
		b := &doc.Boundaries[f.Index]

		switch f.Kind {
		case validate.DuplicateIdentifier:
			old := b.ID
			b.ID = nextFreeID(old, used)
			notes = append(notes, Note{
				Kind:     f.Kind,
				Boundary: old,
				Index:    f.Index,
				Ring:     validate.NoRing,
				Action:   "renamed to " + b.ID,
			})

		case validate.EmptyBoundary:
			if len(b.Rings) == 0 {
				dropEmpty[f.Index] = true
			}

		case validate.UnclosedRing, validate.ConsecutiveDuplicates, validate.DegenerateRing:
			if f.Ring < 0 || f.Ring >= len(b.Rings) {
				continue
			}
			if rings[f.Index] == nil {
				rings[f.Index] = make(map[int]*ringFix)
			}
			rf := rings[f.Index][f.Ring]
			if rf == nil {
				rf = &ringFix{}
				rings[f.Index][f.Ring] = rf
			}
			switch f.Kind {
			case validate.UnclosedRing:
				rf.close = true
			case validate.ConsecutiveDuplicates:
				rf.dedupe = true
			default:
				rf.drop = true
			}
		}
	}

	kept := doc.Boundaries[:0]
	for i := range doc.Boundaries {
		b := doc.Boundaries[i]

		if fixes, ok := rings[i]; ok {
			hadRings := len(b.Rings) > 0
			b.Rings, notes = fixRings(b, i, fixes, notes)
			if hadRings && len(b.Rings) == 0 {
				notes = append(notes, Note{
					Kind:       validate.DegenerateRing,
					Boundary:   b.ID,
					Index:      i,
					Ring:       validate.NoRing,
					Action:     "dropped boundary, no valid rings left",
					Unresolved: true,
				})
				continue
			}
		}

		if dropEmpty[i] {
			notes = append(notes, Note{
				Kind:       validate.EmptyBoundary,
				Boundary:   b.ID,
				Index:      i,
				Ring:       validate.NoRing,
				Action:     "dropped boundary without rings",
				Unresolved: true,
			})
			continue
		}

		kept = append(kept, b)
	}
	doc.Boundaries = kept

	return doc, notes
}

func fixRings(b geo.Boundary, index int, fixes map[int]*ringFix, notes Notes) ([]geo.Ring, Notes) {
	out := make([]geo.Ring, 0, len(b.Rings))
	for j, r := range b.Rings {
		rf := fixes[j]
		if rf == nil {
			out = append(out, r)
			continue
		}

		note := func(k validate.Kind, action string) {
			notes = append(notes, Note{Kind: k, Boundary: b.ID, Index: index, Ring: j, Action: action})
		}

		if rf.drop {
			note(validate.DegenerateRing, "dropped ring")
			continue
		}
		if rf.dedupe {
			before := len(r)
			r = geo.DedupeConsecutive(r)
			note(validate.ConsecutiveDuplicates, fmt.Sprintf("removed %d repeated points", before-len(r)))
		}
		if rf.close {
			r = geo.Close(r)
			note(validate.UnclosedRing, "closed ring")
		}
		out = append(out, r)
	}
	return out, notes
}

func nextFreeID(base string, used map[string]struct{}) string {
	for n := 2; ; n++ {
		id := fmt.Sprintf("%s-%d", base, n)
		if _, taken := used[id]; !taken {
			used[id] = struct{}{}
			return id
		}
	}
}
