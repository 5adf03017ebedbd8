// Package study collects the outcome of one massing script evaluation:
// an ordered set of named mass records plus the warnings raised while
// building them. A Study is what UI bindings and exporters consume.
package study

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/parti-cad/parti/pkg/massing"
)

// MassRecord is one named mass in a study. The Result may be empty when
// the requested configuration was infeasible; the record is kept so the
// author sees the name echoed back next to its warning.
type MassRecord struct {
	ID      uuid.UUID
	Name    string
	Request massing.Request
	Result  massing.Result
}

// Built reports whether the record carries actual geometry.
func (r *MassRecord) Built() bool {
	return !r.Result.IsEmpty()
}

// Study is an ordered collection of mass records built during one
// evaluation. It is not safe for concurrent mutation; evaluations build
// a fresh Study each run.
type Study struct {
	records  []*MassRecord
	byName   map[string]*MassRecord
	warnings []string
}

// New creates an empty study.
func New() *Study {
	return &Study{byName: make(map[string]*MassRecord)}
}

// Add appends a record for name. Names must be unique within a study.
func (s *Study) Add(name string, req massing.Request, res massing.Result) (*MassRecord, error) {
	if name == "" {
		return nil, fmt.Errorf("study: mass name must not be empty")
	}
	if _, exists := s.byName[name]; exists {
		return nil, fmt.Errorf("study: duplicate mass name %q", name)
	}
	rec := &MassRecord{
		ID:      uuid.New(),
		Name:    name,
		Request: req,
		Result:  res,
	}
	s.records = append(s.records, rec)
	s.byName[name] = rec
	return rec, nil
}

// Lookup returns the record with the given name, or nil.
func (s *Study) Lookup(name string) *MassRecord {
	return s.byName[name]
}

// Records returns the records in insertion order.
func (s *Study) Records() []*MassRecord {
	return s.records
}

// MassCount returns the number of records, built or not.
func (s *Study) MassCount() int {
	return len(s.records)
}

// BuiltCount returns the number of records that carry geometry.
func (s *Study) BuiltCount() int {
	n := 0
	for _, r := range s.records {
		if r.Built() {
			n++
		}
	}
	return n
}

// AddWarning records a non-fatal message for the author.
func (s *Study) AddWarning(format string, args ...any) {
	s.warnings = append(s.warnings, fmt.Sprintf(format, args...))
}

// Warnings returns the warnings in the order they were raised.
func (s *Study) Warnings() []string {
	return s.warnings
}

// MassMetrics is the per-mass slice of a study summary.
type MassMetrics struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Typology       string  `json:"typology"`
	Built          bool    `json:"built"`
	FloorCount     int     `json:"floorCount"`
	FootprintArea  float64 `json:"footprintArea"`
	TotalFloorArea float64 `json:"totalFloorArea"`
	TotalVolume    float64 `json:"totalVolume"`
}

// Summary aggregates the measurable outcomes of a study for export and
// UI display.
type Summary struct {
	Masses         []MassMetrics `json:"masses"`
	TotalFloorArea float64       `json:"totalFloorArea"`
	TotalVolume    float64       `json:"totalVolume"`
	Warnings       []string      `json:"warnings,omitempty"`
}

// Summarize computes the summary over all records.
func (s *Study) Summarize() Summary {
	sum := Summary{Warnings: s.warnings}
	for _, r := range s.records {
		m := MassMetrics{
			ID:       r.ID.String(),
			Name:     r.Name,
			Typology: r.Request.Typology.String(),
			Built:    r.Built(),
		}
		if r.Built() {
			m.FloorCount = r.Result.FloorCount
			m.FootprintArea = r.Result.FootprintArea
			m.TotalFloorArea = r.Result.TotalFloorArea
			m.TotalVolume = r.Result.TotalVolume
			sum.TotalFloorArea += r.Result.TotalFloorArea
			sum.TotalVolume += r.Result.TotalVolume
		}
		sum.Masses = append(sum.Masses, m)
	}
	return sum
}
