// SPDX-License-Identifier: MIT
package transition

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
)

// Column names recognised by ReadObservationsCSV.
const (
	ColEntity = "entity_id"
	ColTime   = "date"
	ColState  = "state"
)

// timeLayouts are tried in order when parsing the date column.
var timeLayouts = []string{time.RFC3339, time.DateOnly, "2006-01"}

// ReadObservationsCSV reads observations from CSV with a header row naming
// at least entity_id, date and state (any order, case-insensitive; loan_id
// is accepted for entity_id). Dates are RFC3339, YYYY-MM-DD or YYYY-MM.
//
// Errors: ErrBadHeader, ErrBadTime, ErrInvalidObservation, csv parse errors.
func ReadObservationsCSV(r io.Reader) ([]Observation, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("ReadObservationsCSV: empty input: %w", ErrBadHeader)
	}
	if err != nil {
		return nil, fmt.Errorf("ReadObservationsCSV: %w", err)
	}
	cols := map[string]int{}
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(h))
		if name == "loan_id" {
			name = ColEntity
		}
		cols[name] = i
	}
	for _, need := range []string{ColEntity, ColTime, ColState} {
		if _, ok := cols[need]; !ok {
			return nil, fmt.Errorf("ReadObservationsCSV: %q: %w", need, ErrBadHeader)
		}
	}

	var out []Observation
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ReadObservationsCSV: %w", err)
		}
		ts, err := parseTime(rec[cols[ColTime]])
		if err != nil {
			return nil, fmt.Errorf("ReadObservationsCSV: line %d: %w", line, err)
		}
		o := Observation{
			EntityID: strings.TrimSpace(rec[cols[ColEntity]]),
			Time:     ts,
			State:    strings.TrimSpace(rec[cols[ColState]]),
		}
		if o.EntityID == "" || o.State == "" {
			return nil, fmt.Errorf("ReadObservationsCSV: line %d: %w", line, ErrInvalidObservation)
		}
		out = append(out, o)
	}

	return out, nil
}

func parseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("%q: %w", s, ErrBadTime)
}
