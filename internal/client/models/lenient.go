package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Term is a period in months. The product API sends it as a number or as a
// numeric string; anything else decodes to 0 instead of failing the record.
type Term int

func (t *Term) UnmarshalJSON(b []byte) error {
	*t = 0
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return nil
		}
		b = []byte(strings.TrimSpace(s))
	}
	n, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return nil
	}
	*t = Term(n)
	return nil
}

// timestampLayouts covers aware and naive ISO 8601 forms. Naive values are
// read as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// Timestamp is a display-only server time. Raw holds the value as sent;
// Time is zero when none of the known layouts match.
type Timestamp struct {
	time.Time
	Raw string
}

func (ts *Timestamp) UnmarshalJSON(b []byte) error {
	*ts = Timestamp{}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return nil
	}
	ts.Raw = s
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			ts.Time = parsed
			break
		}
	}
	return nil
}

func (ts Timestamp) MarshalJSON() ([]byte, error) {
	switch {
	case ts.Raw != "":
		return json.Marshal(ts.Raw)
	case ts.Time.IsZero():
		return []byte("null"), nil
	default:
		return json.Marshal(ts.Time.Format(time.RFC3339Nano))
	}
}

// Display formats the parsed time with layout, or returns Raw as sent.
func (ts Timestamp) Display(layout string) string {
	if ts.Time.IsZero() {
		return ts.Raw
	}
	return ts.Time.Format(layout)
}
