/*
Package journal
File: parse.go
Description:
    Parses journal lines and recognizes/sorts journal filenames. Never
    rejects an unknown event kind or extra fields -- the full payload is
    always retained on Event.Fields. Normalization (localization, casing)
    is deliberately NOT performed here; that is the state projector's job.
*/
package journal

import (
	"encoding/json"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// journalNamePattern matches "Journal.<YYYY-MM-DDTHHMMSS>.<NN>.log".
var journalNamePattern = regexp.MustCompile(`^Journal\.(\d{4}-\d{2}-\d{2}T\d{6})\.(\d+)\.log$`)

// NameParts is the result of successfully parsing a journal filename.
type NameParts struct {
	Date time.Time
	Part int
}

// ParseLine parses one journal line into an Event. It returns nil, never an
// error, on any JSON failure or on a line missing a usable "event" field --
// the tailer drops such lines rather than retrying them.
func ParseLine(line string) *Event {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}

	var fields map[string]any
	if err := json.Unmarshal([]byte(line), &fields); err != nil {
		return nil
	}

	kind, _ := fields["event"].(string)
	if kind == "" {
		return nil
	}

	ts := time.Time{}
	if raw, ok := fields["timestamp"].(string); ok {
		if parsed, err := time.Parse(time.RFC3339, raw); err == nil {
			ts = parsed
		}
	}

	return &Event{Timestamp: ts, Kind: kind, Fields: fields}
}

// ParseFile splits text on line terminators, parses each line, and drops
// any that failed to parse, preserving source order.
func ParseFile(text string) []*Event {
	lines := splitLines(text)
	events := make([]*Event, 0, len(lines))
	for _, line := range lines {
		if ev := ParseLine(line); ev != nil {
			events = append(events, ev)
		}
	}
	return events
}

// splitLines splits on \n, tolerating a trailing \r from \r\n line endings,
// and drops a final empty element left by a trailing terminator.
func splitLines(text string) []string {
	raw := strings.Split(text, "\n")
	out := make([]string, 0, len(raw))
	for _, l := range raw {
		out = append(out, strings.TrimSuffix(l, "\r"))
	}
	if len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return out
}

// IsJournalName reports whether name matches the journal filename pattern.
func IsJournalName(name string) bool {
	return journalNamePattern.MatchString(name)
}

// ParseName extracts the date and part number from a journal filename, or
// returns (NameParts{}, false) if name doesn't match the pattern.
func ParseName(name string) (NameParts, bool) {
	m := journalNamePattern.FindStringSubmatch(name)
	if m == nil {
		return NameParts{}, false
	}

	date, err := time.Parse("2006-01-02T150405", m[1])
	if err != nil {
		return NameParts{}, false
	}
	part, err := strconv.Atoi(m[2])
	if err != nil {
		return NameParts{}, false
	}
	return NameParts{Date: date, Part: part}, true
}

// SortByDate sorts journal filenames newest first, breaking ties by
// descending part number. Names that don't match the journal pattern sort
// last, in their original relative order.
func SortByDate(names []string) []string {
	out := append([]string(nil), names...)
	sort.SliceStable(out, func(i, j int) bool {
		pi, oki := ParseName(out[i])
		pj, okj := ParseName(out[j])
		if !oki && !okj {
			return false
		}
		if oki != okj {
			return oki
		}
		if !pi.Date.Equal(pj.Date) {
			return pi.Date.After(pj.Date)
		}
		return pi.Part > pj.Part
	})
	return out
}
