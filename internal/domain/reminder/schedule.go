// internal/domain/reminder/schedule.go
package reminder

import (
	"encoding/json"
	"math"
	"strings"
)

// ParseSchedule turns a stored schedule into a usable Schedule. It accepts a Schedule or
// []Interval, decoded JSON ([]any, []map[string]any) or serialized JSON ([]byte, string,
// json.RawMessage). Malformed entries are dropped; if nothing usable is left, or the input is
// absent or unparseable, DefaultSchedule is returned. It never fails.
func ParseSchedule(raw any) Schedule {
	var parsed Schedule

	switch v := raw.(type) {
	case nil:
		return DefaultSchedule()
	case Schedule:
		parsed = filterValid(v)
	case []Interval:
		parsed = filterValid(v)
	case []any:
		parsed = parseEntries(v)
	case []map[string]any:
		entries := make([]any, 0, len(v))
		for _, m := range v {
			entries = append(entries, m)
		}
		parsed = parseEntries(entries)
	case json.RawMessage:
		parsed = parseJSON(v)
	case []byte:
		parsed = parseJSON(v)
	case string:
		parsed = parseJSON([]byte(v))
	default:
		return DefaultSchedule()
	}

	if len(parsed) == 0 {
		return DefaultSchedule()
	}
	return parsed
}

func parseJSON(data []byte) Schedule {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil
	}
	var entries []any
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil
	}
	return parseEntries(entries)
}

func parseEntries(entries []any) Schedule {
	out := make(Schedule, 0, len(entries))
	for _, e := range entries {
		if interval, ok := parseEntry(e); ok {
			out = append(out, interval)
		}
	}
	return out
}

func parseEntry(entry any) (Interval, bool) {
	var m map[string]any
	switch v := entry.(type) {
	case map[string]any:
		m = v
	case Interval:
		return v, v.Valid()
	default:
		return Interval{}, false
	}

	value, ok := positiveInt(m["value"])
	if !ok {
		return Interval{}, false
	}
	unit, ok := m["unit"].(string)
	if !ok {
		return Interval{}, false
	}

	interval := Interval{Value: value, Unit: Unit(unit)}
	return interval, interval.Valid()
}

// positiveInt accepts integral JSON numbers only: 3 and 3.0 pass, 2.5 and "3" do not.
func positiveInt(v any) (int, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if f <= 0 || f != math.Trunc(f) || f > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}

func filterValid(in []Interval) Schedule {
	out := make(Schedule, 0, len(in))
	for _, i := range in {
		if i.Valid() {
			out = append(out, i)
		}
	}
	return out
}
