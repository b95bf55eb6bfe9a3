package memory

import (
	"regexp"
	"strings"
)

var fieldPatterns = func() map[Field]*regexp.Regexp {
	out := make(map[Field]*regexp.Regexp, len(Fields))
	for _, f := range Fields {
		// "." stops at the line break, so a value runs to the end of its line.
		out[f] = regexp.MustCompile(`(?i)` + string(f) + `\s*:\s*(.+)`)
	}
	return out
}()

// Extract picks labelled values such as "Industry: fintech" out of free text.
// Only the first match per field is used. ok is false when nothing matched.
func Extract(text string) (Update, bool) {
	if strings.TrimSpace(text) == "" {
		return nil, false
	}
	upd := Update{}
	for _, f := range Fields {
		m := fieldPatterns[f].FindStringSubmatch(text)
		if m == nil {
			continue
		}
		value := strings.TrimSpace(m[1])
		if value == "" {
			continue
		}
		upd[f] = value
	}
	if len(upd) == 0 {
		return nil, false
	}
	return upd, true
}

// Diff keeps the entries of upd whose value differs from what stored holds.
func Diff(stored StartupMemory, upd Update) Update {
	changed := Update{}
	for f, v := range upd {
		if v != stored.Value(f) {
			changed[f] = v
		}
	}
	return changed
}
