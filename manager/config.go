package manager

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/roadpack/roadpack/errs"
)

// profileEntry is one parsed element of a profile activation string.
type profileEntry struct {
	name string
	cfg  map[string]string
}

func (e profileEntry) version() (int, bool) {
	v, ok := e.cfg["version"]
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}

	return n, true
}

// parseProfileList parses the fixed activation grammar: lower-case names,
// comma-separated entries, pipe-delimited key=value options, for example
// "car|version=2,bike|turn_costs=true". Deviations are rejected, never
// normalized: mixed case and the legacy colon-qualified form both fail.
func parseProfileList(list string) ([]profileEntry, error) {
	if strings.Contains(list, ":") {
		return nil, fmt.Errorf("%w: legacy colon-qualified entry in %q", errs.ErrMalformedConfig, list)
	}
	if list != strings.ToLower(list) {
		return nil, fmt.Errorf("%w: upper-case characters in %q", errs.ErrMalformedConfig, list)
	}

	var entries []profileEntry
	for _, raw := range strings.Split(list, ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}

		fields := strings.Split(raw, "|")
		entry := profileEntry{
			name: fields[0],
			cfg:  make(map[string]string, len(fields)-1),
		}
		if entry.name == "" {
			return nil, fmt.Errorf("%w: empty profile name in %q", errs.ErrMalformedConfig, raw)
		}
		for _, opt := range fields[1:] {
			key, value, ok := strings.Cut(opt, "=")
			if !ok || key == "" {
				return nil, fmt.Errorf("%w: option %q in %q is not key=value", errs.ErrMalformedConfig, opt, raw)
			}
			entry.cfg[key] = value
		}
		if v, ok := entry.cfg["version"]; ok {
			if _, err := strconv.Atoi(v); err != nil {
				return nil, fmt.Errorf("%w: version %q in %q is not a number", errs.ErrMalformedConfig, v, raw)
			}
		}
		entries = append(entries, entry)
	}

	return entries, nil
}
