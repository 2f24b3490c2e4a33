// Package featureflags evaluates operational kill switches defined in a
// simple comma-separated list, e.g. "search_fts=on,previews=off".
package featureflags

import "strings"

// Manager holds parsed flag values.
type Manager struct {
	flags map[string]bool
}

// NewManager creates a feature-flag manager from a comma-separated config string.
// Accepted values are on/true/1 and off/false/0; malformed pairs are skipped.
func NewManager(raw string) *Manager {
	out := make(map[string]bool)

	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		parts := strings.SplitN(pair, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := normalize(parts[0])
		if key == "" {
			continue
		}
		switch normalize(parts[1]) {
		case "on", "true", "1":
			out[key] = true
		case "off", "false", "0":
			out[key] = false
		}
	}

	return &Manager{flags: out}
}

// Enabled returns the flag's value, or def when the flag is not configured.
func (m *Manager) Enabled(name string, def bool) bool {
	if m == nil {
		return def
	}
	if v, ok := m.flags[normalize(name)]; ok {
		return v
	}
	return def
}

// Raw returns a copy of configured flags.
func (m *Manager) Raw() map[string]bool {
	out := make(map[string]bool, len(m.flags))
	for k, v := range m.flags {
		out[k] = v
	}
	return out
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
