// Package featureflags evaluates per-account feature toggles from configuration.
package featureflags

import (
	"hash/fnv"
	"strconv"
	"strings"
)

// LiveFeed gates the /ws/feed endpoint.
const LiveFeed = "live_feed"

// Manager holds toggles parsed from FEATURE_FLAGS, for example
// "live_feed=on,editor_v2=25%". Keys and values are case-insensitive.
type Manager struct {
	flags map[string]string
}

// NewManager parses raw. Entries without '=' or with an empty side are skipped.
func NewManager(raw string) *Manager {
	flags := make(map[string]string)
	for _, entry := range strings.Split(raw, ",") {
		name, value, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}
		name, value = normalize(name), normalize(value)
		if name != "" && value != "" {
			flags[name] = value
		}
	}
	return &Manager{flags: flags}
}

// Enabled is EnabledOr with an off fallback.
func (m *Manager) Enabled(name, accountID string) bool {
	return m.EnabledOr(name, accountID, false)
}

// EnabledOr evaluates name for accountID. Values on/true/1 and off/false/0
// are absolute; "N%" turns the flag on for a stable N percent of accounts.
// fallback applies when the flag is unset or its value does not parse.
func (m *Manager) EnabledOr(name, accountID string, fallback bool) bool {
	if m == nil {
		return fallback
	}
	value, ok := m.flags[normalize(name)]
	if !ok {
		return fallback
	}

	if on, isBool := parseSwitch(value); isBool {
		return on
	}

	pct, isPct := parsePercent(value)
	switch {
	case !isPct:
		return fallback
	case pct <= 0:
		return false
	case pct >= 100:
		return true
	case accountID == "":
		return false
	default:
		return bucket(name, accountID) < pct
	}
}

// Raw returns a copy of the parsed flags.
func (m *Manager) Raw() map[string]string {
	out := make(map[string]string, len(m.flags))
	for name, value := range m.flags {
		out[name] = value
	}
	return out
}

func parseSwitch(value string) (on, ok bool) {
	switch value {
	case "on", "true", "1":
		return true, true
	case "off", "false", "0":
		return false, true
	}
	return false, false
}

func parsePercent(value string) (int, bool) {
	digits, ok := strings.CutSuffix(value, "%")
	if !ok {
		return 0, false
	}
	pct, err := strconv.Atoi(digits)
	return pct, err == nil
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// bucket maps an account to 0..99, stable per flag name.
func bucket(name, accountID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(normalize(name) + ":" + accountID))
	return int(h.Sum32() % 100)
}
