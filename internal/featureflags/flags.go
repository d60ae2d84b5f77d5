// Package featureflags evaluates rollout flags from a static config string.
// Flags are parsed once at startup; there is no remote flag service.
package featureflags

import (
	"fmt"
	"hash/fnv"
	"strconv"
	"strings"
)

// Known flag names.
const (
	// FlagRelaxedRateLimits skips per-user write rate limits for the
	// selected rollout cohort.
	FlagRelaxedRateLimits = "relaxed_rate_limits"
	// FlagOpsDashboard exposes the in-process monitoring dashboard.
	FlagOpsDashboard = "ops_dashboard"
)

type flagValue struct {
	on      bool
	percent int // 0-100, used when rollout is true
	rollout bool
}

// Flags holds parsed feature flags. The zero value evaluates every flag
// as disabled.
type Flags struct {
	values map[string]flagValue
}

// Parse reads a comma-separated flag list, e.g.
// "ops_dashboard=on,relaxed_rate_limits=25%". Malformed pairs are skipped.
func Parse(raw string) *Flags {
	values := make(map[string]flagValue)

	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		name, value, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		name = normalize(name)
		value = normalize(value)
		if name == "" || value == "" {
			continue
		}

		switch value {
		case "on", "true", "1":
			values[name] = flagValue{on: true}
		case "off", "false", "0":
			values[name] = flagValue{}
		default:
			pctRaw, found := strings.CutSuffix(value, "%")
			if !found {
				continue
			}
			pct, err := strconv.Atoi(pctRaw)
			if err != nil || pct < 0 || pct > 100 {
				continue
			}
			values[name] = flagValue{percent: pct, rollout: true}
		}
	}

	return &Flags{values: values}
}

// IsEnabled evaluates a flag for one user. Percentage rollouts are
// deterministic per (flag, user) pair; userID 0 never joins a rollout.
func (f *Flags) IsEnabled(name string, userID uint) bool {
	if f == nil {
		return false
	}
	v, ok := f.values[normalize(name)]
	if !ok {
		return false
	}
	if !v.rollout {
		return v.on
	}
	switch {
	case v.percent <= 0:
		return false
	case v.percent >= 100:
		return true
	case userID == 0:
		return false
	}
	return rolloutBucket(name, userID) < v.percent
}

// States returns the evaluated on/off state of every configured flag for
// one user.
func (f *Flags) States(userID uint) map[string]bool {
	if f == nil {
		return nil
	}
	out := make(map[string]bool, len(f.values))
	for name := range f.values {
		out[name] = f.IsEnabled(name, userID)
	}
	return out
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func rolloutBucket(name string, userID uint) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(fmt.Sprintf("%s:%d", normalize(name), userID)))
	return int(h.Sum32() % 100)
}
