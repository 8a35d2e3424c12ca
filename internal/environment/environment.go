// Package environment filters process environment snapshots by variable name prefix.
package environment

import "strings"

// DefaultPrefixes are the variable name prefixes reported by the info route.
var DefaultPrefixes = []string{"AWS_", "LOCALSTACK_"}

// FilterByPrefix returns the variables in environ whose name starts with any
// of prefixes. environ uses the "KEY=VALUE" form of os.Environ; entries
// without '=' are ignored and the first occurrence of a key wins, as with
// os.Getenv.
func FilterByPrefix(environ []string, prefixes ...string) map[string]string {
	out := make(map[string]string)
	for _, kv := range environ {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			continue
		}
		if _, seen := out[key]; seen {
			continue
		}
		if hasAnyPrefix(key, prefixes) {
			out[key] = value
		}
	}
	return out
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
