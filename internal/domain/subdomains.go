package domain

import (
	"sort"
	"strings"
)

// SubdomainSet holds the lookup results of one domain.
type SubdomainSet struct {
	Domain string
	Labels []string
}

// Lines returns the labels ready to be persisted: trimmed, deduplicated and
// sorted. Empty entries and entries spanning several lines are dropped so each
// label maps to exactly one output line.
func (s SubdomainSet) Lines() []string {
	return SortedUnique(s.Labels)
}

// SortedUnique returns sorted(set(in)) after trimming and dropping empty or
// multi-line entries.
func SortedUnique(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, raw := range in {
		v := strings.TrimSpace(raw)
		if v == "" || strings.ContainsAny(v, "\r\n") {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
