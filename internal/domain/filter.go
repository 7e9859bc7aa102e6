package domain

import "strings"

// FilterRule is an immutable set of prefixes. A subdomain starting with any of
// them is excluded. The zero value excludes nothing.
type FilterRule struct {
	prefixes []string
}

// NewFilterRule copies the given prefixes, dropping blank ones.
func NewFilterRule(prefixes ...string) FilterRule {
	out := make([]string, 0, len(prefixes))
	for _, p := range prefixes {
		if strings.TrimSpace(p) == "" {
			continue
		}
		out = append(out, p)
	}
	return FilterRule{prefixes: out}
}

// Prefixes returns a copy of the rule's prefixes.
func (f FilterRule) Prefixes() []string {
	return append([]string(nil), f.prefixes...)
}

// Excludes reports whether s starts with one of the rule's prefixes.
func (f FilterRule) Excludes(s string) bool {
	for _, p := range f.prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

// Apply returns the subdomains not excluded by the rule, in input order.
// The input slice is never modified.
func (f FilterRule) Apply(subdomains []string) []string {
	out := make([]string, 0, len(subdomains))
	for _, s := range subdomains {
		if f.Excludes(s) {
			continue
		}
		out = append(out, s)
	}
	return out
}
