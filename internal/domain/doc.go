// Package domain contains the core model for subfind: domains, subdomain sets,
// filter rules, run configuration and per-domain results.
//
// The domain is transport- and persistence-agnostic: it does not depend on YAML
// parsing, net/http, or the filesystem. Infra/adapters map into/from these types.
package domain
