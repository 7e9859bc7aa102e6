package domain

import (
	"fmt"
	"net"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/idna"
)

// NormalizeDomain turns an input line into the host that gets queried.
// It accepts bare hosts as well as pasted URLs ("https://Example.com/path").
func NormalizeDomain(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", fmt.Errorf("empty domain")
	}

	if i := strings.Index(s, "://"); i != -1 {
		s = s[i+3:]
	}
	if slash := strings.IndexAny(s, "/?#"); slash != -1 {
		s = s[:slash]
	}

	// Strip userinfo if present: user:pass@host
	if at := strings.LastIndexByte(s, '@'); at != -1 {
		s = s[at+1:]
	}

	host := s
	if strings.Contains(s, ":") {
		if h, _, err := net.SplitHostPort(s); err == nil {
			host = h
		}
	}

	host = strings.TrimSuffix(strings.TrimSpace(host), ".")
	if len(host) > 2 && host[0] == '[' && host[len(host)-1] == ']' {
		host = host[1 : len(host)-1]
	}
	if host == "" {
		return "", fmt.Errorf("empty host in %q", raw)
	}

	if ip := net.ParseIP(host); ip != nil {
		return ip.String(), nil
	}

	if isASCII(host) {
		if strings.ContainsAny(host, " \t") {
			return "", fmt.Errorf("invalid domain %q", raw)
		}
		return strings.ToLower(host), nil
	}

	asciiHost, err := idna.Lookup.ToASCII(host)
	if err != nil {
		return "", fmt.Errorf("idna: %w", err)
	}
	return strings.ToLower(asciiHost), nil
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
