package utils

import (
	"net/url"
	"strings"
)

// IsValidURL reports whether s is an absolute http(s) URL with a host
func IsValidURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != ""
}

// JoinURL appends path segments to a base URL, collapsing duplicate slashes at the seams
func JoinURL(base string, parts ...string) string {
	out := strings.TrimRight(base, "/")
	for _, p := range parts {
		p = strings.Trim(p, "/")
		if p == "" {
			continue
		}
		out += "/" + p
	}
	return out
}
