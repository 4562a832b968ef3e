package ratelimit

import "strings"

// MatchEndpoint returns the first config whose method and pattern match the
// request, or nil.
func MatchEndpoint(path, method string, configs []EndpointConfig) *EndpointConfig {
	segments := splitPath(path)
	for i := range configs {
		c := &configs[i]
		if c.Method == method && matchSegments(splitPath(c.Pattern), segments) {
			return c
		}
	}
	return nil
}

// key is the bucket key for a matched request. Wildcard segments keep their
// concrete value so each job gets its own bucket.
func (c *EndpointConfig) key(path string) string {
	if c.Pattern == "" {
		return "*"
	}
	return strings.Join(splitPath(path), "/")
}

func splitPath(p string) []string {
	return strings.Split(strings.Trim(p, "/"), "/")
}

func matchSegments(pattern, path []string) bool {
	if len(pattern) != len(path) {
		return false
	}
	for i, seg := range pattern {
		if seg != "*" && seg != path[i] {
			return false
		}
	}
	return true
}
