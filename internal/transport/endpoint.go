package transport

import "strings"

// LocalBaseURL is the fixed base address used when the client runs against a
// local development backend.
const LocalBaseURL = "http://localhost:8000"

// ResolveBaseURL picks the backend base address for the current deployment
// context. The client is deployed interchangeably under direct same-origin
// hosting and behind a gateway path prefix, so the address is never
// hard-coded; the fallback order is:
//
//  1. local development host: fixed local base
//  2. deployment-provided override
//  3. same-origin relative base (empty string; request paths stay relative)
//
// The function is pure so every tier is testable without a runtime
// environment.
func ResolveBaseURL(localHost bool, override string) string {
	if localHost {
		return LocalBaseURL
	}
	if override != "" {
		return strings.TrimRight(override, "/")
	}
	return ""
}
