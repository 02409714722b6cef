// Package models defines the rate limiting policies and results.
package models

import (
	"fmt"
	"time"
)

// Policy names a sliding-window limit. Identifiers are scoped per policy so a
// burst against one endpoint never consumes another endpoint's budget.
type Policy struct {
	Name   string
	Limit  int
	Window time.Duration
}

// The fixed policies enforced by the service.
var (
	// PolicyRegistration throttles public form submissions per client IP.
	PolicyRegistration = Policy{Name: "registration", Limit: 3, Window: time.Hour}
	// PolicyLogin throttles login attempts per username.
	PolicyLogin = Policy{Name: "login", Limit: 5, Window: 15 * time.Minute}
	// PolicyAPI throttles general API traffic per client IP.
	PolicyAPI = Policy{Name: "api", Limit: 30, Window: time.Minute}
)

// Key builds the storage key for an identifier under this policy.
func (p Policy) Key(identifier string) string {
	return fmt.Sprintf("ratelimit:%s:%s", p.Name, identifier)
}

// Result reports the outcome of a limit check.
type Result struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetAt    time.Time
	RetryAfter time.Duration
}
