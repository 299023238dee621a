package update

import (
	"context"
	"time"
)

// Result is what a version check learned about a module. Every field is
// optional; an empty string means the value could not be determined.
type Result struct {
	Version    string // Latest published version, e.g. "3.2.01"
	URL        string // Detail page of the latest version
	MinAndroid string // Normalized minimum Android requirement
}

// Empty reports whether nothing was determined.
func (r Result) Empty() bool {
	return r.Version == "" && r.URL == "" && r.MinAndroid == ""
}

// Checker looks up the latest published version of a module from its info
// page URL.
type Checker interface {
	Check(ctx context.Context, infoURL string) (Result, error)
}

// Timeouts bound each kind of request made during a check.
type Timeouts struct {
	Feed     time.Duration
	Detail   time.Duration
	Fallback time.Duration
}

// DefaultTimeouts returns the timeouts used when none are configured.
func DefaultTimeouts() Timeouts {
	return Timeouts{
		Feed:     15 * time.Second,
		Detail:   15 * time.Second,
		Fallback: 20 * time.Second,
	}
}
