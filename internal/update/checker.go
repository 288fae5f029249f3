// Package update checks a version manifest for a newer release. It only
// notifies; downloading and restarting are out of scope.
package update

import (
	"context"
	"strconv"
	"strings"

	"github.com/spreadpad/spreadpad/internal/apperror"
	"github.com/spreadpad/spreadpad/internal/httpclient"
)

// Manifest is the published release descriptor.
type Manifest struct {
	Version string `json:"version"`
	URL     string `json:"url,omitempty"`
	Notes   string `json:"notes,omitempty"`
}

// Result of a check.
type Result struct {
	Available bool
	Latest    Manifest
}

// Checker compares the running version against the manifest.
type Checker struct {
	http    httpclient.Client
	url     string
	current string
}

// NewChecker creates a checker. current is the running version string.
func NewChecker(http httpclient.Client, manifestURL, current string) *Checker {
	return &Checker{http: http, url: manifestURL, current: current}
}

// Check fetches the manifest and reports whether a newer version exists.
func (c *Checker) Check(ctx context.Context) (Result, error) {
	var m Manifest
	resp, err := c.http.NewRequest().SetResult(&m).Get(ctx, c.url)
	if err != nil {
		return Result{}, apperror.External(apperror.CodeUpdateCheckFailed, "fetch manifest", err)
	}
	if resp.IsError() {
		return Result{}, apperror.External(apperror.CodeUpdateCheckFailed, resp.Status, nil)
	}
	return Result{
		Available: Newer(m.Version, c.current),
		Latest:    m,
	}, nil
}

// Newer reports whether candidate is a strictly newer version than
// current. Versions are dotted numeric strings with an optional "v"
// prefix; unparseable segments compare as zero.
func Newer(candidate, current string) bool {
	cand := segments(candidate)
	curr := segments(current)
	for i := 0; i < len(cand) || i < len(curr); i++ {
		a, b := 0, 0
		if i < len(cand) {
			a = cand[i]
		}
		if i < len(curr) {
			b = curr[i]
		}
		if a != b {
			return a > b
		}
	}
	return false
}

func segments(v string) []int {
	v = strings.TrimPrefix(strings.TrimSpace(v), "v")
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ".")
	out := make([]int, len(parts))
	for i, p := range parts {
		// Drop pre-release/build suffixes like "3-rc1".
		if idx := strings.IndexAny(p, "-+"); idx >= 0 {
			p = p[:idx]
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			n = 0
		}
		out[i] = n
	}
	return out
}
