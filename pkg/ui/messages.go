package ui

import (
	ratesDomain "github.com/spreadpad/spreadpad/business/rates/domain"
	sessionDomain "github.com/spreadpad/spreadpad/business/session/domain"
	settingsDomain "github.com/spreadpad/spreadpad/business/settings/domain"
)

// Message types for TUI updates

// TickMsg is sent periodically for UI refresh and animations.
type TickMsg struct{}

// RateMsg carries a poll or stream outcome. On error Quote holds the
// previous value so the display can mark it stale instead of blanking.
type RateMsg struct {
	Quote ratesDomain.Quote
	Err   error
}

// LoginResultMsg is sent when a login attempt completes.
type LoginResultMsg struct {
	Session *sessionDomain.Session
	Err     error
}

// MergedMsg delivers the one-time startup snapshot reconciliation.
type MergedMsg struct {
	Snapshot settingsDomain.Snapshot
}

// SessionEndedMsg tells the UI the session became invalid and the app is
// now logged out.
type SessionEndedMsg struct {
	Reason string
}

// UpdateAvailableMsg announces a newer published release.
type UpdateAvailableMsg struct {
	Version string
	Notes   string
}

// ErrorMsg surfaces a background failure in the status bar.
type ErrorMsg struct {
	Err error
}
