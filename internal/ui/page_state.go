package ui

import (
	"time"
)

// page_state.go provides shared state for TUI pages.
// Embed PageState in a page model to get consistent status and layout handling.

// StatusKind colors the status line.
type StatusKind int

const (
	StatusInfo StatusKind = iota
	StatusSuccess
	StatusError
)

// PageState contains common state that all pages need.
type PageState struct {
	Layout       Layout
	StatusMsg    string
	StatusKind   StatusKind
	StatusExpiry time.Time
	Quitting     bool
}

// NewPageState creates a new PageState with the given layout.
func NewPageState(layout Layout) PageState {
	return PageState{Layout: layout}
}

// SetStatus sets a status message that will expire after the given duration.
// If duration is 0, the status message will not expire.
func (p *PageState) SetStatus(msg string, kind StatusKind, duration time.Duration) {
	p.StatusMsg = msg
	p.StatusKind = kind
	if duration > 0 {
		p.StatusExpiry = time.Now().Add(duration)
	} else {
		p.StatusExpiry = time.Time{} // Zero time = no expiry
	}
}

// ClearStatus removes the status message immediately.
func (p *PageState) ClearStatus() {
	p.StatusMsg = ""
	p.StatusKind = StatusInfo
	p.StatusExpiry = time.Time{}
}

// ClearExpiredStatus clears the status message if it has expired.
func (p *PageState) ClearExpiredStatus(now time.Time) {
	if !p.StatusExpiry.IsZero() && now.After(p.StatusExpiry) {
		p.ClearStatus()
	}
}

// HasStatus returns true if there is a non-empty status message.
func (p *PageState) HasStatus() bool {
	return p.StatusMsg != ""
}

// RenderStatus draws the status line in the color of its kind.
func (p *PageState) RenderStatus() string {
	switch p.StatusKind {
	case StatusError:
		return RenderError(p.StatusMsg)
	case StatusSuccess:
		return SuccessStyle.Render(p.StatusMsg)
	}
	return RenderAccent(p.StatusMsg)
}

// UpdateLayout updates the layout and returns true if it changed.
// Use this in your WindowSizeMsg handler.
func (p *PageState) UpdateLayout(width, height int) bool {
	newLayout := NewLayout(width, height)
	if newLayout != p.Layout {
		p.Layout = newLayout
		return true
	}
	return false
}
