package dto

import "github.com/oasis-hotel/portal/internal/layout"

// PageView is the view model of a routed page.
type PageView struct {
	Layout layout.Shell `json:"layout"`
	Page   PageBody     `json:"page"`
}

// PageBody carries page data, or an inline error when the backend failed.
type PageBody struct {
	Path  string     `json:"path"`
	Title string     `json:"title"`
	Data  any        `json:"data,omitempty"`
	Error *PageError `json:"error,omitempty"`
}

// PageError is shown inline by the page; it never ends the session.
type PageError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
