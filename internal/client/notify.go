package client

import (
	"net/http"
)

// Level is the severity of a notification
type Level string

const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notification is a short message for the operator
type Notification struct {
	Level   Level
	Message string
}

// Notifier shows notifications
type Notifier interface {
	Notify(n Notification)
}

// NotifierFunc adapts a function to Notifier
type NotifierFunc func(Notification)

// Notify calls f
func (f NotifierFunc) Notify(n Notification) { f(n) }

// Navigator moves the front-end between screens
type Navigator interface {
	// Location returns the current route, e.g. "/customers"
	Location() string
	Navigate(path string)
}

// LoginPath is where an expired session sends the operator
const LoginPath = "/login"

type nopNotifier struct{}

func (nopNotifier) Notify(Notification) {}

// staticNavigator records the route without a screen behind it
type staticNavigator struct {
	location string
}

func (n *staticNavigator) Location() string     { return n.location }
func (n *staticNavigator) Navigate(path string) { n.location = path }

// Messages shown for failed requests
const (
	msgSessionExpired = "Your session has expired. Please log in again."
	msgForbidden      = "You do not have permission to perform this action."
	msgNotFound       = "The requested record was not found."
	msgConflict       = "The record conflicts with existing data."
	msgServerError    = "Server error. Please try again later."
	msgNetwork        = "Unable to reach the server. Check your connection."
	msgValidation     = "Please correct the highlighted fields."
)

// notificationFor maps a failed response to what the operator sees
func notificationFor(e *APIError) Notification {
	switch {
	case e.Status == http.StatusBadRequest:
		msg := e.Message
		if msg == "" {
			msg = msgValidation
		}
		return Notification{Level: LevelWarning, Message: msg}
	case e.Status == http.StatusUnauthorized:
		return Notification{Level: LevelWarning, Message: msgSessionExpired}
	case e.Status == http.StatusForbidden:
		return Notification{Level: LevelError, Message: msgForbidden}
	case e.Status == http.StatusNotFound:
		return Notification{Level: LevelWarning, Message: msgNotFound}
	case e.Status == http.StatusConflict:
		msg := e.Message
		if msg == "" {
			msg = msgConflict
		}
		return Notification{Level: LevelWarning, Message: msg}
	case e.Status >= http.StatusInternalServerError:
		return Notification{Level: LevelError, Message: msgServerError}
	default:
		return Notification{Level: LevelError, Message: e.Message}
	}
}
