// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Recorder captures metric events for the application.
type Recorder interface {
	// Registration and login metrics
	IncRegistration()
	IncLoginSuccess()
	IncLoginFailure()
	IncLogout()
	ObserveLoginDuration(duration time.Duration)

	// Session metrics
	IncSessionCreated()
	IncSessionExpired()

	// Request guard metrics
	IncCSRFRejected()
	IncRateLimited()
}
