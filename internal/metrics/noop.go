package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncRegistration is a no-op.
func (n *NoopRecorder) IncRegistration() {}

// IncLoginSuccess is a no-op.
func (n *NoopRecorder) IncLoginSuccess() {}

// IncLoginFailure is a no-op.
func (n *NoopRecorder) IncLoginFailure() {}

// IncLogout is a no-op.
func (n *NoopRecorder) IncLogout() {}

// ObserveLoginDuration is a no-op.
func (n *NoopRecorder) ObserveLoginDuration(duration time.Duration) {}

// IncSessionCreated is a no-op.
func (n *NoopRecorder) IncSessionCreated() {}

// IncSessionExpired is a no-op.
func (n *NoopRecorder) IncSessionExpired() {}

// IncCSRFRejected is a no-op.
func (n *NoopRecorder) IncCSRFRejected() {}

// IncRateLimited is a no-op.
func (n *NoopRecorder) IncRateLimited() {}
