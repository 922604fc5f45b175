package domain

// CaptureStatusCompleted is the only order capture status treated as a successful capture.
const CaptureStatusCompleted = "COMPLETED"

// CaptureResult is what the provider reported for a capture attempt.
type CaptureResult struct {
	ID     string
	Status string
}

// Completed reports whether the capture moved funds. A nil result never did.
func (r *CaptureResult) Completed() bool {
	return r != nil && r.Status == CaptureStatusCompleted
}
