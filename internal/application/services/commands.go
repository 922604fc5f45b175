package services

// CaptureCommand carries an already validated capture request.
type CaptureCommand struct {
	BookingUID string
	Token      string
}
