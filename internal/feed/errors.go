package feed

import "errors"

// ErrUnknownViewer is returned when a feed is requested for a user
// that does not exist. Retryable only after the user is created.
var ErrUnknownViewer = errors.New("unknown viewer")
