package crpt

import "fmt"

// Result is the outcome of one gated API call. Every call returns a Result;
// failures of any kind are described here rather than panicking or retrying.
type Result struct {
	// Success is true iff the API answered with a 2xx status.
	Success bool

	// StatusCode is the HTTP status of the exchange, 0 when the request
	// never completed one (cancellation, serialization, transport).
	StatusCode int

	// Message is a short human-readable description of the outcome. On a
	// remote rejection it embeds the status code.
	Message string

	// Body is the raw response body when one was read.
	Body []byte

	// Err holds the local cause when the request never completed an HTTP
	// exchange. It is nil on success and on remote rejections, which are
	// described by StatusCode and Body instead.
	Err error
}

func successResult(status int, body []byte) Result {
	return Result{
		Success:    true,
		StatusCode: status,
		Message:    "document created successfully",
		Body:       body,
	}
}

func rejectionResult(status int, body []byte) Result {
	return Result{
		StatusCode: status,
		Message:    fmt.Sprintf("HTTP error %d", status),
		Body:       body,
	}
}

func failureResult(message string, err error) Result {
	return Result{
		Message: message,
		Err:     err,
	}
}
