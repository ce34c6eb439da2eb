// Package crpt is a client for the CRPT product-marking API with built-in
// call pacing.
//
// Every CreateDocument call first acquires an admission from a Gate, so a
// process-wide request budget ("no more than N calls in any window") holds
// no matter how many goroutines share the client:
//
//	gate, err := limiter.NewWindowLimiter(time.Second, 10)
//	if err != nil {
//		// invalid configuration
//	}
//	client, err := crpt.NewClient(gate)
//	if err != nil {
//		// invalid configuration
//	}
//	res := client.CreateDocument(ctx, doc, signature)
//	if !res.Success {
//		// res.Message, res.StatusCode, res.Err
//	}
//
// # Outcome Policy
//
// CreateDocument always returns a Result and never panics or retries. One
// admission buys exactly one HTTP attempt; a slot consumed by a failed call
// is not refunded, because the window accounts for time, not for success.
// Failures keep their origin visible:
//
//   - cancellation while gated: Message "request interrupted", Err wraps the
//     context error, no HTTP request is sent.
//   - encoding failure: Message "JSON serialization error".
//   - transport failure: Message "IO error".
//   - non-2xx answer: Message embeds the status code; Body carries the raw
//     response; Err stays nil.
//
// # Configuration
//
// The zero configuration targets the production endpoint with a 30-second
// HTTP timeout. WithBaseURL, WithHTTPClient, and WithLogger adjust it.
package crpt
