// Package delivery defines the contract every transport entrypoint satisfies,
// so the application can start any number of them uniformly.
package delivery

import "context"

// Delivery is a long-running transport server (HTTP today, possibly more).
type Delivery interface {
	// Serve blocks until the server stops or fails.
	Serve(ctx context.Context) error
}
