package messaging

import "context"

// Channel delivers a pre-formatted text payload to one destination.
// Delivery is fire-and-forget: no confirmation is tracked.
type Channel interface {
	Send(ctx context.Context, to, text string) (messageID string, err error)
}
