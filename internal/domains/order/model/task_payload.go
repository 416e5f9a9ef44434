package model

import "github.com/google/uuid"

// SendHandoffPayload carries the pre-built handoff message for the
// background sender. The message text is rendered at checkout time so
// the worker does not need catalog access.
type SendHandoffPayload struct {
	OrderID     uuid.UUID `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	UserID      uuid.UUID `json:"user_id"`
	Message     string    `json:"message"`
}
