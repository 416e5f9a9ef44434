package shared

// Asynq task types. Namespaced by domain.
const (
	TypeSendOrderHandoff         = "order:send_handoff"
	TypeDeactivateExpiredCoupons = "coupon:deactivate_expired"
)

// Queue names, highest priority first.
const (
	QueueHigh    = "high"
	QueueDefault = "default"
	QueueLow     = "low"
)
