// Package queue defines message payloads exchanged over the message broker.
package queue

// VehicleNotifyEvent is published whenever a vehicle request changes
// state in a way its requester (and trip leader, if any) should hear
// about.  It carries enough information for downstream consumers to
// log or deliver the notification without querying the primary
// database.
type VehicleNotifyEvent struct {
	Template   string                 `json:"template"`   // notification template name
	Recipients []uint64               `json:"recipients"` // user ids to notify
	Data       map[string]interface{} `json:"data"`       // template payload
	EmittedAt  string                 `json:"emitted_at"` // RFC3339 UTC timestamp
}
