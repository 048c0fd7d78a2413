package models

import "time"

type LogAction string

const (
	LogActionCreated  LogAction = "created"
	LogActionDeleted  LogAction = "deleted"
	LogActionModified LogAction = "modified"
)

// ZoneLog is an audit entry. ZoneName is a snapshot taken when the entry
// was written, not a reference to the live zone.
type ZoneLog struct {
	ID        string    `json:"id"`
	Action    LogAction `json:"action"`
	ZoneName  string    `json:"zoneName"`
	Timestamp time.Time `json:"timestamp"`
	Officer   string    `json:"officer"`
	Details   string    `json:"details"`
}
