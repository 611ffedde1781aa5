package domain

import "time"

// NotificationEvent payload pushed to a student's live connection
// on an appointment state transition
type NotificationEvent struct {
	Message string
	Status  string
}

// AuditRecord append-only audit log entry. The audit log is the durable
// record of what happened; live delivery is best-effort on top of it.
type AuditRecord struct {
	ID        string
	Action    string
	Actor     string
	Details   string
	Timestamp time.Time
}
