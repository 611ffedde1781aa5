package domain

import "time"

// TransactionType catalog entry for a schedulable service
// (e.g. Subsidy, Clearance, Claiming of ID). Read-mostly reference data.
type TransactionType struct {
	ID        int64
	Title     string
	Detail    string
	CreatedAt time.Time
}
