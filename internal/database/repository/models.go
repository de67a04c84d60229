package repository

import "time"

// CachedCustomer is a local copy of one customer, refreshed from the API so
// pickers keep working when the server is slow or unreachable.
type CachedCustomer struct {
	ID          int64
	Name        string
	PhoneNumber string
	IsActive    bool
	SyncedAt    time.Time
}

// CachedProduct is a local copy of one product dropdown option.
type CachedProduct struct {
	Value    string
	Label    string
	SyncedAt time.Time
}

// FilterPreset is a saved cash-flow filter combination.
type FilterPreset struct {
	ID        string
	Name      string
	StartDate string
	EndDate   string
	ValueType string
	Category  string
	CreatedAt time.Time
}
