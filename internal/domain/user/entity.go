package user

import "time"

// Gender labels accepted by the remote API.
const (
	GenderMale   = "male"
	GenderFemale = "female"
)

// Status labels accepted by the remote API.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// User represents a user entity in the system.
// Users are immutable once built from a transport Record.
type User struct {
	ID        int64  // ID is the identifier assigned by the remote API
	Name      string // Name is the display name of the user
	Email     string // Email is the email address of the user
	Gender    string // Gender is one of the Gender* labels
	Status    string // Status is one of the Status* labels
	CreatedAt *int64 // CreatedAt is the local creation time in epoch milliseconds, if known
}

// CreatedTime returns CreatedAt as a time.Time. ok is false when no timestamp is known.
func (u User) CreatedTime() (t time.Time, ok bool) {
	if u.CreatedAt == nil {
		return time.Time{}, false
	}
	return time.UnixMilli(*u.CreatedAt), true
}

// WithCreatedAt returns a copy of u stamped with the given epoch-millisecond timestamp.
func (u User) WithCreatedAt(ms int64) User {
	u.CreatedAt = &ms
	return u
}
