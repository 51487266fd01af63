package user

// Record is the wire representation of a user exchanged with the remote API.
// ID is nil only before the server has assigned one (i.e. on create requests).
type Record struct {
	ID     *int64 `json:"id,omitempty"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Gender string `json:"gender"`
	Status string `json:"status"`
}

// NewRecord builds a record for submitting a new user. Gender and Status fall
// back to GenderMale and StatusActive when empty.
func NewRecord(name, email, gender, status string) Record {
	if gender == "" {
		gender = GenderMale
	}
	if status == "" {
		status = StatusActive
	}
	return Record{
		Name:   name,
		Email:  email,
		Gender: gender,
		Status: status,
	}
}

// HasID reports whether the server has assigned an identifier.
func (r Record) HasID() bool {
	return r.ID != nil
}

// ToDomain converts the record into a User stamped with createdAt (epoch ms).
// ok is false when the record carries no identifier.
func (r Record) ToDomain(createdAt int64) (User, bool) {
	if r.ID == nil {
		return User{}, false
	}
	return User{
		ID:        *r.ID,
		Name:      r.Name,
		Email:     r.Email,
		Gender:    r.Gender,
		Status:    r.Status,
		CreatedAt: &createdAt,
	}, true
}

// FromDomain converts a User back into its wire form. CreatedAt is not part
// of the wire format and is dropped.
func FromDomain(u User) Record {
	id := u.ID
	return Record{
		ID:     &id,
		Name:   u.Name,
		Email:  u.Email,
		Gender: u.Gender,
		Status: u.Status,
	}
}
