package domain

// Employee is the store's staff record. Email is the login identifier.
type Employee struct {
	ID           int64
	FirstName    string
	LastName     string
	Title        string
	Email        string
	PasswordHash *string
}

// HasPassword reports whether a password hash has been provisioned.
func (e *Employee) HasPassword() bool {
	return e != nil && e.PasswordHash != nil && *e.PasswordHash != ""
}
