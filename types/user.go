package types

// User represents a registered account.
type User struct {
	// ID is the unique identifier of the user.
	ID int `json:"id" db:"id"`

	// Email is the user's unique email address.
	Email string `json:"email" db:"email"`

	// Username is the unique login name chosen by the user.
	Username string `json:"username" db:"username"`

	// PasswordHash stores the bcrypt hash of the user's password.
	// This field is never exposed in API responses.
	PasswordHash string `json:"-" db:"password"`
}

// Public returns the projection of the user that is safe to serialize.
func (u User) Public() User {
	u.PasswordHash = ""
	return u
}
