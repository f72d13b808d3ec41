package users

import "time"

// User is a registered identity. PasswordHash holds the bcrypt hash of the
// password and is never serialized or returned by any interface.
type User struct {
	ID           string
	Email        string
	PasswordHash []byte
	CreatedAt    time.Time
}
