package users

import "time"

// User is a registered account. PasswordHash is empty for users created before passwords were required.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
