package models

import "time"

// User is an account record. Status false means the account was soft-deleted;
// such rows stay in the table and keep their email reserved forever.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash []byte
	Cellphone    string
	Status       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Session records one successful login. FindUsers date filters run against
// CreatedAt; nothing mutates a session after creation.
type Session struct {
	ID        string
	UserID    int64
	IPAddress string
	UserAgent string
	CreatedAt time.Time
}

// UserFilter is the search predicate for FindUsers. Nil or empty fields impose
// no constraint; present fields combine with AND. The login bounds are
// inclusive and match users having at least one session in range.
type UserFilter struct {
	Active      *bool
	Name        string
	LoginAfter  *time.Time
	LoginBefore *time.Time
}

// UserPatch is a partial update. Nil fields keep the stored value.
// Email and status are deliberately not patchable.
type UserPatch struct {
	Name         *string
	PasswordHash []byte
	Cellphone    *string
}
