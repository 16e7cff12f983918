// Package models defines the identity records persisted by the store and the
// projections and requests exchanged with callers.
package models

import "time"

// User is a stored identity. PasswordHash is an encoded hash produced by
// cryptox; it is never plaintext.
type User struct {
	ID                int64
	Username          string
	EmailAddress      string
	PasswordHash      string
	RoleID            int64
	RoleName          string // read-only, joined from roles
	ProfilePictureURL string
	CreatedAt         time.Time
}

// Role is immutable reference data.
type Role struct {
	ID   int64
	Name string
}

// UserView is what the service hands back to callers.
type UserView struct {
	ID                int64  `json:"id"`
	Username          string `json:"username"`
	EmailAddress      string `json:"emailAddress"`
	ProfilePictureURL string `json:"profilePictureUrl"`
	RoleID            int64  `json:"roleId"`
	RoleName          string `json:"roleName"`
}

// View projects u for callers, dropping the password hash.
func (u *User) View() UserView {
	return UserView{
		ID:                u.ID,
		Username:          u.Username,
		EmailAddress:      u.EmailAddress,
		ProfilePictureURL: u.ProfilePictureURL,
		RoleID:            u.RoleID,
		RoleName:          u.RoleName,
	}
}

// Clone returns a copy that can be mutated without touching u.
func (u *User) Clone() *User {
	c := *u
	return &c
}
