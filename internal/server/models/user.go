// Package models defines server-side data models persisted in the database
// and the public projections returned by the API.
package models

import "time"

// User is the full stored record. PasswordHash never leaves the server.
type User struct {
	UserName     string
	PasswordHash string
	FirstName    string
	LastName     string
	Phone        string
	JoinAt       time.Time
	LastLoginAt  time.Time
}

// UserSummary is the public projection used in listings and as the
// counterparty of a message.
type UserSummary struct {
	UserName  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

// UserProfile is the public projection of a single user.
type UserProfile struct {
	UserName    string    `json:"username"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Phone       string    `json:"phone"`
	JoinAt      time.Time `json:"join_at"`
	LastLoginAt time.Time `json:"last_login_at"`
}

// Profile drops the password hash.
func (u *User) Profile() *UserProfile {
	return &UserProfile{
		UserName:    u.UserName,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Phone:       u.Phone,
		JoinAt:      u.JoinAt,
		LastLoginAt: u.LastLoginAt,
	}
}
