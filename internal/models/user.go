package models

import (
	"github.com/golang-jwt/jwt"
)

type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username,omitempty"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type Registration struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Claims is the payload of a session token issued after a backend login.
type Claims struct {
	UserID int64  `json:"user_id"`
	Name   string `json:"name,omitempty"`
	Email  string `json:"email,omitempty"`
	jwt.StandardClaims
}

// User rebuilds the profile carried by the token.
func (c *Claims) User() User {
	return User{ID: c.UserID, Name: c.Name, Email: c.Email}
}

type Session struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
	User      User   `json:"user"`
}

// BackendCookie is a cookie the backend set for a signed-in user.
type BackendCookie struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}
