package model

import "time"

// Session is the result of a successful login. Token is the signed session
// token stored in the cookie; TokenID is its jti.
type Session struct {
	Admin     *Admin    `json:"admin"`
	Token     string    `json:"-"`
	TokenID   string    `json:"-"`
	ExpiresAt time.Time `json:"expiresAt"`
}
