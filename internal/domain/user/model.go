package user

import "time"

// Principal is the authenticated identity resolved from a bearer token.
type Principal struct {
	UserID   string
	Username string
	Email    string
}

// User is the stored profile behind a principal. Account credentials live
// in the external account service; this row only exists so standings and
// week boards can show a username.
type User struct {
	ID        string
	Username  string
	Email     string
	CreatedAt time.Time
}
