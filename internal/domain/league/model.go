package league

import (
	"errors"
	"strings"
	"time"
)

const (
	maxNameLength     = 120
	minJoinCodeLength = 4
	maxJoinCodeLength = 32
)

var (
	ErrNameRequired    = errors.New("league name is required")
	ErrNameTooLong     = errors.New("league name is too long")
	ErrInvalidJoinCode = errors.New("join code must be 4-32 characters without spaces")
)

// League is a private group of users competing on cumulative prediction
// points. Anyone holding the join code can enter.
type League struct {
	ID        string
	Name      string
	JoinCode  string
	CreatedBy string
	CreatedAt time.Time
}

// Membership ties a user to a league and carries the running score.
// The score only ever grows; scored weeks are never reverted.
type Membership struct {
	LeagueID string
	UserID   string
	Score    float64
	JoinedAt time.Time
}

func (l League) Validate() error {
	name := strings.TrimSpace(l.Name)
	if name == "" {
		return ErrNameRequired
	}
	if len(name) > maxNameLength {
		return ErrNameTooLong
	}
	return ValidateJoinCode(l.JoinCode)
}

func ValidateJoinCode(raw string) error {
	code := strings.TrimSpace(raw)
	if len(code) < minJoinCodeLength || len(code) > maxJoinCodeLength {
		return ErrInvalidJoinCode
	}
	if strings.ContainsAny(code, " \t\n") {
		return ErrInvalidJoinCode
	}
	return nil
}
