package matchup

import "strings"

type Status string

const (
	StatusScheduled  Status = "SCHEDULED"
	StatusInProgress Status = "IN_PROGRESS"
	StatusFinal      Status = "FINAL"
)

// Matchup is a single game of an NFL week as reported by the scoreboard
// provider. Teams are identified by their abbreviation (e.g. "KC", "BUF").
type Matchup struct {
	Week      int
	HomeTeam  string
	AwayTeam  string
	HomeScore int
	AwayScore int
	Status    Status
	Completed bool
}

// Key identifies a matchup by its unordered team pair within a week.
// List position on the provider payload is not stable between fetches.
type Key struct {
	Week  int
	TeamA string
	TeamB string
}

func NewKey(week int, team1, team2 string) Key {
	a := normalizeTeam(team1)
	b := normalizeTeam(team2)
	if b < a {
		a, b = b, a
	}
	return Key{Week: week, TeamA: a, TeamB: b}
}

func (m Matchup) Key() Key {
	return NewKey(m.Week, m.HomeTeam, m.AwayTeam)
}

func (m Matchup) Started() bool {
	return m.Status != StatusScheduled
}

// Result is the settled outcome of a matchup used by the scoring rubric.
type Result struct {
	Week      int
	HomeTeam  string
	HomeScore int
	AwayTeam  string
	AwayScore int
}

func (r Result) Key() Key {
	return NewKey(r.Week, r.HomeTeam, r.AwayTeam)
}

// Scoreboard is the provider snapshot of one week.
type Scoreboard struct {
	Week     int
	Matchups []Matchup
}

// Started reports whether any game of the week has moved past the
// scheduled state. Predictions lock at this point.
func (s Scoreboard) Started() bool {
	for _, m := range s.Matchups {
		if m.Started() {
			return true
		}
	}
	return false
}

// Finished reports whether every game of the week has completed.
// An empty scoreboard is never finished.
func (s Scoreboard) Finished() bool {
	if len(s.Matchups) == 0 {
		return false
	}
	for _, m := range s.Matchups {
		if !m.Completed {
			return false
		}
	}
	return true
}

func (s Scoreboard) Find(team1, team2 string) (Matchup, bool) {
	want := NewKey(s.Week, team1, team2)
	for _, m := range s.Matchups {
		if m.Key() == want {
			return m, true
		}
	}
	return Matchup{}, false
}

func (s Scoreboard) Results() []Result {
	out := make([]Result, 0, len(s.Matchups))
	for _, m := range s.Matchups {
		if !m.Completed {
			continue
		}
		out = append(out, Result{
			Week:      m.Week,
			HomeTeam:  m.HomeTeam,
			HomeScore: m.HomeScore,
			AwayTeam:  m.AwayTeam,
			AwayScore: m.AwayScore,
		})
	}
	return out
}

func normalizeTeam(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}
