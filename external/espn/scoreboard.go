package espn

import "fmt"

// Wire types for the scoreboard header payload. Only the fields the
// prediction flow needs are decoded; the feed carries far more.

type scoreboardEnvelope struct {
	Sports []sportItem `json:"sports"`
}

type sportItem struct {
	Leagues []leagueItem `json:"leagues"`
}

type leagueItem struct {
	Events []eventItem `json:"events"`
}

type eventItem struct {
	ID          string           `json:"id"`
	Week        int              `json:"week"`
	Status      string           `json:"status"`
	FullStatus  fullStatusItem   `json:"fullStatus"`
	Competitors []competitorItem `json:"competitors"`
}

type fullStatusItem struct {
	Type fullStatusType `json:"type"`
}

type fullStatusType struct {
	Completed bool `json:"completed"`
}

type competitorItem struct {
	Abbreviation string `json:"abbreviation"`
	Score        string `json:"score"`
	HomeAway     string `json:"homeAway"`
}

func (e scoreboardEnvelope) events() ([]eventItem, error) {
	if len(e.Sports) == 0 || len(e.Sports[0].Leagues) == 0 {
		return nil, fmt.Errorf("scoreboard payload has no leagues")
	}
	events := e.Sports[0].Leagues[0].Events
	if len(events) == 0 {
		return nil, fmt.Errorf("scoreboard payload has no events")
	}
	return events, nil
}
