package models

// SurveyStats is the anonymized public rollup of all stored responses.
// Holds counts only, never record-level data.
type SurveyStats struct {
	TotalResponses    int            `json:"total_responses"`
	TotalLots         int            `json:"total_lots"`
	ParticipationRate float64        `json:"participation_rate"`
	ByStatus          map[string]int `json:"by_status"`
	ByBuilding        map[string]int `json:"by_building"`
	HasEV             map[string]int `json:"has_ev"`
	Interest          map[string]int `json:"interest"`
	PreferredSolution map[string]int `json:"preferred_solution"`
	Timeline          map[string]int `json:"timeline"`
	WithParking       int            `json:"with_parking"`
	WithComments      int            `json:"with_comments"`
	WithConsent       int            `json:"with_consent"`
}
