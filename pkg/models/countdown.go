package models

// Countdown is the time left until the webinar starts
type Countdown struct {
	Days    int64 `json:"days"`
	Hours   int64 `json:"hours"`
	Minutes int64 `json:"minutes"`
	Seconds int64 `json:"seconds"`
	Started bool  `json:"started"`
}

// EarlyBird is the time left in the current early-bird pricing window
type EarlyBird struct {
	Hours   int64 `json:"hours"`
	Minutes int64 `json:"minutes"`
	Seconds int64 `json:"seconds"`
}

// CountdownResponse is returned by the countdown API
type CountdownResponse struct {
	Webinar   Countdown `json:"webinar"`
	EarlyBird EarlyBird `json:"earlyBird"`
}
