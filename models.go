package main

// statsResponse is the /api/stats payload.
type statsResponse struct {
	Tracks       int          `json:"tracks"`
	ActiveTracks int          `json:"active_tracks"`
	Ticks        uint64       `json:"ticks"`
	PageSize     int          `json:"page_size"`
	Speed        speedSummary `json:"speed"`
}

// speedSummary describes the distribution of per-tick track speeds.
type speedSummary struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// healthResponse is the /api/health payload.
type healthResponse struct {
	Status string `json:"status"`
	Tracks int    `json:"tracks"`
}
