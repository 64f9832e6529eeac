package dto

import "time"

// RunRequest optionally overrides the configured destinations and ceiling.
type RunRequest struct {
	Destinations []string `json:"destinations" validate:"omitempty,dive,required"`
	MaxDuration  int      `json:"max_duration" validate:"omitempty,gt=1"`
}

type RunResponse struct {
	Destinations []string  `json:"destinations"`
	Stops        int       `json:"stops"`
	Orphans      int       `json:"orphans"`
	Districts    int       `json:"districts"`
	MaxDuration  int       `json:"max_duration"`
	ComputedAt   time.Time `json:"computed_at"`
}
