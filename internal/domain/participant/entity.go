package participant

import "time"

type TravelMode string

const (
	TravelModeFlight TravelMode = "FLIGHT"
	TravelModeTrain  TravelMode = "TRAIN"
	TravelModeBus    TravelMode = "BUS"
	TravelModeOther  TravelMode = "OTHER"
)

// Participant is an attendee of the event with hostel and travel logistics
type Participant struct {
	ID          string
	Name        string
	Email       string
	Team        *string
	Site        string
	Hostel      *string
	TravelMode  *TravelMode
	ArrivalDate *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// PendingEdit is a profile change that waits for the operator to confirm the participant's site
type PendingEdit struct {
	Token         string                   `json:"token"`
	ParticipantID string                   `json:"participant_id"`
	Changes       UpdateParticipantRequest `json:"changes"`
	ExpiresAt     time.Time                `json:"expires_at"`
}
