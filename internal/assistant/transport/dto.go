package transport

import "github.com/google/uuid"

// Chat roles accepted in the inbound history. Anything else is dropped
// before the turn reaches the model.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
	RoleTool      = "tool"
)

// ChatTurn is one prior turn of the conversation as the client replays it.
// Turns are ephemeral; the server keeps no conversation state.
type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatRequest struct {
	Message string     `json:"message" validate:"required,min=1,max=4000"`
	History []ChatTurn `json:"history" validate:"omitempty,max=50,dive"`
}

// CarOption is the structured vehicle card surfaced alongside the reply when
// the model listed available cars during the turn.
type CarOption struct {
	ID          uuid.UUID `json:"id"`
	Category    string    `json:"category"`
	ModelName   string    `json:"modelName"`
	Seats       int       `json:"seats"`
	PerKmRate   float64   `json:"perKmRate"`
	NightRate   float64   `json:"nightRate"`
	MinKmPerDay float64   `json:"minKmPerDay"`
}

// TripPlan is the structured itinerary surfaced alongside the reply when the
// model called present_itinerary during the turn.
type TripPlan struct {
	From      string   `json:"from,omitempty"`
	To        string   `json:"to,omitempty"`
	Days      int      `json:"days"`
	Itinerary []string `json:"itinerary,omitempty"`
	Notes     string   `json:"notes,omitempty"`
}

type ChatResponse struct {
	Role       string      `json:"role"`
	Content    string      `json:"content"`
	TripPlan   *TripPlan   `json:"tripPlan,omitempty"`
	CarOptions []CarOption `json:"carOptions,omitempty"`
}
