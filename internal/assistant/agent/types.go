// Package agent implements the conversational tool-calling loop: it builds
// the model-facing message sequence, executes the tool calls the model
// requests against the domain services, and obtains a final reply.
package agent

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"tripdesk_backend/internal/assistant/transport"
)

// Caller is the request-scoped identity of the chatting user. CustomerID is
// nil for anonymous visitors; create_booking requires it.
type Caller struct {
	CustomerID  *uuid.UUID
	DisplayName string
}

// IsAuthenticated reports whether the caller carries a customer identity.
func (c Caller) IsAuthenticated() bool {
	return c.CustomerID != nil
}

// sideChannel collects the structured payloads tools surface alongside the
// final text reply. One instance lives per user turn.
type sideChannel struct {
	carOptions []transport.CarOption
	tripPlan   *transport.TripPlan
}

// Typed tool arguments. Each mirrors one declaration in tools.go; decode
// failures and missing required fields become structured tool failures.

type estimateTripCostArgs struct {
	Days       int    `json:"days"`
	Passengers int    `json:"passengers"`
	From       string `json:"from"`
	To         string `json:"to"`
}

type getAvailableCarsArgs struct {
	Passengers int    `json:"passengers"`
	Category   string `json:"category"`
}

type createLeadArgs struct {
	FirstName   string `json:"first_name"`
	Mobile      string `json:"mobile"`
	From        string `json:"from"`
	To          string `json:"to"`
	Days        int    `json:"days"`
	PlanSummary string `json:"plan_summary"`
}

type createBookingArgs struct {
	PickupFrom    string `json:"pickup_from"`
	To            string `json:"to"`
	Passengers    int    `json:"passengers"`
	VehicleChoice string `json:"vehicle_choice"`
	Days          int    `json:"days"`
	StartDate     string `json:"start_date"`
	PlanSummary   string `json:"plan_summary"`
}

type presentItineraryArgs struct {
	From      string   `json:"from"`
	To        string   `json:"to"`
	Days      int      `json:"days"`
	Itinerary []string `json:"itinerary"`
	Notes     string   `json:"notes"`
}

// decodeArgs converts the model's loosely typed argument map into a typed
// struct via a JSON round trip.
func decodeArgs(args map[string]any, out any) error {
	raw, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("encode tool arguments: %w", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode tool arguments: %w", err)
	}
	return nil
}

// toolFailure is the structured result returned to the model when a tool
// cannot run. It is a normal tool result, never a raised error.
func toolFailure(message string) map[string]any {
	return map[string]any{"success": false, "error": message}
}

func toolSuccess(fields map[string]any) map[string]any {
	result := map[string]any{"success": true}
	for k, v := range fields {
		result[k] = v
	}
	return result
}
