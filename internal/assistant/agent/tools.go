package agent

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"tripdesk_backend/internal/assistant/transport"
	fleetrepo "tripdesk_backend/internal/fleet/repository"
	leadservice "tripdesk_backend/internal/leads/service"
	leadtransport "tripdesk_backend/internal/leads/transport"
	"tripdesk_backend/platform/logger"

	bookingtransport "tripdesk_backend/internal/bookings/transport"
)

// Tool names as exposed to the model.
const (
	ToolEstimateTripCost = "estimate_trip_cost"
	ToolGetAvailableCars = "get_available_cars"
	ToolCreateLead       = "create_lead"
	ToolCreateBooking    = "create_booking"
	ToolPresentItinerary = "present_itinerary"
)

// estimate categories quoted by estimate_trip_cost.
var estimateCategories = []string{"sedan", "suv"}

// FleetCatalog lists rate cards matching a passenger count and category.
type FleetCatalog interface {
	AvailableCars(ctx context.Context, passengers int, category string) ([]fleetrepo.VehicleClass, error)
}

// BookingCreator persists a confirmed booking.
type BookingCreator interface {
	CreateBooking(ctx context.Context, req bookingtransport.CreateBookingRequest) (bookingtransport.BookingResponse, error)
}

// LeadCapturer persists leads, including the Priority Inquiry fallback.
type LeadCapturer interface {
	CreateLead(ctx context.Context, req leadtransport.CreateLeadRequest, source string) (leadtransport.LeadResponse, error)
	CreatePriorityInquiry(ctx context.Context, params leadservice.PriorityInquiryParams) (leadtransport.LeadResponse, error)
}

// Executor runs tool calls against the domain services. Every failure is
// converted into a structured tool result; nothing propagates to the model
// conversation as a raw error.
type Executor struct {
	fleet    FleetCatalog
	bookings BookingCreator
	leads    LeadCapturer
	log      *logger.Logger
}

// NewExecutor creates a tool executor over the domain services.
func NewExecutor(fleet FleetCatalog, bookings BookingCreator, leads LeadCapturer, log *logger.Logger) *Executor {
	return &Executor{fleet: fleet, bookings: bookings, leads: leads, log: log}
}

// Declarations returns the tool schema registry attached to every first-pass
// model call.
func Declarations() []*genai.FunctionDeclaration {
	return []*genai.FunctionDeclaration{
		{
			Name:        ToolEstimateTripCost,
			Description: "Estimate the round-trip cost of an outstation trip for sedan and SUV classes, using the minimum-km-per-day policy. Use this whenever the user asks about prices or fares.",
			ParametersJsonSchema: objectSchema(map[string]any{
				"days":       intProp("Trip duration in days, at least 1."),
				"passengers": intProp("Number of passengers, if mentioned."),
				"from":       stringProp("Pickup city or area, if mentioned."),
				"to":         stringProp("Destination city or area, if mentioned."),
			}, []string{"days"}),
		},
		{
			Name:        ToolGetAvailableCars,
			Description: "List available vehicle classes, cheapest first, optionally filtered by passenger count and category (sedan, suv, tempo).",
			ParametersJsonSchema: objectSchema(map[string]any{
				"passengers": intProp("Minimum seats required."),
				"category":   stringProp("Vehicle category filter such as sedan or suv."),
			}, nil),
		},
		{
			Name:        ToolCreateLead,
			Description: "Capture a callback inquiry for a user who wants to be contacted. Always permitted, for guests and logged-in users alike.",
			ParametersJsonSchema: objectSchema(map[string]any{
				"first_name":   stringProp("The user's name."),
				"mobile":       stringProp("The user's mobile number."),
				"from":         stringProp("Pickup city or area."),
				"to":           stringProp("Destination city or area."),
				"days":         intProp("Planned trip duration in days."),
				"plan_summary": stringProp("One-paragraph summary of the trip the user described."),
			}, []string{"first_name", "mobile", "from", "to"}),
		},
		{
			Name:        ToolCreateBooking,
			Description: "Create a confirmed booking for the logged-in customer. Requires login; for guests, offer create_lead instead.",
			ParametersJsonSchema: objectSchema(map[string]any{
				"pickup_from":    stringProp("Pickup city or area."),
				"to":             stringProp("Destination city or area."),
				"passengers":     intProp("Number of passengers."),
				"vehicle_choice": stringProp("Vehicle category or model name the user chose."),
				"days":           intProp("Trip duration in days, default 1."),
				"start_date":     stringProp("Trip start date in YYYY-MM-DD, default today."),
				"plan_summary":   stringProp("One-paragraph summary of the planned trip."),
			}, []string{"pickup_from", "to", "passengers", "vehicle_choice"}),
		},
		{
			Name:        ToolPresentItinerary,
			Description: "Show the user a structured day-by-day itinerary card. Call this after agreeing on a plan so the UI can render it.",
			ParametersJsonSchema: objectSchema(map[string]any{
				"from": stringProp("Trip origin."),
				"to":   stringProp("Trip destination."),
				"days": intProp("Trip duration in days."),
				"itinerary": map[string]any{
					"type":        "array",
					"items":       map[string]any{"type": "string"},
					"description": "One entry per day describing that day's plan.",
				},
				"notes": stringProp("Anything the traveller should know in advance."),
			}, []string{"days"}),
		},
	}
}

func objectSchema(props map[string]any, required []string) map[string]any {
	schema := map[string]any{"type": "object", "properties": props}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func stringProp(description string) map[string]any {
	return map[string]any{"type": "string", "description": description}
}

func intProp(description string) map[string]any {
	return map[string]any{"type": "integer", "description": description}
}

// execute dispatches one tool call. The returned map is serialized verbatim
// as the tool-result turn.
func (e *Executor) execute(ctx context.Context, caller Caller, name string, args map[string]any, sc *sideChannel) map[string]any {
	switch name {
	case ToolEstimateTripCost:
		return e.estimateTripCost(ctx, args)
	case ToolGetAvailableCars:
		return e.getAvailableCars(ctx, args, sc)
	case ToolCreateLead:
		return e.createLead(ctx, args)
	case ToolCreateBooking:
		return e.createBooking(ctx, caller, args)
	case ToolPresentItinerary:
		return e.presentItinerary(args, sc)
	default:
		return toolFailure(fmt.Sprintf("unknown tool %q", name))
	}
}

func (e *Executor) estimateTripCost(ctx context.Context, args map[string]any) map[string]any {
	var in estimateTripCostArgs
	if err := decodeArgs(args, &in); err != nil {
		return toolFailure("invalid arguments: " + err.Error())
	}
	if in.Days < 1 {
		return toolFailure("days is required and must be at least 1")
	}

	estimates := make([]map[string]any, 0, len(estimateCategories))
	for _, category := range estimateCategories {
		classes, err := e.fleet.AvailableCars(ctx, in.Passengers, category)
		if err != nil {
			e.log.Error("estimate: fleet lookup failed", "category", category, "error", err)
			return toolFailure("could not look up vehicle rates, please try again")
		}
		if len(classes) == 0 {
			continue
		}
		// Cheapest card of the category; round trip is priced on the
		// minimum-km-per-day floor, no odometer involved.
		vc := classes[0]
		nights := in.Days - 1
		kmCharge := vc.MinKmPerDay * float64(in.Days) * vc.PerKmRate
		nightCharges := float64(nights) * vc.NightRate
		estimates = append(estimates, map[string]any{
			"category":       vc.Category,
			"model":          vc.ModelName,
			"seats":          vc.SeatingCapacity,
			"perKmRate":      vc.PerKmRate,
			"includedKm":     vc.MinKmPerDay * float64(in.Days),
			"kmCharge":       kmCharge,
			"nights":         nights,
			"nightCharges":   nightCharges,
			"estimatedTotal": kmCharge + nightCharges,
		})
	}
	if len(estimates) == 0 {
		return toolFailure("no vehicle classes are configured for this passenger count; suggest the user leave a callback inquiry")
	}

	return toolSuccess(map[string]any{
		"days":      in.Days,
		"from":      strings.TrimSpace(in.From),
		"to":        strings.TrimSpace(in.To),
		"roundTrip": true,
		"estimates": estimates,
	})
}

func (e *Executor) getAvailableCars(ctx context.Context, args map[string]any, sc *sideChannel) map[string]any {
	var in getAvailableCarsArgs
	if err := decodeArgs(args, &in); err != nil {
		return toolFailure("invalid arguments: " + err.Error())
	}

	classes, err := e.fleet.AvailableCars(ctx, in.Passengers, in.Category)
	if err != nil {
		e.log.Error("get_available_cars failed", "error", err)
		return toolFailure("could not look up available cars, please try again")
	}

	options := make([]transport.CarOption, 0, len(classes))
	cars := make([]map[string]any, 0, len(classes))
	for _, vc := range classes {
		options = append(options, transport.CarOption{
			ID:          vc.ID,
			Category:    vc.Category,
			ModelName:   vc.ModelName,
			Seats:       vc.SeatingCapacity,
			PerKmRate:   vc.PerKmRate,
			NightRate:   vc.NightRate,
			MinKmPerDay: vc.MinKmPerDay,
		})
		cars = append(cars, map[string]any{
			"category":  vc.Category,
			"model":     vc.ModelName,
			"seats":     vc.SeatingCapacity,
			"perKmRate": vc.PerKmRate,
			"nightRate": vc.NightRate,
		})
	}
	sc.carOptions = options

	if len(cars) == 0 {
		return toolSuccess(map[string]any{
			"cars":    cars,
			"message": "no cars match that filter; try a different category or passenger count",
		})
	}
	return toolSuccess(map[string]any{"cars": cars})
}

func (e *Executor) createLead(ctx context.Context, args map[string]any) map[string]any {
	var in createLeadArgs
	if err := decodeArgs(args, &in); err != nil {
		return toolFailure("invalid arguments: " + err.Error())
	}
	if strings.TrimSpace(in.FirstName) == "" || strings.TrimSpace(in.Mobile) == "" {
		return toolFailure("first_name and mobile are required")
	}
	if strings.TrimSpace(in.From) == "" || strings.TrimSpace(in.To) == "" {
		return toolFailure("from and to are required")
	}

	req := leadtransport.CreateLeadRequest{
		Name:         in.FirstName,
		Mobile:       in.Mobile,
		FromLocation: in.From,
		ToLocation:   in.To,
		TripDays:     in.Days,
	}
	if summary := strings.TrimSpace(in.PlanSummary); summary != "" {
		req.PlanSummary = &summary
	}

	lead, err := e.leads.CreateLead(ctx, req, leadservice.SourceAssistant)
	if err != nil {
		e.log.Error("create_lead failed", "error", err)
		return toolFailure("could not save the inquiry, please try again")
	}

	return toolSuccess(map[string]any{
		"lead_id": lead.ID.String(),
		"message": "inquiry captured, the team will call back",
	})
}

func (e *Executor) presentItinerary(args map[string]any, sc *sideChannel) map[string]any {
	var in presentItineraryArgs
	if err := decodeArgs(args, &in); err != nil {
		return toolFailure("invalid arguments: " + err.Error())
	}
	if in.Days < 1 {
		return toolFailure("days is required and must be at least 1")
	}

	sc.tripPlan = &transport.TripPlan{
		From:      strings.TrimSpace(in.From),
		To:        strings.TrimSpace(in.To),
		Days:      in.Days,
		Itinerary: in.Itinerary,
		Notes:     strings.TrimSpace(in.Notes),
	}
	return toolSuccess(map[string]any{"message": "itinerary card shown to the user"})
}
