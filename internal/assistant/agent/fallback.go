package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	bookingtransport "tripdesk_backend/internal/bookings/transport"
	leadservice "tripdesk_backend/internal/leads/service"
	"tripdesk_backend/platform/apperr"
)

// loginRequiredMessage is the structured failure returned to the model when
// an anonymous caller attempts create_booking.
const loginRequiredMessage = "Login required."

// createBooking runs the two-tier booking policy: attempt the booking, and on
// a persistence failure capture a Priority Inquiry lead instead. Only when
// the fallback lead also fails does the tool report a hard failure.
func (e *Executor) createBooking(ctx context.Context, caller Caller, args map[string]any) map[string]any {
	if !caller.IsAuthenticated() {
		return toolFailure(loginRequiredMessage)
	}

	var in createBookingArgs
	if err := decodeArgs(args, &in); err != nil {
		return toolFailure("invalid arguments: " + err.Error())
	}
	if strings.TrimSpace(in.PickupFrom) == "" || strings.TrimSpace(in.To) == "" {
		return toolFailure("pickup_from and to are required")
	}
	if in.Passengers < 1 {
		return toolFailure("passengers is required and must be at least 1")
	}
	if strings.TrimSpace(in.VehicleChoice) == "" {
		return toolFailure("vehicle_choice is required; ask the user which car they want or call get_available_cars first")
	}

	days := in.Days
	if days < 1 {
		days = 1
	}
	start, err := parseStartDate(in.StartDate)
	if err != nil {
		return toolFailure("start_date must be in YYYY-MM-DD format")
	}
	end := start.Add(time.Duration(days) * 24 * time.Hour)

	booking, err := e.bookings.CreateBooking(ctx, bookingtransport.CreateBookingRequest{
		TripKind:       "Outstation",
		CustomerID:     caller.CustomerID,
		CustomerName:   caller.DisplayName,
		VehicleChoice:  in.VehicleChoice,
		Passengers:     in.Passengers,
		PickupLocation: in.PickupFrom,
		DropLocation:   in.To,
		PickupAt:       &start,
		ReturnAt:       &end,
	})
	if err == nil {
		return toolSuccess(map[string]any{
			"booking_id": booking.ID.String(),
			"vehicle":    booking.VehicleModel,
			"status":     booking.Status,
			"grandTotal": booking.GrandTotal,
			"message":    "booking confirmed",
		})
	}

	// Caller-correctable failures (unresolvable vehicle, bad input) go back
	// to the model as guidance, not into the fallback tier.
	var domainErr *apperr.Error
	if errors.As(err, &domainErr) {
		switch domainErr.Kind {
		case apperr.KindNotFound, apperr.KindValidation, apperr.KindBadRequest:
			return toolFailure(domainErr.Message + "; call get_available_cars to see what can be booked")
		}
	}

	e.log.Error("booking persistence failed, falling back to priority inquiry", "error", err)
	return e.bookingFallback(ctx, caller, in, days, err)
}

func (e *Executor) bookingFallback(ctx context.Context, caller Caller, in createBookingArgs, days int, cause error) map[string]any {
	summary := strings.TrimSpace(in.PlanSummary)
	if summary == "" {
		summary = fmt.Sprintf("%s to %s, %d day(s)", in.PickupFrom, in.To, days)
	}
	summary = fmt.Sprintf("%s. Planned vehicle: %s, %d passenger(s). Booking could not be confirmed automatically.",
		summary, in.VehicleChoice, in.Passengers)

	lead, err := e.leads.CreatePriorityInquiry(ctx, leadservice.PriorityInquiryParams{
		Name:        caller.DisplayName,
		From:        in.PickupFrom,
		To:          in.To,
		TripDays:    days,
		PlanSummary: summary,
		Reason:      "booking persistence failed: " + cause.Error(),
	})
	if err != nil {
		e.log.Error("priority inquiry fallback failed", "error", err)
		return toolFailure("the booking could not be saved and the fallback inquiry also failed; ask the user to try again later")
	}

	return map[string]any{
		"success":         false,
		"fallback":        "priority_inquiry",
		"lead_id":         lead.ID.String(),
		"error":           "the booking could not be confirmed right now",
		"message":         "a Priority Inquiry was created instead; the team will call back to confirm the trip",
		"inform_the_user": "tell the user a Priority Inquiry was created and the team will confirm the booking by phone",
	}
}

func parseStartDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		now := time.Now().UTC()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	return time.Parse("2006-01-02", value)
}
