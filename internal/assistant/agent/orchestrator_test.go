package agent

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"google.golang.org/genai"

	"tripdesk_backend/internal/assistant/transport"
	bookingtransport "tripdesk_backend/internal/bookings/transport"
	fleetrepo "tripdesk_backend/internal/fleet/repository"
	leadservice "tripdesk_backend/internal/leads/service"
	leadtransport "tripdesk_backend/internal/leads/transport"
	"tripdesk_backend/platform/ai/openrouter"
	"tripdesk_backend/platform/apperr"
	"tripdesk_backend/platform/logger"
)

type fakeModel struct {
	responses []*genai.Content
	errs      []error
	requests  []openrouter.Request
}

func (f *fakeModel) Complete(_ context.Context, req openrouter.Request) (*genai.Content, error) {
	i := len(f.requests)
	f.requests = append(f.requests, req)
	if i < len(f.errs) && f.errs[i] != nil {
		return nil, f.errs[i]
	}
	if i >= len(f.responses) {
		return textContent("ok"), nil
	}
	return f.responses[i], nil
}

type fakeFleet struct {
	classes []fleetrepo.VehicleClass
	calls   *[]string
}

func (f *fakeFleet) AvailableCars(_ context.Context, passengers int, category string) ([]fleetrepo.VehicleClass, error) {
	if f.calls != nil {
		*f.calls = append(*f.calls, "get_available_cars")
	}
	matches := make([]fleetrepo.VehicleClass, 0, len(f.classes))
	for _, vc := range f.classes {
		if passengers > 0 && vc.SeatingCapacity < passengers {
			continue
		}
		if category != "" && !strings.EqualFold(vc.Category, category) {
			continue
		}
		matches = append(matches, vc)
	}
	return matches, nil
}

type fakeBookings struct {
	err      error
	requests []bookingtransport.CreateBookingRequest
	calls    *[]string
}

func (f *fakeBookings) CreateBooking(_ context.Context, req bookingtransport.CreateBookingRequest) (bookingtransport.BookingResponse, error) {
	if f.calls != nil {
		*f.calls = append(*f.calls, "create_booking")
	}
	if f.err != nil {
		return bookingtransport.BookingResponse{}, f.err
	}
	f.requests = append(f.requests, req)
	return bookingtransport.BookingResponse{
		ID:           uuid.New(),
		VehicleModel: "Dzire",
		Status:       "Pending",
		GrandTotal:   7750,
	}, nil
}

type fakeLeads struct {
	priorityErr error
	leads       []leadtransport.CreateLeadRequest
	inquiries   []leadservice.PriorityInquiryParams
}

func (f *fakeLeads) CreateLead(_ context.Context, req leadtransport.CreateLeadRequest, _ string) (leadtransport.LeadResponse, error) {
	f.leads = append(f.leads, req)
	return leadtransport.LeadResponse{ID: uuid.New(), Name: req.Name}, nil
}

func (f *fakeLeads) CreatePriorityInquiry(_ context.Context, params leadservice.PriorityInquiryParams) (leadtransport.LeadResponse, error) {
	if f.priorityErr != nil {
		return leadtransport.LeadResponse{}, f.priorityErr
	}
	f.inquiries = append(f.inquiries, params)
	return leadtransport.LeadResponse{ID: uuid.New()}, nil
}

func textContent(text string) *genai.Content {
	return genai.NewContentFromText(text, genai.RoleModel)
}

func callContent(calls ...*genai.FunctionCall) *genai.Content {
	parts := make([]*genai.Part, 0, len(calls))
	for _, call := range calls {
		parts = append(parts, &genai.Part{FunctionCall: call})
	}
	return &genai.Content{Role: genai.RoleModel, Parts: parts}
}

func sedanClass() fleetrepo.VehicleClass {
	return fleetrepo.VehicleClass{
		ID:              uuid.New(),
		Category:        "sedan",
		ModelName:       "Dzire",
		SeatingCapacity: 4,
		PerKmRate:       15,
		NightRate:       250,
		MinKmPerDay:     250,
	}
}

func newTestOrchestrator(model ModelClient, fleet FleetCatalog, bookings BookingCreator, leads LeadCapturer) *Orchestrator {
	log := logger.New("development")
	return NewOrchestrator(model, NewExecutor(fleet, bookings, leads, log), log)
}

// toolResults extracts the tool-result turn from the second model request.
func toolResults(t *testing.T, model *fakeModel) []*genai.FunctionResponse {
	t.Helper()
	if len(model.requests) != 2 {
		t.Fatalf("model calls = %d, want 2", len(model.requests))
	}
	contents := model.requests[1].Contents
	last := contents[len(contents)-1]
	var results []*genai.FunctionResponse
	for _, part := range last.Parts {
		if part.FunctionResponse != nil {
			results = append(results, part.FunctionResponse)
		}
	}
	return results
}

func TestChatWithoutToolCallsIsSingleRoundTrip(t *testing.T) {
	model := &fakeModel{responses: []*genai.Content{textContent("A sedan seats four comfortably.")}}
	o := newTestOrchestrator(model, &fakeFleet{}, &fakeBookings{}, &fakeLeads{})

	resp, err := o.Chat(context.Background(), Caller{}, transport.ChatRequest{Message: "how many seats in a sedan?"})
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if resp.Content != "A sedan seats four comfortably." {
		t.Fatalf("content = %q", resp.Content)
	}
	if len(model.requests) != 1 {
		t.Fatalf("model calls = %d, want 1", len(model.requests))
	}
}

func TestCreateBookingRequiresLogin(t *testing.T) {
	model := &fakeModel{responses: []*genai.Content{
		callContent(&genai.FunctionCall{ID: "call_1", Name: ToolCreateBooking, Args: map[string]any{
			"pickup_from": "Pune", "to": "Goa", "passengers": float64(3), "vehicle_choice": "sedan",
		}}),
		textContent("Please log in to book."),
	}}
	bookings := &fakeBookings{}
	o := newTestOrchestrator(model, &fakeFleet{}, bookings, &fakeLeads{})

	resp, err := o.Chat(context.Background(), Caller{}, transport.ChatRequest{Message: "book it"})
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}

	results := toolResults(t, model)
	if len(results) != 1 || results[0].ID != "call_1" {
		t.Fatalf("tool results = %+v, want one correlated to call_1", results)
	}
	if results[0].Response["success"] != false || results[0].Response["error"] != "Login required." {
		t.Fatalf("tool result = %v, want login-required failure", results[0].Response)
	}
	if len(bookings.requests) != 0 {
		t.Fatal("no booking write may be attempted for an anonymous caller")
	}
	if resp.Content == "" {
		t.Fatal("final reply must not be empty")
	}
}

func TestBookingFallbackCreatesPriorityInquiry(t *testing.T) {
	customerID := uuid.New()
	model := &fakeModel{responses: []*genai.Content{
		callContent(&genai.FunctionCall{ID: "call_1", Name: ToolCreateBooking, Args: map[string]any{
			"pickup_from": "Pune", "to": "Goa", "passengers": float64(3),
			"vehicle_choice": "sedan", "days": float64(2),
			"plan_summary": "Weekend beach trip",
		}}),
		textContent("I could not confirm the booking, so I created a Priority Inquiry; the team will call you."),
	}}
	leads := &fakeLeads{}
	bookings := &fakeBookings{err: errors.New("connection reset")}
	o := newTestOrchestrator(model, &fakeFleet{}, bookings, leads)

	resp, err := o.Chat(context.Background(), Caller{CustomerID: &customerID, DisplayName: "Asha"}, transport.ChatRequest{Message: "book it"})
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}

	if len(leads.inquiries) != 1 {
		t.Fatalf("priority inquiries = %d, want 1", len(leads.inquiries))
	}
	inquiry := leads.inquiries[0]
	if inquiry.Name != "Asha" || inquiry.From != "Pune" || inquiry.To != "Goa" || inquiry.TripDays != 2 {
		t.Fatalf("inquiry = %+v, want the planned trip carried over", inquiry)
	}
	if !strings.Contains(inquiry.PlanSummary, "Weekend beach trip") || !strings.Contains(inquiry.PlanSummary, "sedan") {
		t.Fatalf("plan summary = %q, want original plan plus planned vehicle", inquiry.PlanSummary)
	}

	results := toolResults(t, model)
	if results[0].Response["fallback"] != "priority_inquiry" {
		t.Fatalf("tool result = %v, want priority_inquiry fallback", results[0].Response)
	}
	if !strings.Contains(resp.Content, "Priority Inquiry") {
		t.Fatalf("final reply = %q, want mention of the Priority Inquiry", resp.Content)
	}
}

func TestBookingFallbackFailureIsHardError(t *testing.T) {
	customerID := uuid.New()
	model := &fakeModel{responses: []*genai.Content{
		callContent(&genai.FunctionCall{ID: "call_1", Name: ToolCreateBooking, Args: map[string]any{
			"pickup_from": "Pune", "to": "Goa", "passengers": float64(3), "vehicle_choice": "sedan",
		}}),
		textContent("Something went wrong, please try again later."),
	}}
	bookings := &fakeBookings{err: errors.New("connection reset")}
	leads := &fakeLeads{priorityErr: errors.New("also down")}
	o := newTestOrchestrator(model, &fakeFleet{}, bookings, leads)

	_, err := o.Chat(context.Background(), Caller{CustomerID: &customerID}, transport.ChatRequest{Message: "book it"})
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}

	results := toolResults(t, model)
	if results[0].Response["success"] != false {
		t.Fatalf("tool result = %v, want hard failure", results[0].Response)
	}
	if _, ok := results[0].Response["fallback"]; ok {
		t.Fatal("failed fallback must not be reported as a fallback success")
	}
}

func TestToolCallsExecuteInOrder(t *testing.T) {
	customerID := uuid.New()
	var order []string
	fleet := &fakeFleet{classes: []fleetrepo.VehicleClass{sedanClass()}, calls: &order}
	bookings := &fakeBookings{calls: &order}

	model := &fakeModel{responses: []*genai.Content{
		callContent(
			&genai.FunctionCall{ID: "call_1", Name: ToolGetAvailableCars, Args: map[string]any{"passengers": float64(3)}},
			&genai.FunctionCall{ID: "call_2", Name: ToolCreateBooking, Args: map[string]any{
				"pickup_from": "Pune", "to": "Goa", "passengers": float64(3), "vehicle_choice": "Dzire",
			}},
		),
		textContent("Booked a Dzire for you."),
	}}
	o := newTestOrchestrator(model, fleet, bookings, &fakeLeads{})

	resp, err := o.Chat(context.Background(), Caller{CustomerID: &customerID, DisplayName: "Asha"}, transport.ChatRequest{Message: "show cars and book the sedan"})
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}

	if len(order) != 2 || order[0] != "get_available_cars" || order[1] != "create_booking" {
		t.Fatalf("execution order = %v, want cars before booking", order)
	}
	results := toolResults(t, model)
	if len(results) != 2 || results[0].ID != "call_1" || results[1].ID != "call_2" {
		t.Fatalf("results = %+v, want both calls answered in order", results)
	}
	if len(resp.CarOptions) != 1 || resp.CarOptions[0].ModelName != "Dzire" {
		t.Fatalf("carOptions = %+v, want the listed sedan", resp.CarOptions)
	}
}

func TestSecondPassToolCallsAreNotExecuted(t *testing.T) {
	model := &fakeModel{responses: []*genai.Content{
		callContent(&genai.FunctionCall{ID: "call_1", Name: ToolGetAvailableCars, Args: map[string]any{}}),
		{Role: genai.RoleModel, Parts: []*genai.Part{
			genai.NewPartFromText("Here are the cars."),
			{FunctionCall: &genai.FunctionCall{ID: "call_2", Name: ToolCreateBooking, Args: map[string]any{}}},
		}},
	}}
	bookings := &fakeBookings{}
	o := newTestOrchestrator(model, &fakeFleet{classes: []fleetrepo.VehicleClass{sedanClass()}}, bookings, &fakeLeads{})

	resp, err := o.Chat(context.Background(), Caller{}, transport.ChatRequest{Message: "cars?"})
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if len(model.requests) != 2 {
		t.Fatalf("model calls = %d, want exactly 2", len(model.requests))
	}
	if len(bookings.requests) != 0 {
		t.Fatal("tool calls from the second pass must not execute")
	}
	if resp.Content != "Here are the cars." {
		t.Fatalf("content = %q", resp.Content)
	}
}

func TestUpstreamFailureFailsTheTurn(t *testing.T) {
	model := &fakeModel{errs: []error{errors.New("gateway timeout")}}
	o := newTestOrchestrator(model, &fakeFleet{}, &fakeBookings{}, &fakeLeads{})

	_, err := o.Chat(context.Background(), Caller{}, transport.ChatRequest{Message: "hello"})
	if err == nil {
		t.Fatal("expected an error when the model is unreachable")
	}
	if apperr.GetKind(err) != apperr.KindUpstream {
		t.Fatalf("error kind = %v, want upstream", apperr.GetKind(err))
	}
}

func TestHistorySanitizationDropsUnknownRoles(t *testing.T) {
	model := &fakeModel{responses: []*genai.Content{textContent("hi")}}
	o := newTestOrchestrator(model, &fakeFleet{}, &fakeBookings{}, &fakeLeads{})

	_, err := o.Chat(context.Background(), Caller{}, transport.ChatRequest{
		Message: "hello",
		History: []transport.ChatTurn{
			{Role: "user", Content: "earlier question"},
			{Role: "assistant", Content: "earlier answer"},
			{Role: "developer", Content: "must be dropped"},
			{Role: "user", Content: "   "},
		},
	})
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}

	// history (2 kept) + new user turn
	if got := len(model.requests[0].Contents); got != 3 {
		t.Fatalf("contents = %d, want 3", got)
	}
}
