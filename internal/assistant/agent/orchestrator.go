package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"tripdesk_backend/internal/assistant/transport"
	"tripdesk_backend/platform/ai/openrouter"
	"tripdesk_backend/platform/apperr"
	"tripdesk_backend/platform/logger"
)

// apologyReply is the user-visible text when the model itself is unreachable.
const apologyReply = "Sorry, I could not process that right now. Please try again in a moment."

// ModelClient is the language-model collaborator. Satisfied by
// openrouter.Client.
type ModelClient interface {
	Complete(ctx context.Context, req openrouter.Request) (*genai.Content, error)
}

// Orchestrator runs the per-message protocol: one model call with tools
// attached, sequential execution of any requested tool calls, and at most one
// follow-up model call for the final wording. There is never a third round
// trip.
type Orchestrator struct {
	model ModelClient
	tools *Executor
	log   *logger.Logger
}

// NewOrchestrator creates the conversation orchestrator.
func NewOrchestrator(model ModelClient, tools *Executor, log *logger.Logger) *Orchestrator {
	return &Orchestrator{model: model, tools: tools, log: log}
}

// Chat handles one user message end to end and returns the assistant reply
// plus any structured payloads the executed tools surfaced.
func (o *Orchestrator) Chat(ctx context.Context, caller Caller, req transport.ChatRequest) (transport.ChatResponse, error) {
	contents := sanitizeHistory(req.History)
	contents = append(contents, genai.NewContentFromText(req.Message, genai.RoleUser))

	first, err := o.model.Complete(ctx, openrouter.Request{
		System:     o.systemPrompt(caller),
		Contents:   contents,
		Tools:      Declarations(),
		ToolChoice: openrouter.ToolChoiceAuto,
	})
	if err != nil {
		o.log.Error("assistant model call failed", "error", err)
		return transport.ChatResponse{}, apperr.Wrap(apperr.KindUpstream, apologyReply, err)
	}

	calls := functionCalls(first)
	if len(calls) == 0 {
		return transport.ChatResponse{
			Role:    transport.RoleAssistant,
			Content: textOf(first, apologyReply),
		}, nil
	}

	sc := &sideChannel{}
	contents = append(contents, first)
	contents = append(contents, o.runTools(ctx, caller, calls, sc))

	second, err := o.model.Complete(ctx, openrouter.Request{
		System:     o.systemPrompt(caller),
		Contents:   contents,
		Tools:      Declarations(),
		ToolChoice: openrouter.ToolChoiceNone,
	})
	if err != nil {
		o.log.Error("assistant follow-up model call failed", "error", err)
		return transport.ChatResponse{}, apperr.Wrap(apperr.KindUpstream, apologyReply, err)
	}
	// Tool calls in the second pass are not executed; only its text is used.
	if extra := functionCalls(second); len(extra) > 0 {
		o.log.Warn("model requested tools in the final pass, ignoring", "count", len(extra))
	}

	return transport.ChatResponse{
		Role:       transport.RoleAssistant,
		Content:    textOf(second, "Done. Is there anything else I can help you with?"),
		TripPlan:   sc.tripPlan,
		CarOptions: sc.carOptions,
	}, nil
}

// runTools executes the calls strictly in the order the model emitted them
// and returns the single content carrying one result turn per call,
// correlated by call id.
func (o *Orchestrator) runTools(ctx context.Context, caller Caller, calls []*genai.FunctionCall, sc *sideChannel) *genai.Content {
	parts := make([]*genai.Part, 0, len(calls))
	for _, call := range calls {
		result := o.tools.execute(ctx, caller, call.Name, call.Args, sc)
		o.log.Info("assistant tool executed", "tool", call.Name, "success", result["success"])
		parts = append(parts, &genai.Part{
			FunctionResponse: &genai.FunctionResponse{
				ID:       call.ID,
				Name:     call.Name,
				Response: result,
			},
		})
	}
	return &genai.Content{Role: genai.RoleUser, Parts: parts}
}

func (o *Orchestrator) systemPrompt(caller Caller) string {
	var b strings.Builder
	b.WriteString("You are the travel desk assistant for an outstation and local cab company. ")
	b.WriteString("You help users plan trips, quote fares, list available cars, capture callback inquiries and create bookings. ")
	b.WriteString("Quote prices only from the estimate_trip_cost tool, never invent rates. ")
	b.WriteString("Bookings require the user to be logged in; offer create_lead to guests instead. ")
	b.WriteString("Keep replies short and concrete. Amounts are in INR.\n")
	fmt.Fprintf(&b, "Current date: %s.\n", time.Now().UTC().Format("2006-01-02"))
	if caller.IsAuthenticated() {
		name := caller.DisplayName
		if name == "" {
			name = "Customer"
		}
		fmt.Fprintf(&b, "The user is logged in as %s (customer id %s).", name, caller.CustomerID)
	} else {
		b.WriteString("The user is not logged in.")
	}
	return b.String()
}

// sanitizeHistory keeps only the conversational roles and converts them to
// model-facing contents. Unknown roles and empty turns are dropped.
func sanitizeHistory(history []transport.ChatTurn) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history))
	for _, turn := range history {
		if strings.TrimSpace(turn.Content) == "" {
			continue
		}
		switch turn.Role {
		case transport.RoleAssistant:
			contents = append(contents, genai.NewContentFromText(turn.Content, genai.RoleModel))
		case transport.RoleUser, transport.RoleSystem, transport.RoleTool:
			contents = append(contents, genai.NewContentFromText(turn.Content, genai.RoleUser))
		}
	}
	return contents
}

func functionCalls(content *genai.Content) []*genai.FunctionCall {
	if content == nil {
		return nil
	}
	var calls []*genai.FunctionCall
	for _, part := range content.Parts {
		if part != nil && part.FunctionCall != nil {
			calls = append(calls, part.FunctionCall)
		}
	}
	return calls
}

func textOf(content *genai.Content, fallback string) string {
	if content == nil {
		return fallback
	}
	var b strings.Builder
	for _, part := range content.Parts {
		if part == nil || strings.TrimSpace(part.Text) == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(part.Text)
	}
	if b.Len() == 0 {
		return fallback
	}
	return b.String()
}
