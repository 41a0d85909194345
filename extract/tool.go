package extract

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/egaillera/reserva-restaurantes/reservation"
	"github.com/egaillera/reserva-restaurantes/structured"
)

const (
	extractToolName        = "extract_reservation"
	extractToolDescription = "Register reservation details found in the user's message. Only include fields the user explicitly provided."
)

const extractSystemPrompt = `You are an expert extraction algorithm for restaurant reservations.
Your input is a message from a conversation about one reservation; the conversation may be in Spanish.
Call the %s tool with the values the message explicitly provides.

Rules:
- Only extract information explicitly stated by the user, never guess or infer.
- Omit every attribute whose value you do not know.
- If the message provides nothing, call the tool with no arguments.`

// ToolBasedExtractor runs extraction through a forced tool call whose
// arguments decode straight into a reservation.Draft.
type ToolBasedExtractor struct {
	chain *structured.Chain[*Request, reservation.Draft]
}

func NewToolBasedExtractor(chatModel model.ToolCallingChatModel) (*ToolBasedExtractor, error) {
	chain, err := structured.NewChain[*Request, reservation.Draft](
		chatModel,
		buildExtractPrompt,
		extractToolName,
		extractToolDescription,
	)
	if err != nil {
		return nil, err
	}
	return &ToolBasedExtractor{chain: chain}, nil
}

func (e *ToolBasedExtractor) Extract(ctx context.Context, req *Request) (reservation.Draft, error) {
	drafts, err := e.chain.InvokeAll(ctx, req)
	if err != nil {
		// The model declining to call the tool means it found nothing to
		// extract, which is a valid outcome of a turn.
		if errors.Is(err, structured.ErrNoToolCall) {
			slog.Debug("extraction produced no tool call", "utterance_len", len(req.Utterance))
			return reservation.Draft{}, nil
		}
		return reservation.Draft{}, fmt.Errorf("LLM call failed: %w", err)
	}
	draft := reservation.CollapseDrafts(drafts...)
	slog.Debug("extraction finished", "tool_calls", len(drafts), "empty", draft.Empty())
	return draft, nil
}

func buildExtractPrompt(ctx context.Context, req *Request) ([]*schema.Message, error) {
	return []*schema.Message{
		schema.SystemMessage(fmt.Sprintf(extractSystemPrompt, extractToolName)),
		schema.UserMessage(FormatRequest(req)),
	}, nil
}
