package extract

import (
	"context"
	"errors"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/egaillera/reserva-restaurantes/reservation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeChatModel returns a canned reply, recording the prompt it was given.
type fakeChatModel struct {
	reply      *schema.Message
	err        error
	lastPrompt []*schema.Message
}

func (m *fakeChatModel) Generate(ctx context.Context, in []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	m.lastPrompt = in
	if m.err != nil {
		return nil, m.err
	}
	return m.reply, nil
}

func (m *fakeChatModel) Stream(ctx context.Context, in []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("streaming not supported")
}

func (m *fakeChatModel) WithTools(tools []*schema.ToolInfo) (model.ToolCallingChatModel, error) {
	return m, nil
}

func toolCallReply(args ...string) *schema.Message {
	calls := make([]schema.ToolCall, 0, len(args))
	for _, a := range args {
		calls = append(calls, schema.ToolCall{
			Function: schema.FunctionCall{Name: extractToolName, Arguments: a},
		})
	}
	return &schema.Message{Role: schema.Assistant, ToolCalls: calls}
}

func newTestRequest() *Request {
	var rec reservation.Record
	return &Request{
		Utterance: "Hola, soy Ana y seremos 4",
		Schema:    `{"title":"Reserva de restaurante"}`,
		Missing:   rec.Missing(),
	}
}

func TestToolBasedExtractorParsesDraft(t *testing.T) {
	cm := &fakeChatModel{reply: toolCallReply(`{"name":"Ana","n_guests":4}`)}
	extractor, err := NewToolBasedExtractor(cm)
	require.NoError(t, err)

	draft, err := extractor.Extract(context.Background(), newTestRequest())
	require.NoError(t, err)
	require.NotNil(t, draft.Name)
	assert.Equal(t, "Ana", *draft.Name)
	require.NotNil(t, draft.GuestCount)
	assert.Equal(t, 4, *draft.GuestCount)
	assert.Nil(t, draft.Phone)

	// The prompt carries the utterance and the target schema.
	require.Len(t, cm.lastPrompt, 2)
	assert.Equal(t, schema.System, cm.lastPrompt[0].Role)
	assert.Contains(t, cm.lastPrompt[1].Content, "Hola, soy Ana")
	assert.Contains(t, cm.lastPrompt[1].Content, "Reserva de restaurante")
}

func TestToolBasedExtractorCollapsesBatches(t *testing.T) {
	// Two tool calls in one reply: the flattening keeps the last value per
	// field before the record-level merge runs.
	cm := &fakeChatModel{reply: toolCallReply(
		`{"name":"Ana","n_guests":2}`,
		`{"n_guests":4,"time":"20:00"}`,
	)}
	extractor, err := NewToolBasedExtractor(cm)
	require.NoError(t, err)

	draft, err := extractor.Extract(context.Background(), newTestRequest())
	require.NoError(t, err)
	assert.Equal(t, "Ana", *draft.Name)
	assert.Equal(t, 4, *draft.GuestCount)
	assert.Equal(t, "20:00", *draft.Time)
}

func TestToolBasedExtractorNoToolCallMeansEmptyDraft(t *testing.T) {
	cm := &fakeChatModel{reply: &schema.Message{Role: schema.Assistant, Content: "no hay datos"}}
	extractor, err := NewToolBasedExtractor(cm)
	require.NoError(t, err)

	draft, err := extractor.Extract(context.Background(), newTestRequest())
	require.NoError(t, err)
	assert.True(t, draft.Empty())
}

func TestToolBasedExtractorModelFailure(t *testing.T) {
	cm := &fakeChatModel{err: errors.New("boom")}
	extractor, err := NewToolBasedExtractor(cm)
	require.NoError(t, err)

	_, err = extractor.Extract(context.Background(), newTestRequest())
	assert.Error(t, err)
}

func TestToolBasedExtractorMalformedArguments(t *testing.T) {
	cm := &fakeChatModel{reply: toolCallReply(`{"n_guests":"cuatro"`)}
	extractor, err := NewToolBasedExtractor(cm)
	require.NoError(t, err)

	_, err = extractor.Extract(context.Background(), newTestRequest())
	assert.Error(t, err)
}
