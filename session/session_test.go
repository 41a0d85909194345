package session

import (
	"context"
	"errors"
	"testing"

	"github.com/cloudwego/eino/schema"
	"github.com/egaillera/reserva-restaurantes/reservation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession(t *testing.T, extractor *scriptedExtractor, phraser *scriptedPhraser) *Session {
	t.Helper()
	flow := newTestFlow(t, extractor, phraser)
	return New(flow, NewMemoryStateStore(), NewMemoryHistoryStore(nil))
}

func TestConversationUntilComplete(t *testing.T) {
	ctx := context.Background()
	extractor := &scriptedExtractor{drafts: []reservation.Draft{
		{Name: strPtr("Ana"), GuestCount: intPtr(4)},
		{Phone: strPtr("600123123"), Date: strPtr("2026-09-01"), Time: strPtr("21:00")},
	}}
	sess := newTestSession(t, extractor, &scriptedPhraser{})

	// Turn 1: partial data, assistant asks for the rest.
	reply, err := sess.SubmitUtterance(ctx, "mesa-1", "Soy Ana y seremos cuatro")
	require.NoError(t, err)
	assert.False(t, reply.Completed)
	assert.Contains(t, reply.Message, "phone")
	assert.Nil(t, reply.Record)

	// Turn 2: the answer lands; this beat only acknowledges it.
	reply, err = sess.SubmitUtterance(ctx, "mesa-1", "600123123, el 1 de septiembre a las 21:00")
	require.NoError(t, err)
	assert.Empty(t, reply.Message)
	assert.False(t, reply.Completed)

	// Turn 3: extraction runs again and closes the reservation.
	reply, err = sess.SubmitUtterance(ctx, "mesa-1", "600123123, el 1 de septiembre a las 21:00")
	require.NoError(t, err)
	assert.True(t, reply.Completed)
	assert.Equal(t, CompletedMessage, reply.Message)
	require.NotNil(t, reply.Record)
	assert.True(t, reply.Record.Complete())
	assert.Equal(t, "Ana", reply.Record.Name.Or(""))

	// Terminal: further utterances are rejected.
	_, err = sess.SubmitUtterance(ctx, "mesa-1", "¿puedo cambiarla?")
	assert.ErrorIs(t, err, ErrSessionComplete)
}

func TestHistoryIsRoleTaggedAndDeduplicated(t *testing.T) {
	ctx := context.Background()
	extractor := &scriptedExtractor{drafts: []reservation.Draft{{Name: strPtr("Ana")}}}
	sess := newTestSession(t, extractor, &scriptedPhraser{})

	_, err := sess.SubmitUtterance(ctx, "mesa-1", "Soy Ana")
	require.NoError(t, err)

	history, err := sess.History(ctx, "mesa-1")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, schema.User, history[0].Role)
	assert.Equal(t, "Soy Ana", history[0].Content)
	assert.Equal(t, schema.Assistant, history[1].Role)
}

func TestFailedTurnIsRetryable(t *testing.T) {
	ctx := context.Background()
	extractor := &scriptedExtractor{err: errors.New("model down")}
	phraser := &scriptedPhraser{}
	sess := newTestSession(t, extractor, phraser)

	_, err := sess.SubmitUtterance(ctx, "mesa-1", "Soy Ana")
	require.ErrorIs(t, err, ErrExtractionUnavailable)

	// Nothing but the utterance was persisted.
	st, err := sess.State(ctx, "mesa-1")
	require.NoError(t, err)
	assert.Equal(t, NewState(), st)
	history, err := sess.History(ctx, "mesa-1")
	require.NoError(t, err)
	require.Len(t, history, 1)

	// Retrying the same turn succeeds and does not duplicate the log entry.
	extractor.err = nil
	extractor.drafts = []reservation.Draft{{Name: strPtr("Ana")}}
	reply, err := sess.SubmitUtterance(ctx, "mesa-1", "Soy Ana")
	require.NoError(t, err)
	assert.NotEmpty(t, reply.Message)

	history, err = sess.History(ctx, "mesa-1")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, schema.User, history[0].Role)
}

func TestPhrasingFailureKeepsPriorState(t *testing.T) {
	ctx := context.Background()
	extractor := &scriptedExtractor{drafts: []reservation.Draft{{Name: strPtr("Ana")}}}
	phraser := &scriptedPhraser{err: errors.New("model down")}
	sess := newTestSession(t, extractor, phraser)

	_, err := sess.SubmitUtterance(ctx, "mesa-1", "Soy Ana")
	require.ErrorIs(t, err, ErrPhrasingUnavailable)

	// The merge ran on a scratch copy only; the stored record is untouched.
	st, err := sess.State(ctx, "mesa-1")
	require.NoError(t, err)
	assert.False(t, st.Record.Filled(reservation.FieldName))
	assert.Equal(t, PhaseRouting, st.Phase)
}

func TestSessionsAreIndependent(t *testing.T) {
	ctx := context.Background()
	extractor := &scriptedExtractor{drafts: []reservation.Draft{
		{Name: strPtr("Ana")},
		{Name: strPtr("Luis")},
	}}
	sess := newTestSession(t, extractor, &scriptedPhraser{})

	_, err := sess.SubmitUtterance(ctx, "mesa-1", "Soy Ana")
	require.NoError(t, err)
	_, err = sess.SubmitUtterance(ctx, "mesa-2", "Soy Luis")
	require.NoError(t, err)

	st1, err := sess.State(ctx, "mesa-1")
	require.NoError(t, err)
	st2, err := sess.State(ctx, "mesa-2")
	require.NoError(t, err)
	assert.Equal(t, "Ana", st1.Record.Name.Or(""))
	assert.Equal(t, "Luis", st2.Record.Name.Or(""))
}

func TestSeedFillsOnlyUnsetFields(t *testing.T) {
	ctx := context.Background()
	extractor := &scriptedExtractor{drafts: []reservation.Draft{{Name: strPtr("Ana")}}}
	sess := newTestSession(t, extractor, &scriptedPhraser{})

	_, err := sess.SubmitUtterance(ctx, "mesa-1", "Soy Ana")
	require.NoError(t, err)

	// Phone comes from the caller profile; the name must not regress.
	err = sess.Seed(ctx, "mesa-1", reservation.Draft{
		Name:  strPtr("Perfil"),
		Phone: strPtr("600123123"),
	})
	require.NoError(t, err)

	st, err := sess.State(ctx, "mesa-1")
	require.NoError(t, err)
	assert.Equal(t, "Ana", st.Record.Name.Or(""))
	assert.Equal(t, "600123123", st.Record.Phone.Or(""))
	assert.False(t, st.Record.Filled(reservation.FieldDate))
}

func TestSeedBeforeFirstTurnShortensDialogue(t *testing.T) {
	ctx := context.Background()
	extractor := &scriptedExtractor{drafts: []reservation.Draft{{
		Name:       strPtr("Ana"),
		GuestCount: intPtr(2),
	}}}
	sess := newTestSession(t, extractor, &scriptedPhraser{})

	err := sess.Seed(ctx, "mesa-1", reservation.Draft{
		Phone: strPtr("600123123"),
		Date:  strPtr("2026-09-01"),
		Time:  strPtr("21:00"),
	})
	require.NoError(t, err)

	reply, err := sess.SubmitUtterance(ctx, "mesa-1", "Soy Ana, mesa para dos")
	require.NoError(t, err)
	assert.True(t, reply.Completed)
	assert.Equal(t, CompletedMessage, reply.Message)
}

func TestEndClearsStateAndHistory(t *testing.T) {
	ctx := context.Background()
	extractor := &scriptedExtractor{drafts: []reservation.Draft{{Name: strPtr("Ana")}}}
	sess := newTestSession(t, extractor, &scriptedPhraser{})

	_, err := sess.SubmitUtterance(ctx, "mesa-1", "Soy Ana")
	require.NoError(t, err)
	require.NoError(t, sess.End(ctx, "mesa-1"))

	st, err := sess.State(ctx, "mesa-1")
	require.NoError(t, err)
	assert.Equal(t, NewState(), st)
	history, err := sess.History(ctx, "mesa-1")
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestEmptySessionIDRejected(t *testing.T) {
	sess, err := NewInMemory(&scriptedExtractor{}, &scriptedPhraser{})
	require.NoError(t, err)
	_, err = sess.SubmitUtterance(context.Background(), "", "hola")
	assert.Error(t, err)
}
