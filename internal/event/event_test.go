package event

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validBookingEvent(kind Kind) Event {
	return Event{
		ID:         uuid.New(),
		Kind:       kind,
		ClubID:     uuid.New(),
		OccurredAt: time.Now().UTC(),
		Booking: &BookingPayload{
			ID:         uuid.New(),
			CourtID:    uuid.New(),
			UserID:     uuid.New(),
			StartTime:  time.Now().UTC(),
			EndTime:    time.Now().UTC().Add(time.Hour),
			Status:     "reserved",
			PriceCents: 4500,
		},
	}
}

func TestParseKindCanonical(t *testing.T) {
	for _, kind := range []Kind{
		KindBookingCreated, KindBookingUpdated, KindBookingCancelled,
		KindPaymentConfirmed, KindPaymentFailed,
	} {
		parsed, err := ParseKind(string(kind))
		require.NoError(t, err)
		assert.Equal(t, kind, parsed)
	}
}

func TestParseKindAliases(t *testing.T) {
	cases := map[string]Kind{
		"booking:created":   KindBookingCreated,
		"booking:updated":   KindBookingUpdated,
		"booking:cancelled": KindBookingCancelled,
		"payment:confirmed": KindPaymentConfirmed,
		"payment:failed":    KindPaymentFailed,
	}
	for wire, want := range cases {
		parsed, err := ParseKind(wire)
		require.NoError(t, err)
		assert.Equal(t, want, parsed)
	}
}

func TestParseKindRejectsUnknown(t *testing.T) {
	for _, wire := range []string{"", "booking_deleted", "payment:refunded", "BOOKING_CREATED"} {
		_, err := ParseKind(wire)
		assert.Error(t, err, "kind %q should be rejected", wire)
	}
}

func TestValidateRequiresClubID(t *testing.T) {
	ev := validBookingEvent(KindBookingCreated)
	ev.ClubID = uuid.Nil
	assert.Error(t, ev.Validate())
}

func TestValidateRequiresMatchingPayload(t *testing.T) {
	ev := validBookingEvent(KindBookingCreated)
	ev.Booking = nil
	assert.Error(t, ev.Validate())

	pay := Event{
		ID:         uuid.New(),
		Kind:       KindPaymentConfirmed,
		ClubID:     uuid.New(),
		OccurredAt: time.Now().UTC(),
	}
	assert.Error(t, pay.Validate())

	pay.Payment = &PaymentPayload{BookingID: uuid.New(), UserID: uuid.New(), AmountCents: 100}
	assert.NoError(t, pay.Validate())
}

func TestDecodeNormalizesAliasedKind(t *testing.T) {
	ev := validBookingEvent(KindBookingCreated)
	data, err := json.Marshal(ev)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	raw["kind"] = "booking:created"
	data, err = json.Marshal(raw)
	require.NoError(t, err)

	decoded, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, KindBookingCreated, decoded.Kind)
	assert.Equal(t, ev.Booking.ID, decoded.Booking.ID)
}

func TestDecodeRejectsUnknownKind(t *testing.T) {
	ev := validBookingEvent(KindBookingCreated)
	ev.Kind = "court_repainted"
	data, err := json.Marshal(ev)
	require.NoError(t, err)

	_, err = Decode(data)
	assert.Error(t, err)
}

func TestDecodeRejectsMalformedJSON(t *testing.T) {
	_, err := Decode([]byte(`{"kind": "booking_created",`))
	assert.Error(t, err)
}

func TestFanoutDeliversToAllSinks(t *testing.T) {
	var a, b recordingSink
	fanout := NewFanout(&a, &b)

	ev := validBookingEvent(KindBookingUpdated)
	fanout.Emit(ev)

	require.Len(t, a.events, 1)
	require.Len(t, b.events, 1)
	assert.Equal(t, ev.ID, a.events[0].ID)
}

type recordingSink struct {
	events []Event
}

func (s *recordingSink) Emit(ev Event) {
	s.events = append(s.events, ev)
}
