package models

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequestTransitions(t *testing.T) {
	allowed := map[RequestStatus][]RequestStatus{
		RequestPending:    {RequestInProgress, RequestCancelled},
		RequestInProgress: {RequestCompleted, RequestCancelled},
	}
	all := []RequestStatus{RequestPending, RequestInProgress, RequestCompleted, RequestCancelled}
	for _, from := range all {
		for _, to := range all {
			assert.Equal(t, slices.Contains(allowed[from], to), from.CanTransition(to), "%s -> %s", from, to)
		}
	}
	assert.False(t, RequestPending.CanTransition("archived"))
}

func TestReservationTransitions(t *testing.T) {
	assert.True(t, ReservationPending.CanTransition(ReservationConfirmed))
	assert.True(t, ReservationPending.CanTransition(ReservationCancelled))
	assert.True(t, ReservationConfirmed.CanTransition(ReservationCancelled))
	assert.False(t, ReservationConfirmed.CanTransition(ReservationPending))
	assert.False(t, ReservationCancelled.CanTransition(ReservationConfirmed))
}
