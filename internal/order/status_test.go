package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to Status
		allowed  bool
	}{
		{StatusPending, StatusSettled, true},
		{StatusPending, StatusCanceled, true},
		{StatusPending, StatusPending, true},
		{StatusCanceled, StatusCanceled, true},
		{StatusSettled, StatusSettled, true},
		{StatusCanceled, StatusSettled, false},
		{StatusCanceled, StatusPending, false},
		{StatusSettled, StatusPending, false},
		{StatusSettled, StatusCanceled, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.allowed, tc.from.CanTransition(tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}

func TestStatusValid(t *testing.T) {
	assert.True(t, StatusPending.Valid())
	assert.True(t, StatusCanceled.Valid())
	assert.True(t, StatusSettled.Valid())
	assert.False(t, Status(0).Valid())
	assert.False(t, Status(4).Valid())
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "pending", StatusPending.String())
	assert.Equal(t, "canceled", StatusCanceled.String())
	assert.Equal(t, "settled", StatusSettled.String())
	assert.Equal(t, "unknown", Status(99).String())
}
