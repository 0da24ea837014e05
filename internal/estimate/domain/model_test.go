package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to EstimateStatus
		ok       bool
	}{
		{StatusDraft, StatusSent, true},
		{StatusDraft, StatusRejected, true},
		{StatusDraft, StatusApproved, false},
		{StatusDraft, StatusInvoiced, false},
		{StatusSent, StatusApproved, true},
		{StatusSent, StatusRejected, true},
		{StatusSent, StatusWorkOrder, false},
		{StatusApproved, StatusWorkOrder, true},
		{StatusApproved, StatusRejected, false},
		{StatusWorkOrder, StatusInvoiced, true},
		{StatusInvoiced, StatusDraft, false},
		{StatusRejected, StatusSent, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.ok, tc.from.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestStatusEditable(t *testing.T) {
	assert.True(t, StatusDraft.Editable())
	assert.True(t, StatusSent.Editable())
	assert.False(t, StatusApproved.Editable())
	assert.False(t, StatusWorkOrder.Editable())
	assert.False(t, StatusInvoiced.Editable())
	assert.False(t, StatusRejected.Editable())
}
