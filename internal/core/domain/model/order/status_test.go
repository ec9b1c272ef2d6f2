package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusString(t *testing.T) {
	tests := map[string]struct {
		status Status
		want   string
	}{
		"unknown":          {Unknown, "Unknown"},
		"pending":          {Pending, "Pending"},
		"accepted":         {Accepted, "Accepted"},
		"preparing":        {Preparing, "Preparing"},
		"ready":            {Ready, "Ready"},
		"weight review":    {WeightReview, "WeightReview"},
		"partially denied": {PartiallyDenied, "PartiallyDenied"},
		"picked up":        {PickedUp, "PickedUp"},
		"completed":        {Completed, "Completed"},
		"denied":           {Denied, "Denied"},
		"cancelled":        {Cancelled, "Cancelled"},
		"auto cancelled":   {AutoCancelled, "AutoCancelled"},
		"out of range":     {Status(99), "Unknown"},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, test.want, test.status.String())
		})
	}
}

func TestStatusValidate(t *testing.T) {
	for s := Pending; s <= AutoCancelled; s++ {
		assert.NoError(t, s.Validate(), s.String())
	}
	assert.Error(t, Unknown.Validate())
	assert.Error(t, Status(-1).Validate())
	assert.Error(t, Status(99).Validate())
}

func TestStatusIsTerminal(t *testing.T) {
	terminal := []Status{Completed, Denied, Cancelled, AutoCancelled}
	for _, s := range terminal {
		assert.True(t, s.IsTerminal(), s.String())
	}

	open := []Status{Pending, Accepted, Preparing, Ready, WeightReview, PartiallyDenied, PickedUp}
	for _, s := range open {
		assert.False(t, s.IsTerminal(), s.String())
	}
}

func TestStatusIsKitchenOpen(t *testing.T) {
	assert.True(t, Pending.IsKitchenOpen())
	assert.True(t, Accepted.IsKitchenOpen())
	assert.True(t, Preparing.IsKitchenOpen())
	assert.True(t, Ready.IsKitchenOpen())

	assert.False(t, WeightReview.IsKitchenOpen())
	assert.False(t, PartiallyDenied.IsKitchenOpen())
	assert.False(t, PickedUp.IsKitchenOpen())
	assert.False(t, Completed.IsKitchenOpen())
}

func TestStatusHappyPathWalk(t *testing.T) {
	s := Pending

	s, err := s.Accept()
	assert.NoError(t, err)
	assert.Equal(t, Accepted, s)

	s, err = s.StartPreparing()
	assert.NoError(t, err)
	assert.Equal(t, Preparing, s)

	s, err = s.MarkReady()
	assert.NoError(t, err)
	assert.Equal(t, Ready, s)

	s, err = s.ConfirmPickup()
	assert.NoError(t, err)
	assert.Equal(t, PickedUp, s)

	s, err = s.Complete()
	assert.NoError(t, err)
	assert.Equal(t, Completed, s)
	assert.True(t, s.IsTerminal())
}

func TestStatusMarkReadySkipsPreparing(t *testing.T) {
	s, err := Accepted.MarkReady()
	assert.NoError(t, err)
	assert.Equal(t, Ready, s)
}

func TestStatusStockIssueBranch(t *testing.T) {
	s, err := Pending.FlagUnavailable()
	assert.NoError(t, err)
	assert.Equal(t, PartiallyDenied, s)

	resumed, err := s.Resolve(false)
	assert.NoError(t, err)
	assert.Equal(t, Accepted, resumed)

	cancelled, err := s.Resolve(true)
	assert.NoError(t, err)
	assert.Equal(t, Cancelled, cancelled)
}

func TestStatusWeightReviewBranch(t *testing.T) {
	for _, prior := range []Status{Accepted, Preparing, Ready} {
		s, err := prior.EnterWeightReview()
		assert.NoError(t, err, prior.String())
		assert.Equal(t, WeightReview, s)

		resumed, err := s.ResumeFromWeightReview(prior)
		assert.NoError(t, err)
		assert.Equal(t, prior, resumed)
	}

	s, err := WeightReview.RejectNewPrice()
	assert.NoError(t, err)
	assert.Equal(t, Cancelled, s)

	_, err = WeightReview.ResumeFromWeightReview(Pending)
	assert.Error(t, err)
}

func TestStatusIllegalTransitions(t *testing.T) {
	tests := map[string]error{}

	_, tests["accept from ready"] = Ready.Accept()
	_, tests["accept from denied"] = Denied.Accept()
	_, tests["deny from accepted"] = Accepted.Deny()
	_, tests["flag from preparing"] = Preparing.FlagUnavailable()
	_, tests["resolve from pending"] = Pending.Resolve(false)
	_, tests["start preparing from pending"] = Pending.StartPreparing()
	_, tests["start preparing from ready"] = Ready.StartPreparing()
	_, tests["mark ready from pending"] = Pending.MarkReady()
	_, tests["confirm pickup from preparing"] = Preparing.ConfirmPickup()
	_, tests["complete from ready"] = Ready.Complete()
	_, tests["auto cancel from accepted"] = Accepted.AutoCancel()
	_, tests["weight review from pending"] = Pending.EnterWeightReview()
	_, tests["reject price from ready"] = Ready.RejectNewPrice()
	_, tests["cancel from picked up"] = PickedUp.CancelByCustomer()
	_, tests["cancel from completed"] = Completed.CancelByCustomer()
	tests["add time from ready"] = Ready.ValidateAddTime()

	for name, err := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, err)
		})
	}
}

func TestStatusTerminalStatesRejectEverything(t *testing.T) {
	for _, s := range []Status{Completed, Denied, Cancelled, AutoCancelled} {
		_, err := s.Accept()
		assert.Error(t, err, s.String())
		_, err = s.CancelByCustomer()
		assert.Error(t, err, s.String())
		_, err = s.ConfirmPickup()
		assert.Error(t, err, s.String())
		_, err = s.EnterWeightReview()
		assert.Error(t, err, s.String())
	}
}

func TestStatusCustomerCancellable(t *testing.T) {
	for _, s := range []Status{Pending, PartiallyDenied, WeightReview} {
		next, err := s.CancelByCustomer()
		assert.NoError(t, err, s.String())
		assert.Equal(t, Cancelled, next)
	}

	for _, s := range []Status{Accepted, Preparing, Ready, PickedUp} {
		_, err := s.CancelByCustomer()
		assert.Error(t, err, s.String())
	}
}
