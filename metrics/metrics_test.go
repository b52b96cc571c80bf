// SPDX-License-Identifier: GPL-3.0-only

package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveSTKPush(t *testing.T) {
	before := STKPushCount(OutcomePushError)
	ObserveSTKPush(OutcomePushError)
	ObserveSTKPush(OutcomePushError)
	assert.Equal(t, before+2, STKPushCount(OutcomePushError))
}

func TestObserveRentReminder(t *testing.T) {
	before := RentReminderCount("sent")
	ObserveRentReminder("sent")
	assert.Equal(t, before+1, RentReminderCount("sent"))
}

func TestRegistryExposesCollectors(t *testing.T) {
	ObserveMpesaRequest(StepToken, 120*time.Millisecond)

	count, err := testutil.GatherAndCount(Registry, "rentdesk_mpesa_request_duration_seconds")
	assert.NoError(t, err)
	assert.Equal(t, 1, count)

	problems, err := testutil.GatherAndLint(Registry)
	assert.NoError(t, err)
	assert.Empty(t, problems)
}
