// SPDX-License-Identifier: GPL-3.0-only

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OutcomeSuccess    = "success"
	OutcomeTokenError = "token_error"
	OutcomePushError  = "push_error"

	StepToken = "token"
	StepPush  = "push"

	ReminderSent   = "sent"
	ReminderFailed = "failed"
)

// Registry holds every rentdesk collector; expose it with promhttp.HandlerFor.
var Registry = prometheus.NewRegistry()

var (
	stkPushTotal = promauto.With(Registry).NewCounterVec(prometheus.CounterOpts{
		Name: "rentdesk_mpesa_stk_push_total",
		Help: "STK push invocations by outcome",
	}, []string{"outcome"})

	mpesaRequestDuration = promauto.With(Registry).NewHistogramVec(prometheus.HistogramOpts{
		Name:    "rentdesk_mpesa_request_duration_seconds",
		Help:    "Duration of outbound M-Pesa API calls",
		Buckets: prometheus.DefBuckets,
	}, []string{"step"})

	rentRemindersTotal = promauto.With(Registry).NewCounterVec(prometheus.CounterOpts{
		Name: "rentdesk_rent_reminders_total",
		Help: "Rent reminder emails by result",
	}, []string{"result"})
)

func ObserveSTKPush(outcome string) {
	stkPushTotal.WithLabelValues(outcome).Inc()
}

func ObserveMpesaRequest(step string, duration time.Duration) {
	mpesaRequestDuration.WithLabelValues(step).Observe(duration.Seconds())
}

func ObserveRentReminder(result string) {
	rentRemindersTotal.WithLabelValues(result).Inc()
}

// STKPushCount reads the current counter value for outcome.
func STKPushCount(outcome string) float64 {
	return counterValue(stkPushTotal.WithLabelValues(outcome))
}

func RentReminderCount(result string) float64 {
	return counterValue(rentRemindersTotal.WithLabelValues(result))
}
