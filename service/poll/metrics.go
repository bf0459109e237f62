package poll

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	pollsStarted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "judgewatch",
		Subsystem: "poll",
		Name:      "started_total",
		Help:      "Number of polls started.",
	})
	pollsActive = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "judgewatch",
		Subsystem: "poll",
		Name:      "active",
		Help:      "Number of polls currently running.",
	})
	pollAttempts = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "judgewatch",
		Subsystem: "poll",
		Name:      "attempts_total",
		Help:      "Number of status requests issued by polls.",
	})
	pollOutcomes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "judgewatch",
		Subsystem: "poll",
		Name:      "outcomes_total",
		Help:      "Number of settled polls by outcome.",
	}, []string{"outcome"})
)

func outcomeLabel(err error) string {
	switch {
	case err == nil:
		return "result"
	case errors.Is(err, ErrTimedOut):
		return "timed_out"
	case errors.Is(err, context.Canceled):
		return "cancelled"
	default:
		return "failed"
	}
}

func init() {
	prometheus.MustRegister(pollsStarted, pollsActive, pollAttempts, pollOutcomes)
}
