package service

import (
	"github.com/feedbackhub/feedbackhub/shared/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	issuesCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "feedbackhub",
		Name:      "issues_created_total",
		Help:      "Total number of issues created",
	})

	issueSecondsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "feedbackhub",
		Name:      "issue_seconds_total",
		Help:      "Second attempts by outcome",
	}, []string{"result"})
)

// secondResult is "ok" for a recorded second and the error kind otherwise.
func secondResult(err error) string {
	if err == nil {
		return "ok"
	}
	if e, ok := errors.As(err); ok {
		return string(e.Kind)
	}
	return string(errors.KindInternal)
}
