package metrics

import (
	"errors"
	"testing"

	"streamhub-backend/internal/domain"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestTransitionAndRejectionCounters(t *testing.T) {
	m := New()
	m.Transition("rental", "pending", "approved")
	m.Transition("rental", "pending", "approved")
	m.Rejected("apply", domain.ErrRoleMismatch)
	m.Rejected("apply", errors.New("db down"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.transitions.WithLabelValues("rental", "pending", "approved")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.rejections.WithLabelValues("apply", "role_mismatch")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.rejections.WithLabelValues("apply", "internal")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.Transition("listing", "pending", "approved")
		m.Rejected("moderate", domain.ErrAuthorization)
		m.RateLimited()
	})
}
