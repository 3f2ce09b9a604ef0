package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	m := New()

	m.FamilyCreated()
	m.InviteCreated()
	m.InviteCreated()
	m.InviteAccepted(ResultSuccess)
	m.InviteAccepted("expired")
	m.EmailSent(true)
	m.EmailSent(false)
	m.EmailSent(false)
	m.TaskStatusChanged("approved")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.familiesCreated))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.invitesCreated))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.invitesAccepted.WithLabelValues("expired")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.emailsSent.WithLabelValues(ResultFailure)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.tasksChanged.WithLabelValues("approved")))
}

func TestHandlerExposesCollectors(t *testing.T) {
	m := New()
	m.ObserveHTTP(http.MethodGet, "/api/tasks", http.StatusOK, 20*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "family_planner_http_request_duration_seconds_count"))
	assert.True(t, strings.Contains(body, `route="/api/tasks"`))
}
