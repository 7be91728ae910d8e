package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"luckylotto/internal/models"
)

func TestMiddlewareCountsRequests(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware())
	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	before := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/healthz", "200"))
	for range 3 {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		require.Equal(t, http.StatusOK, w.Code)
	}
	after := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/healthz", "200"))
	assert.Equal(t, 3.0, after-before)
}

func TestRecorders(t *testing.T) {
	before := testutil.ToFloat64(draws.WithLabelValues(OutcomeAccepted))
	RecordDraw(OutcomeAccepted)
	assert.Equal(t, 1.0, testutil.ToFloat64(draws.WithLabelValues(OutcomeAccepted))-before)

	before = testutil.ToFloat64(transitions.WithLabelValues("input", "animation"))
	RecordTransition(models.StateInput, models.StateAnimating)
	assert.Equal(t, 1.0, testutil.ToFloat64(transitions.WithLabelValues("input", "animation"))-before)

	SetSessions(4)
	assert.Equal(t, 4.0, testutil.ToFloat64(sessionsActive))
}

func TestHandlerExposesMetrics(t *testing.T) {
	RecordDraw(OutcomeRejected)

	w := httptest.NewRecorder()
	Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "luckylotto_draws_total")
}
