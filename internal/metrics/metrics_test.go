package metrics

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveSettlement(t *testing.T) {
	before := testutil.ToFloat64(settlements.WithLabelValues("buy", "product", "completed"))
	ObserveSettlement("buy", "product", "completed", 10*time.Millisecond)
	after := testutil.ToFloat64(settlements.WithLabelValues("buy", "product", "completed"))
	assert.Equal(t, before+1, after)
}

func TestObserveSettlement_BoundsCallerLabels(t *testing.T) {
	invalid := settlements.WithLabelValues(invalidLabel, invalidLabel, "invalid_request")
	before := testutil.ToFloat64(invalid)
	seriesBefore := testutil.CollectAndCount(settlements)
	durationsBefore := testutil.CollectAndCount(settlementDuration)

	for i := 0; i < 200; i++ {
		junk := fmt.Sprintf("junk-%d", i)
		ObserveSettlement(junk, junk, "invalid_request", time.Millisecond)
	}
	ObserveSettlement("buy", "tractor", "made_up_outcome", time.Millisecond)

	assert.Equal(t, before+200, testutil.ToFloat64(invalid))
	assert.LessOrEqual(t, testutil.CollectAndCount(settlements), seriesBefore+2)
	assert.LessOrEqual(t, testutil.CollectAndCount(settlementDuration), durationsBefore+2)
	assert.Equal(t, float64(1), testutil.ToFloat64(settlements.WithLabelValues("buy", invalidLabel, invalidLabel)))
}

func TestAddSettledAmount_IgnoresNonPositive(t *testing.T) {
	before := testutil.ToFloat64(settledAmount.WithLabelValues("rent"))
	AddSettledAmount("rent", 0)
	AddSettledAmount("rent", 600)
	assert.Equal(t, before+600, testutil.ToFloat64(settledAmount.WithLabelValues("rent")))
}

func TestInstrumentHandler_UsesRouteTemplate(t *testing.T) {
	r := mux.NewRouter()
	r.Use(InstrumentHandler)
	r.HandleFunc("/lease/update-status/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	counter := httpRequests.WithLabelValues("PATCH", "/lease/update-status/{id}", "404")
	before := testutil.ToFloat64(counter)

	req := httptest.NewRequest(http.MethodPatch, "/lease/update-status/42", nil)
	r.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}

func TestHandler_ServesRegistry(t *testing.T) {
	RecordJobRun("release-expired-leases", true)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "krishimitra_jobs_runs_total")
}
