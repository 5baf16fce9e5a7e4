package flamescale

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/flamescale/flamescale/pkg/log"
	"github.com/flamescale/flamescale/pkg/storage/inmemory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func testHandler(t *testing.T) (*TracesHandler, *Collector) {
	st := inmemory.New()
	testLogger := log.New(zaptest.NewLogger(t))
	collector := NewCollector(testLogger, st)
	querier := NewQuerier(testLogger, st)
	return NewTracesHandler(testLogger, collector, querier), collector
}

func TestTracesHandler_createTrace(t *testing.T) {
	h, _ := testHandler(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/0/traces?service=svc1", strings.NewReader(testTraceFile))

	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp jsonResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	body := resp.Body.(map[string]interface{})
	assert.Equal(t, "svc1", body["service"])
	assert.Equal(t, float64(2), body["num_profiles"])
	assert.NotEmpty(t, body["trace_id"])
}

func TestTracesHandler_createTrace_missingService(t *testing.T) {
	h, _ := testHandler(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/0/traces", strings.NewReader(testTraceFile))

	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTracesHandler_createTrace_malformedBody(t *testing.T) {
	h, _ := testHandler(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/0/traces?service=svc1", strings.NewReader("not json"))

	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTracesHandler_getFlamegraph(t *testing.T) {
	h, collector := testHandler(t)
	tid := storeTestTrace(t, collector)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/0/traces/"+tid.String()+"/flamegraph?index=1&sort=left-heavy&inverted=true", nil)

	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp jsonResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	body := resp.Body.(map[string]interface{})
	assert.Equal(t, true, body["inverted"])
	assert.Equal(t, "left-heavy", body["sort"])
	assert.Equal(t, float64(1), body["profile_index"])
}

func TestTracesHandler_getFlamegraph_invalidSortPairing(t *testing.T) {
	h, collector := testHandler(t)
	tid := storeTestTrace(t, collector)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/0/traces/"+tid.String()+"/flamegraph?index=0&sort=alphabetical", nil)

	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTracesHandler_getFlamegraph_badID(t *testing.T) {
	h, _ := testHandler(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/0/traces/not-an-id/flamegraph", nil)

	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTracesHandler_findTraces(t *testing.T) {
	h, collector := testHandler(t)
	storeTestTrace(t, collector)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/0/traces?service=svc1", nil)

	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp jsonResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Len(t, resp.Body.([]interface{}), 1)
}

func TestTracesHandler_findTraces_unknownService(t *testing.T) {
	h, _ := testHandler(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/0/traces?service=unknown", nil)

	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
