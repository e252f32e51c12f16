package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"netplan-parser/internal/domain"
	"netplan-parser/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticSource struct {
	np *service.NetPlan
}

func (s staticSource) Current() *service.NetPlan { return s.np }

func scenarioNetPlan(t *testing.T) *service.NetPlan {
	t.Helper()
	reg, err := domain.Build([]domain.RawDocument{{
		Filename: "01-netcfg.yaml",
		Content: map[string]any{"network": map[string]any{
			"version":   2,
			"ethernets": map[string]any{"eno1": map[string]any{"dhcp4": false}},
			"bridges":   map[string]any{"br0": map[string]any{"interfaces": []any{"eno1", "eno2"}}},
			"vlans":     map[string]any{"eno2.617": map[string]any{"id": 617, "link": "eno2"}},
		}},
	}})
	require.NoError(t, err)
	return service.New(reg)
}

func newTestMux(t *testing.T, strict bool) *http.ServeMux {
	t.Helper()
	mux := http.NewServeMux()
	NewNetplanHandler(staticSource{np: scenarioNetPlan(t)}, strict).Register(mux)
	return mux
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func decodeResult(t *testing.T, rec *httptest.ResponseRecorder) domain.QueryResult {
	t.Helper()
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var result domain.QueryResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	return result
}

func TestListInterfaces(t *testing.T) {
	mux := newTestMux(t, true)

	result := decodeResult(t, get(t, mux, "/api/interfaces"))
	assert.Equal(t, []string{"br0", "eno1", "eno2.617"}, result.Names())

	result = decodeResult(t, get(t, mux, "/api/interfaces?name=eno1&name=br0"))
	assert.Equal(t, []string{"br0", "eno1"}, result.Names())
}

func TestGetInterface(t *testing.T) {
	mux := newTestMux(t, true)

	rec := get(t, mux, "/api/interfaces/eno2.617")
	require.Equal(t, http.StatusOK, rec.Code)
	var got domain.InterfaceRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, domain.SectionVLANs, got.Section)
	assert.Equal(t, "eno2", got.Data["link"])
	assert.Equal(t, "01-netcfg.yaml", got.SourceFile)

	rec = get(t, mux, "/api/interfaces/eno2")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	var errResp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
	assert.Equal(t, "Not found", errResp.Error)
	assert.Contains(t, errResp.Details, "eno2")
}

func TestRelatedAndPhysical(t *testing.T) {
	t.Run("strict", func(t *testing.T) {
		mux := newTestMux(t, true)

		result := decodeResult(t, get(t, mux, "/api/interfaces/eno1/related"))
		assert.Equal(t, []string{"br0", "eno1"}, result.Names())

		result = decodeResult(t, get(t, mux, "/api/interfaces/br0/physical"))
		assert.Equal(t, []string{"eno1"}, result.Names())
		assert.Equal(t, domain.PhysicalSections(), result.PhysicalKinds)

		assert.Equal(t, http.StatusNotFound, get(t, mux, "/api/interfaces/eno2/related").Code)
	})

	t.Run("lenient", func(t *testing.T) {
		mux := newTestMux(t, false)

		result := decodeResult(t, get(t, mux, "/api/interfaces/eno2/related"))
		assert.Equal(t, []string{"br0", "eno1", "eno2.617"}, result.Names())
	})
}

func TestListRelations(t *testing.T) {
	rec := get(t, newTestMux(t, true), "/api/relations")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp RelationsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.ElementsMatch(t, []domain.Relation{
		{From: "br0", To: "eno1", Kind: domain.RelationMember},
		{From: "br0", To: "eno2", Kind: domain.RelationMember},
		{From: "eno2.617", To: "eno2", Kind: domain.RelationLink},
	}, resp.Relations)
}

func TestExport(t *testing.T) {
	mux := newTestMux(t, true)

	rec := get(t, mux, "/api/export?format=names&query=related&name=eno1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "br0 eno1\n", rec.Body.String())
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/plain"))

	rec = get(t, mux, "/api/export?format=netplan&name=eno1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/x-yaml", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "ethernets:")

	assert.Equal(t, http.StatusBadRequest, get(t, mux, "/api/export?format=xml").Code)
	assert.Equal(t, http.StatusBadRequest, get(t, mux, "/api/export?query=everything").Code)
	assert.Equal(t, http.StatusBadRequest, get(t, mux, "/api/export?query=related").Code)
	assert.Equal(t, http.StatusNotFound, get(t, mux, "/api/export?name=nope").Code)
}

func TestHealth(t *testing.T) {
	rec := get(t, newTestMux(t, true), "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)
	var health HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	assert.Equal(t, HealthResponse{Status: "ok", Interfaces: 3}, health)
}

func TestNotLoaded(t *testing.T) {
	mux := http.NewServeMux()
	NewNetplanHandler(staticSource{}, true).Register(mux)

	assert.Equal(t, http.StatusServiceUnavailable, get(t, mux, "/healthz").Code)
	assert.Equal(t, http.StatusServiceUnavailable, get(t, mux, "/api/interfaces").Code)
}

type countingObserver struct {
	codes []int
}

func (o *countingObserver) ObserveRequest(method string, code int, seconds float64) {
	o.codes = append(o.codes, code)
}

func TestMetricsMiddleware(t *testing.T) {
	obs := &countingObserver{}
	h := Chain(newTestMux(t, true), Metrics(obs))

	get(t, h, "/healthz")
	get(t, h, "/api/interfaces/nope")
	assert.Equal(t, []int{http.StatusOK, http.StatusNotFound}, obs.codes)
}

func TestMiddleware(t *testing.T) {
	panicky := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	h := Chain(panicky, Recover, Logger)
	rec := get(t, h, "/")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	h = Chain(newTestMux(t, true), Recover, Logger)
	assert.Equal(t, http.StatusOK, get(t, h, "/healthz").Code)
}
