package handler

import (
	"bytes"
	"encoding/json"
	"net/http"

	"netplan-parser/internal/codec"
	"netplan-parser/internal/domain"
	"netplan-parser/internal/errs"
	"netplan-parser/internal/logging"
	"netplan-parser/internal/service"
)

// Source provides the NetPlan to answer from.
type Source interface {
	Current() *service.NetPlan
}

// NetplanHandler handles the netplan query API
type NetplanHandler struct {
	source Source
	strict bool
	log    *logging.Logger
}

// NewNetplanHandler creates a handler. With strict set, asking for an
// undeclared interface is a 404 even in list queries.
func NewNetplanHandler(source Source, strict bool) *NetplanHandler {
	return &NetplanHandler{
		source: source,
		strict: strict,
		log:    logging.WithComponent("http"),
	}
}

// Error response structure
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// HealthResponse is returned by the health endpoint
type HealthResponse struct {
	Status     string `json:"status"`
	Interfaces int    `json:"interfaces"`
}

// RelationsResponse lists the references between interfaces
type RelationsResponse struct {
	Relations []domain.Relation `json:"relations"`
}

// Register adds the API routes to mux.
func (h *NetplanHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/interfaces", h.ListInterfaces)
	mux.HandleFunc("GET /api/interfaces/{name}", h.GetInterface)
	mux.HandleFunc("GET /api/interfaces/{name}/related", h.GetRelated)
	mux.HandleFunc("GET /api/interfaces/{name}/physical", h.GetPhysical)
	mux.HandleFunc("GET /api/relations", h.ListRelations)
	mux.HandleFunc("GET /api/export", h.Export)
	mux.HandleFunc("GET /healthz", h.Health)
}

// ListInterfaces returns every interface, or only those named by the
// repeated name query parameter
func (h *NetplanHandler) ListInterfaces(w http.ResponseWriter, r *http.Request) {
	h.query(w, r, service.QueryShow, r.URL.Query()["name"])
}

// GetInterface returns a single interface record
func (h *NetplanHandler) GetInterface(w http.ResponseWriter, r *http.Request) {
	np, ok := h.current(w)
	if !ok {
		return
	}

	name := r.PathValue("name")
	rec, found := np.Registry().Get(name)
	if !found {
		h.writeFailure(w, errs.NotFound("interface %s not found", name))
		return
	}
	h.writeJSON(w, rec, http.StatusOK)
}

// GetRelated returns the relationship closure of one interface
func (h *NetplanHandler) GetRelated(w http.ResponseWriter, r *http.Request) {
	h.query(w, r, service.QueryRelated, []string{r.PathValue("name")})
}

// GetPhysical returns the physical devices related to one interface
func (h *NetplanHandler) GetPhysical(w http.ResponseWriter, r *http.Request) {
	h.query(w, r, service.QueryPhysical, []string{r.PathValue("name")})
}

// ListRelations returns every link and member reference
func (h *NetplanHandler) ListRelations(w http.ResponseWriter, r *http.Request) {
	np, ok := h.current(w)
	if !ok {
		return
	}
	h.writeJSON(w, RelationsResponse{Relations: np.Registry().Relations()}, http.StatusOK)
}

// Export renders a query result with one of the output codecs. Query
// parameters: format (default yaml), query (show, related or physical;
// default show) and repeated name.
func (h *NetplanHandler) Export(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	format := params.Get("format")
	if format == "" {
		format = codec.FormatYAML
	}
	exporter, err := codec.ForFormat(format)
	if err != nil {
		h.writeFailure(w, err)
		return
	}

	kindName := params.Get("query")
	if kindName == "" {
		kindName = string(service.QueryShow)
	}
	kind, err := service.ParseQueryKind(kindName)
	if err != nil {
		h.writeFailure(w, err)
		return
	}

	np, ok := h.current(w)
	if !ok {
		return
	}
	result, err := np.Query(kind, params["name"], h.strict)
	if err != nil {
		h.writeFailure(w, err)
		return
	}

	// Render fully before writing so failures can still be reported
	var buf bytes.Buffer
	if err := exporter.Export(result, &buf); err != nil {
		h.writeFailure(w, err)
		return
	}

	w.Header().Set("Content-Type", contentType(format))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.log.Warn("Failed to write export", "error", err)
	}
}

// Health reports whether a configuration is loaded
func (h *NetplanHandler) Health(w http.ResponseWriter, r *http.Request) {
	np := h.source.Current()
	if np == nil {
		h.writeJSON(w, HealthResponse{Status: "loading"}, http.StatusServiceUnavailable)
		return
	}
	h.writeJSON(w, HealthResponse{Status: "ok", Interfaces: np.Registry().Len()}, http.StatusOK)
}

func (h *NetplanHandler) query(w http.ResponseWriter, r *http.Request, kind service.QueryKind, names []string) {
	np, ok := h.current(w)
	if !ok {
		return
	}

	result, err := np.Query(kind, names, h.strict)
	if err != nil {
		h.writeFailure(w, err)
		return
	}
	h.writeJSON(w, result, http.StatusOK)
}

func (h *NetplanHandler) current(w http.ResponseWriter) (*service.NetPlan, bool) {
	np := h.source.Current()
	if np == nil {
		h.writeError(w, "Configuration not loaded", "", http.StatusServiceUnavailable)
		return nil, false
	}
	return np, true
}

// Helper methods

func (h *NetplanHandler) writeJSON(w http.ResponseWriter, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Warn("Failed to encode JSON", "error", err)
	}
}

func (h *NetplanHandler) writeError(w http.ResponseWriter, error, details string, statusCode int) {
	h.writeJSON(w, ErrorResponse{Error: error, Details: details}, statusCode)
}

// writeFailure maps the error kind to a status code
func (h *NetplanHandler) writeFailure(w http.ResponseWriter, err error) {
	kind, _ := errs.KindOf(err)
	switch kind {
	case errs.KindNotFound:
		h.writeError(w, "Not found", err.Error(), http.StatusNotFound)
	case errs.KindInvalid:
		h.writeError(w, "Invalid request", err.Error(), http.StatusBadRequest)
	default:
		h.log.Error("Request failed", "error", err)
		h.writeError(w, "Internal error", err.Error(), http.StatusInternalServerError)
	}
}

func contentType(format string) string {
	switch format {
	case codec.FormatJSON:
		return "application/json"
	case codec.FormatYAML, codec.FormatNetplan:
		return "application/x-yaml"
	default:
		return "text/plain; charset=utf-8"
	}
}
