package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/figurine/pkg/errors"
	"github.com/matzehuels/figurine/pkg/render"
	"github.com/matzehuels/figurine/pkg/render/chart"
	"github.com/matzehuels/figurine/pkg/render/diagram"
	"github.com/matzehuels/figurine/pkg/store"
)

// ChartRequest is the body of POST /v1/charts/{kind}.
type ChartRequest struct {
	Title  string       `json:"title"`
	Series chart.Series `json:"series"`
}

// DiagramRequest is the body of POST /v1/diagrams/{kind}. Fields wins over
// Raw when both are set.
type DiagramRequest struct {
	Fields []string `json:"fields,omitempty"`
	Raw    string   `json:"raw,omitempty"`
}

// ExpandRequest is the body of POST /v1/expand.
type ExpandRequest struct {
	Markdown string `json:"markdown"`
	Slug     string `json:"slug,omitempty"`
	Mode     string `json:"mode,omitempty"`
	Refresh  bool   `json:"refresh,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleKinds(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"kinds": render.Kinds()})
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "kind")
	if kind != render.KindBar && kind != render.KindPie {
		writeError(w, r, http.StatusNotFound, string(errors.ErrCodeUnknownKind), "unknown chart kind "+kind)
		return
	}
	var req ChartRequest
	if !decode(w, r, &req) {
		return
	}
	s.renderSpec(w, r, render.Spec{Kind: kind, Title: req.Title, Series: req.Series})
}

func (s *Server) handleDiagram(w http.ResponseWriter, r *http.Request) {
	kind, ok := diagram.ParseKind(chi.URLParam(r, "kind"))
	if !ok {
		writeError(w, r, http.StatusNotFound, string(errors.ErrCodeUnknownKind), "unknown diagram kind "+chi.URLParam(r, "kind"))
		return
	}
	var req DiagramRequest
	if !decode(w, r, &req) {
		return
	}
	fields := req.Fields
	if len(fields) == 0 {
		fields = diagram.SplitFields(req.Raw)
	}
	s.renderSpec(w, r, render.Spec{Kind: string(kind), Fields: fields})
}

func (s *Server) renderSpec(w http.ResponseWriter, r *http.Request, spec render.Spec) {
	fig, hit, err := s.runner.RenderWithCacheInfo(r.Context(), spec, s.defaults)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	w.Header().Set("Content-Type", store.ContentTypeSVG)
	w.Header().Set("ETag", `"`+fig.Hash()+`"`)
	if hit {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(fig.SVG)
}

func (s *Server) handleExpand(w http.ResponseWriter, r *http.Request) {
	var req ExpandRequest
	if !decode(w, r, &req) {
		return
	}
	opts := s.defaults
	opts.Markdown = req.Markdown
	opts.Slug = req.Slug
	opts.Refresh = req.Refresh
	if req.Mode != "" {
		opts.Mode = req.Mode
	}

	res, err := s.runner.Expand(r.Context(), opts)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleFigures(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if err := errors.ValidateSlug(slug); err != nil {
		writeErr(w, r, err)
		return
	}
	recs, err := s.runner.Index.List(r.Context(), slug)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	if recs == nil {
		recs = []store.Record{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"slug": slug, "figures": recs})
}

// decode reads a JSON body, answering 400 on failure.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, r, http.StatusBadRequest, string(errors.ErrCodeInvalidFormat), "invalid JSON body: "+err.Error())
		return false
	}
	return true
}

// statusFor maps error codes to HTTP statuses.
func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeNotApplicable, errors.ErrCodeUnresolved:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeUnknownKind, errors.ErrCodeNotFound:
		return http.StatusNotFound
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidSlug, errors.ErrCodeInvalidPath:
		return http.StatusBadRequest
	case errors.ErrCodeStorage, errors.ErrCodeIndex:
		return http.StatusBadGateway
	case errors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	}
	return http.StatusInternalServerError
}

func writeErr(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	writeError(w, r, statusFor(code), string(code), errors.UserMessage(err))
}

type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, msg string) {
	var body errorBody
	body.Error.Code = code
	body.Error.Message = msg
	body.RequestID = RequestID(r.Context())
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
