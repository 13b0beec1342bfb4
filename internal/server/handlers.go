package server

import (
	stderrors "errors"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/masonry/pkg/buildinfo"
	"github.com/matzehuels/masonry/pkg/errors"
	"github.com/matzehuels/masonry/pkg/itemset"
	"github.com/matzehuels/masonry/pkg/masonry"
	"github.com/matzehuels/masonry/pkg/store"
)

// LayoutResponse is the body of a successful POST /v1/layout.
type LayoutResponse struct {
	ID         string                      `json:"id,omitempty"`
	ItemsHash  string                      `json:"itemsHash"`
	CacheHit   bool                        `json:"cacheHit"`
	DurationMS float64                     `json:"durationMs"`
	Layout     masonry.Result[itemset.Ref] `json:"layout"`
}

// ListResponse is the body of GET /v1/layouts.
type ListResponse struct {
	Layouts []store.Summary `json:"layouts"`
}

type healthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Build: buildinfo.Current()})
}

// handleLayout lays out the posted item set. The query parameters save and
// refresh map to the pipeline options of the same name.
func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	enc, err := bodyEncoding(r.Header.Get("Content-Type"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	doc, err := itemset.Read(http.MaxBytesReader(w, r.Body, MaxBodyBytes), enc)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			err = errors.New(errors.ErrCodeInvalidInput, "request body exceeds %d bytes", MaxBodyBytes)
		}
		writeError(w, r, err)
		return
	}

	opts := s.defaults
	opts.ApplyDocument(doc)
	q := r.URL.Query()
	if opts.Save, err = queryBool(q.Get("save")); err != nil {
		writeError(w, r, err)
		return
	}
	if opts.Refresh, err = queryBool(q.Get("refresh")); err != nil {
		writeError(w, r, err)
		return
	}

	res, err := s.runner.Layout(r.Context(), doc, opts)
	if err != nil {
		s.logFailure(r, "layout failed", err)
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, LayoutResponse{
		ID:         res.ID,
		ItemsHash:  res.ItemsHash,
		CacheHit:   res.CacheHit,
		DurationMS: float64(res.Stats.LayoutTime) / float64(time.Millisecond),
		Layout:     res.Layout,
	})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	rec, err := s.runner.Record(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.logFailure(r, "get layout failed", err)
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "limit must be a non-negative integer"))
			return
		}
		limit = n
	}
	sums, err := s.runner.History(r.Context(), limit)
	if err != nil {
		s.logFailure(r, "list layouts failed", err)
		writeError(w, r, err)
		return
	}
	if sums == nil {
		sums = []store.Summary{}
	}
	writeJSON(w, http.StatusOK, ListResponse{Layouts: sums})
}

func (s *Server) logFailure(r *http.Request, msg string, err error) {
	if statusFor(err) == http.StatusInternalServerError {
		s.logger.Error(msg, "id", RequestID(r.Context()), "error", err)
	}
}

// bodyEncoding maps a Content-Type to an item-set encoding. An empty
// content type is read as JSON.
func bodyEncoding(contentType string) (itemset.Encoding, error) {
	if contentType == "" {
		return itemset.JSON, nil
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "", errors.New(errors.ErrCodeInvalidInput, "invalid content type %q", contentType)
	}
	switch mt {
	case "application/json", "text/json":
		return itemset.JSON, nil
	case "application/jsonc":
		return itemset.JSONC, nil
	case "application/yaml", "application/x-yaml", "text/yaml":
		return itemset.YAML, nil
	case "application/toml":
		return itemset.TOML, nil
	}
	return "", errors.New(errors.ErrCodeInvalidInput, "unsupported content type %q", mt)
}

func queryBool(v string) (bool, error) {
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, errors.New(errors.ErrCodeInvalidInput, "invalid boolean %q", v)
	}
	return b, nil
}
