package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/roach88/investcrm/internal/domain"
	"github.com/roach88/investcrm/internal/resource"
)

// maxRequestBodySize limits payload sizes; every resource here is a handful
// of scalar fields.
const maxRequestBodySize = 1 << 20 // 1 MB

// resourceHandler serves one collection. The same handler code runs for all
// five resource kinds; def supplies everything kind-specific.
type resourceHandler struct {
	srv    *Server
	def    domain.Definition
	engine *resource.Engine
}

// mount registers the uniform route set for the collection.
func (h *resourceHandler) mount(r chi.Router) {
	r.Route("/"+h.def.Collection, func(r chi.Router) {
		r.Post("/", h.create)
		r.Get("/", h.list)
		r.Put("/", h.replaceAll)
		r.Patch("/", h.patchAll)
		r.Delete("/", h.deleteAll)

		r.Get("/{id}", h.get)
		r.Put("/{id}", h.replace)
		r.Patch("/{id}", h.patch)
		r.Delete("/{id}", h.delete)
	})
}

// collectionPath returns "/<collection>".
func (h *resourceHandler) collectionPath() string {
	return "/" + h.def.Collection
}

// itemPath returns "/<collection>/<id>".
func (h *resourceHandler) itemPath(id int64) string {
	return fmt.Sprintf("/%s/%d", h.def.Collection, id)
}

func (h *resourceHandler) readBody(r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBodySize))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", errBadRequest, err)
	}
	return body, nil
}

func (h *resourceHandler) pathID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("%w: id %q must be a positive integer", errBadRequest, raw)
	}
	return id, nil
}

// decodeFull parses a full-replace payload, distinguishing broken JSON
// (400) from validation failures (422).
func (h *resourceHandler) decodeFull(body []byte) (resource.Fields, error) {
	fields, err := h.def.DecodeFull(body)
	if err != nil {
		return nil, classifyDecodeError(err)
	}
	return fields, nil
}

func (h *resourceHandler) decodePatch(body []byte) (resource.Fields, error) {
	fields, err := h.def.DecodePatch(body)
	if err != nil {
		return nil, classifyDecodeError(err)
	}
	return fields, nil
}

// POST /<collection> → 201, Location header, empty body.
func (h *resourceHandler) create(w http.ResponseWriter, r *http.Request) {
	body, err := h.readBody(r)
	if err != nil {
		h.srv.writeError(w, r, err)
		return
	}
	fields, err := h.decodeFull(body)
	if err != nil {
		h.srv.writeError(w, r, err)
		return
	}

	row, err := h.engine.Create(r.Context(), fields)
	if err != nil {
		h.srv.writeError(w, r, err)
		return
	}

	w.Header().Set("Location", h.itemPath(row.ID()))
	w.WriteHeader(http.StatusCreated)
}

// GET /<collection> → 200, Content-Location header, list body.
func (h *resourceHandler) list(w http.ResponseWriter, r *http.Request) {
	rows, err := h.engine.List(r.Context())
	if err != nil {
		h.srv.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Location", h.collectionPath())
	h.srv.writeJSON(w, http.StatusOK, rows)
}

// GET /<collection>/{id} → 200 with row, or 404.
func (h *resourceHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := h.pathID(r)
	if err != nil {
		h.srv.writeError(w, r, err)
		return
	}

	row, err := h.engine.Get(r.Context(), id)
	if err != nil {
		h.srv.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Location", h.itemPath(id))
	h.srv.writeJSON(w, http.StatusOK, row)
}

// PUT /<collection>/{id} is the upsert:
//
//	201 + Location          when the id was absent
//	204 + Content-Location  when nothing changed
//	200 + Content-Location  with the updated row
func (h *resourceHandler) replace(w http.ResponseWriter, r *http.Request) {
	id, err := h.pathID(r)
	if err != nil {
		h.srv.writeError(w, r, err)
		return
	}
	body, err := h.readBody(r)
	if err != nil {
		h.srv.writeError(w, r, err)
		return
	}
	fields, err := h.decodeFull(body)
	if err != nil {
		h.srv.writeError(w, r, err)
		return
	}

	res, err := h.engine.Replace(r.Context(), id, fields)
	if err != nil {
		h.srv.writeError(w, r, err)
		return
	}

	switch res.Outcome {
	case resource.OutcomeCreated:
		w.Header().Set("Location", h.itemPath(id))
		w.WriteHeader(http.StatusCreated)
	case resource.OutcomeUnchanged:
		w.Header().Set("Content-Location", h.itemPath(id))
		w.WriteHeader(http.StatusNoContent)
	case resource.OutcomeUpdated:
		w.Header().Set("Content-Location", h.itemPath(id))
		h.srv.writeJSON(w, http.StatusOK, res.Row)
	}
}

// PATCH /<collection>/{id} → 404 / 204 / 200 with the updated row.
func (h *resourceHandler) patch(w http.ResponseWriter, r *http.Request) {
	id, err := h.pathID(r)
	if err != nil {
		h.srv.writeError(w, r, err)
		return
	}
	body, err := h.readBody(r)
	if err != nil {
		h.srv.writeError(w, r, err)
		return
	}
	fields, err := h.decodePatch(body)
	if err != nil {
		h.srv.writeError(w, r, err)
		return
	}

	res, err := h.engine.Patch(r.Context(), id, fields)
	if err != nil {
		h.srv.writeError(w, r, err)
		return
	}

	switch res.Outcome {
	case resource.OutcomeUnchanged:
		w.Header().Set("Content-Location", h.itemPath(id))
		w.WriteHeader(http.StatusNoContent)
	case resource.OutcomeUpdated:
		w.Header().Set("Content-Location", h.itemPath(id))
		h.srv.writeJSON(w, http.StatusOK, res.Row)
	}
}

// DELETE /<collection>/{id} → 204, or 404 when absent.
func (h *resourceHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := h.pathID(r)
	if err != nil {
		h.srv.writeError(w, r, err)
		return
	}

	if err := h.engine.Delete(r.Context(), id); err != nil {
		h.srv.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PUT /<collection> → 204. Applies the full field set to every row;
// no-op when the collection is empty.
func (h *resourceHandler) replaceAll(w http.ResponseWriter, r *http.Request) {
	body, err := h.readBody(r)
	if err != nil {
		h.srv.writeError(w, r, err)
		return
	}
	fields, err := h.decodeFull(body)
	if err != nil {
		h.srv.writeError(w, r, err)
		return
	}

	if err := h.engine.ReplaceAll(r.Context(), fields); err != nil {
		h.srv.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PATCH /<collection> → 204. Partial variant of replaceAll.
func (h *resourceHandler) patchAll(w http.ResponseWriter, r *http.Request) {
	body, err := h.readBody(r)
	if err != nil {
		h.srv.writeError(w, r, err)
		return
	}
	fields, err := h.decodePatch(body)
	if err != nil {
		h.srv.writeError(w, r, err)
		return
	}

	if err := h.engine.PatchAll(r.Context(), fields); err != nil {
		h.srv.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DELETE /<collection> → 204, unconditionally.
func (h *resourceHandler) deleteAll(w http.ResponseWriter, r *http.Request) {
	if err := h.engine.DeleteAll(r.Context()); err != nil {
		h.srv.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// classifyDecodeError separates syntactic failures from validation ones.
// Validation errors already carry domain.ErrValidation; anything else from
// the decoder means the body never parsed.
func classifyDecodeError(err error) error {
	if errors.Is(err, domain.ErrValidation) {
		return err
	}
	return fmt.Errorf("%w: %v", errBadRequest, err)
}
