package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/MKhiriev/go-tours/internal/query"
	"github.com/MKhiriev/go-tours/internal/service"
	"github.com/MKhiriev/go-tours/internal/utils"
	"github.com/MKhiriev/go-tours/internal/validators"
	"github.com/go-chi/chi/v5"
)

// resourceHandler serves the CRUD routes of one resource.
type resourceHandler[T any] struct {
	h   *Handler
	svc service.ResourceService[T]

	// scope returns the filters a nested route adds to every list query.
	scope func(r *http.Request) ([]query.Condition, error)

	// prepare fills defaults of a record being created from the request.
	prepare func(r *http.Request, rec *T) error
}

func newResourceHandler[T any](h *Handler, svc service.ResourceService[T]) *resourceHandler[T] {
	return &resourceHandler[T]{h: h, svc: svc}
}

func (rh *resourceHandler[T]) list(w http.ResponseWriter, r *http.Request) {
	var scope []query.Condition
	if rh.scope != nil {
		var err error
		if scope, err = rh.scope(r); err != nil {
			writeError(w, r, err)
			return
		}
	}

	spec, err := query.Parse(r.URL.Query(), scope...)
	if err != nil {
		writeError(w, r, err)
		return
	}

	records, err := rh.svc.List(r.Context(), spec)
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := make([]map[string]any, 0, len(records))
	for _, rec := range records {
		view, err := rh.render(rec, spec.Projection)
		if err != nil {
			writeError(w, r, err)
			return
		}
		out = append(out, view)
	}

	writeList(w, r, len(out), map[string]any{rh.svc.Name() + "s": out})
}

func (rh *resourceHandler[T]) get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	rec, err := rh.svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	rh.writeOne(w, r, http.StatusOK, rec)
}

func (rh *resourceHandler[T]) create(w http.ResponseWriter, r *http.Request) {
	var rec T
	if err := rh.h.decodeJSON(w, r, &rec); err != nil {
		writeError(w, r, err)
		return
	}

	if rh.prepare != nil {
		if err := rh.prepare(r, &rec); err != nil {
			writeError(w, r, err)
			return
		}
	}

	created, err := rh.svc.Create(r.Context(), rec)
	if err != nil {
		writeError(w, r, err)
		return
	}

	rh.writeOne(w, r, http.StatusCreated, created)
}

func (rh *resourceHandler[T]) update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	body, err := rh.h.readBody(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	updated, err := rh.svc.Update(r.Context(), id, body)
	if err != nil {
		writeError(w, r, err)
		return
	}

	rh.writeOne(w, r, http.StatusOK, updated)
}

func (rh *resourceHandler[T]) delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := rh.svc.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteNoContent(w, http.StatusNoContent)
}

func (rh *resourceHandler[T]) writeOne(w http.ResponseWriter, r *http.Request, status int, rec T) {
	view, err := rh.render(rec, query.Projection{})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeSuccess(w, r, status, map[string]any{rh.svc.Name(): view})
}

// render converts rec to its JSON object and drops the schema fields the
// projection does not keep. Keys outside the schema, such as populated
// relations, are kept.
func (rh *resourceHandler[T]) render(rec T, p query.Projection) (map[string]any, error) {
	raw, err := json.Marshal(rec)
	if err != nil {
		return nil, err
	}

	var view map[string]any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&view); err != nil {
		return nil, err
	}

	schema := rh.svc.Schema()
	visible := make(map[string]bool)
	for _, name := range schema.Visible(p) {
		visible[name] = true
	}
	for key := range view {
		if schema.Has(key) && !visible[key] {
			delete(view, key)
		}
	}
	return view, nil
}

func pathID(r *http.Request, param string) (int64, error) {
	raw := chi.URLParam(r, param)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, validators.FieldError(param, "Invalid "+param+": "+raw)
	}
	return id, nil
}
