package profile

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/cashtrack/internal/http/render"
	"github.com/MrJamesThe3rd/cashtrack/internal/profile"
)

// Cache is the locally kept copy of the last fetched or saved profile.
type Cache interface {
	Profile() *profile.Profile
}

type Handler struct {
	svc   *profile.Service
	cache Cache
}

func NewHandler(svc *profile.Service, cache Cache) *Handler {
	return &Handler{svc: svc, cache: cache}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.fetch)
	r.Get("/cached", h.cached)
	r.Put("/", h.save)
}

func (h *Handler) fetch(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.Fetch(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}

	render.JSON(w, http.StatusOK, p)
}

func (h *Handler) cached(w http.ResponseWriter, _ *http.Request) {
	p := h.cache.Profile()
	if p == nil {
		render.Error(w, http.StatusNotFound, "profile not loaded")
		return
	}

	render.JSON(w, http.StatusOK, p)
}

func (h *Handler) save(w http.ResponseWriter, r *http.Request) {
	var req profile.Profile
	if !render.Decode(w, r, &req) {
		return
	}

	p, err := h.svc.Save(r.Context(), &req)
	if err != nil {
		h.fail(w, err)
		return
	}

	render.JSON(w, http.StatusOK, p)
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	if errors.Is(err, profile.ErrEmptyResponse) {
		render.Error(w, http.StatusBadGateway, err.Error())
		return
	}

	render.Fail(w, err)
}
