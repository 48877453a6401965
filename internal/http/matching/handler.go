package matching

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/cashtrack/internal/http/render"
	"github.com/MrJamesThe3rd/cashtrack/internal/matching"
)

type Handler struct {
	svc *matching.Service
}

func NewHandler(svc *matching.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/suggest", h.suggest)
	r.Post("/", h.learn)
}

type suggestResponse struct {
	RawDescription       string `json:"raw_description"`
	PreferredDescription string `json:"preferred_description"`
}

func (h *Handler) suggest(w http.ResponseWriter, r *http.Request) {
	rawDesc := r.URL.Query().Get("raw_description")
	if rawDesc == "" {
		render.Error(w, http.StatusBadRequest, "raw_description query parameter is required")
		return
	}

	preferred, err := h.svc.Suggest(r.Context(), rawDesc)
	if err != nil {
		render.Fail(w, err)
		return
	}

	render.JSON(w, http.StatusOK, suggestResponse{
		RawDescription:       rawDesc,
		PreferredDescription: preferred,
	})
}

type learnRequest struct {
	RawPattern           string `json:"raw_pattern"`
	PreferredDescription string `json:"preferred_description"`
}

func (h *Handler) learn(w http.ResponseWriter, r *http.Request) {
	var req learnRequest
	if !render.Decode(w, r, &req) {
		return
	}

	if err := h.svc.Learn(r.Context(), req.RawPattern, req.PreferredDescription); err != nil {
		render.Fail(w, err, matching.ErrEmptyRule)
		return
	}

	w.WriteHeader(http.StatusCreated)
}
