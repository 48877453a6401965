package auth

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/cashtrack/internal/auth"
	"github.com/MrJamesThe3rd/cashtrack/internal/http/render"
)

var validationErrors = []error{
	auth.ErrMissingEmail,
	auth.ErrMissingPassword,
	auth.ErrMissingName,
	auth.ErrMissingCode,
}

type Handler struct {
	svc *auth.Service
}

func NewHandler(svc *auth.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/status", h.status)
	r.Post("/login", h.login)
	r.Post("/register", h.register)
	r.Post("/verify-email", h.verifyEmail)
	r.Post("/forgot-password", h.forgotPassword)
	r.Post("/reset-password", h.resetPassword)
	r.Post("/logout", h.logout)
}

type request struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Code     string `json:"code"`
}

type statusResponse struct {
	Authenticated bool `json:"authenticated"`
	Mock          bool `json:"mock"`
}

func (h *Handler) status(w http.ResponseWriter, _ *http.Request) {
	render.JSON(w, http.StatusOK, statusResponse{
		Authenticated: h.svc.Authenticated(),
		Mock:          h.svc.IsMock(),
	})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req request
	if !render.Decode(w, r, &req) {
		return
	}

	resp, err := h.svc.Login(r.Context(), req.Email, req.Password)
	h.respond(w, resp, err, auth.ErrNoToken)
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req request
	if !render.Decode(w, r, &req) {
		return
	}

	resp, err := h.svc.Register(r.Context(), req.Email, req.Password, req.Name)
	h.respond(w, resp, err)
}

func (h *Handler) verifyEmail(w http.ResponseWriter, r *http.Request) {
	var req request
	if !render.Decode(w, r, &req) {
		return
	}

	resp, err := h.svc.VerifyEmail(r.Context(), req.Email, req.Code)
	h.respond(w, resp, err)
}

func (h *Handler) forgotPassword(w http.ResponseWriter, r *http.Request) {
	var req request
	if !render.Decode(w, r, &req) {
		return
	}

	resp, err := h.svc.ForgotPassword(r.Context(), req.Email)
	h.respond(w, resp, err)
}

func (h *Handler) resetPassword(w http.ResponseWriter, r *http.Request) {
	var req request
	if !render.Decode(w, r, &req) {
		return
	}

	resp, err := h.svc.ResetPassword(r.Context(), req.Email, req.Code, req.Password)
	h.respond(w, resp, err)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Logout(r.Context()); err != nil {
		slog.Warn("failed to persist session", "error", err)
	}

	w.WriteHeader(http.StatusNoContent)
}

// respond relays the auth response verbatim.
func (h *Handler) respond(w http.ResponseWriter, resp auth.Response, err error, extra ...error) {
	if err != nil {
		render.Fail(w, err, append(validationErrors, extra...)...)
		return
	}

	if resp == nil {
		resp = auth.Response{}
	}

	render.JSON(w, http.StatusOK, resp)
}
