// Package resource exposes the remote collections through the local API.
package resource

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/cashtrack/internal/http/render"
	"github.com/MrJamesThe3rd/cashtrack/internal/resource"
)

type Handler struct {
	svcs *resource.Services
}

func NewHandler(svcs *resource.Services) *Handler {
	return &Handler{svcs: svcs}
}

func (h *Handler) Routes(r chi.Router) {
	r.Route("/wallets", collection(h.svcs.Wallets))
	r.Route("/budgets", collection(h.svcs.Budgets))
	r.Route("/reports", collection(h.svcs.Reports))

	r.Route("/inflows", func(r chi.Router) {
		collection(h.svcs.Inflows)(r)
		r.Post("/", createFlow(h.svcs.Inflows))
	})

	r.Route("/outflows", func(r chi.Router) {
		collection(h.svcs.Outflows)(r)
		r.Post("/", createFlow(h.svcs.Outflows))
	})
}

func collection[T any](res *resource.Resource[T]) func(chi.Router) {
	return func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			items, err := res.List(r.Context())
			if err != nil {
				render.Fail(w, err)
				return
			}

			render.JSON(w, http.StatusOK, items)
		})

		r.Get("/{id}", func(w http.ResponseWriter, r *http.Request) {
			item, err := res.Get(r.Context(), chi.URLParam(r, "id"))
			if err != nil {
				render.Fail(w, err)
				return
			}

			if item == nil {
				render.Error(w, http.StatusNotFound, "not found")
				return
			}

			render.JSON(w, http.StatusOK, item)
		})

		r.Delete("/{id}", func(w http.ResponseWriter, r *http.Request) {
			if err := res.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
				render.Fail(w, err)
				return
			}

			w.WriteHeader(http.StatusNoContent)
		})
	}
}

type flowRequest struct {
	Amount         json.Number `json:"amount"`
	Date           string      `json:"date"`
	PaymentChannel string      `json:"paymentchannel"`
	Note           string      `json:"note"`
}

func createFlow(res *resource.Resource[resource.Flow]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req flowRequest
		if !render.Decode(w, r, &req) {
			return
		}

		flow, err := resource.CreateFlow(r.Context(), res, resource.FlowForm{
			Amount:         req.Amount.String(),
			Date:           req.Date,
			PaymentChannel: req.PaymentChannel,
			Note:           req.Note,
		})
		if err != nil {
			render.Fail(w, err, resource.ErrInvalidAmount, resource.ErrInvalidChannel)
			return
		}

		render.JSON(w, http.StatusCreated, flow)
	}
}
