package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/paisatrack/backend/internal/service"
)

type PaymentHandler struct {
	service PaymentServiceInterface
}

func NewPaymentHandler(service PaymentServiceInterface) *PaymentHandler {
	return &PaymentHandler{service: service}
}

// Initiate godoc
// @Summary Initiate a payment
// @Description Create a gateway order for a UPI transfer
// @Tags payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param input body service.InitiatePaymentInput true "Payment details"
// @Success 201 {object} model.Payment
// @Failure 400 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /payments/initiate [post]
func (h *PaymentHandler) Initiate(w http.ResponseWriter, r *http.Request) {
	var input service.InitiatePaymentInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	payment, err := h.service.Initiate(r.Context(), GetUserID(r.Context()), input)
	if err != nil {
		respondServiceError(w, err, "failed to initiate payment")
		return
	}

	respondJSON(w, http.StatusCreated, payment)
}

// Verify godoc
// @Summary Verify a payment
// @Description Check the gateway signature and mark the payment successful
// @Tags payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param input body service.VerifyPaymentInput true "Gateway callback data"
// @Success 200 {object} model.Payment
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /payments/verify [post]
func (h *PaymentHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var input service.VerifyPaymentInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	payment, err := h.service.Verify(r.Context(), GetUserID(r.Context()), input)
	if err != nil {
		respondServiceError(w, err, "failed to verify payment")
		return
	}

	respondJSON(w, http.StatusOK, payment)
}

// Refund godoc
// @Summary Refund a payment
// @Description Refund a successful payment through the gateway
// @Tags payments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Payment ID"
// @Success 200 {object} model.Payment
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /payments/{id}/refund [post]
func (h *PaymentHandler) Refund(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	payment, err := h.service.Refund(r.Context(), id, GetUserID(r.Context()))
	if err != nil {
		respondServiceError(w, err, "failed to refund payment")
		return
	}

	respondJSON(w, http.StatusOK, payment)
}

// Get godoc
// @Summary Get a payment
// @Tags payments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Payment ID"
// @Success 200 {object} model.Payment
// @Failure 404 {object} ErrorResponse
// @Router /payments/{id} [get]
func (h *PaymentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	payment, err := h.service.Get(r.Context(), id, GetUserID(r.Context()))
	if err != nil {
		respondServiceError(w, err, "failed to get payment")
		return
	}

	respondJSON(w, http.StatusOK, payment)
}

// List godoc
// @Summary List payments
// @Tags payments
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Payment
// @Failure 401 {object} ErrorResponse
// @Router /payments [get]
func (h *PaymentHandler) List(w http.ResponseWriter, r *http.Request) {
	payments, err := h.service.List(r.Context(), GetUserID(r.Context()))
	if err != nil {
		respondServiceError(w, err, "failed to list payments")
		return
	}
	respondJSON(w, http.StatusOK, payments)
}
