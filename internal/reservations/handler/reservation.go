package handler

import (
	"encoding/json"
	"innkeep/internal/reservations/service"
	apperrors "innkeep/pkg/errors"
	httputil "innkeep/pkg/http"
	"innkeep/pkg/logger"
	"innkeep/pkg/middleware"
	"innkeep/pkg/model"
	"net/http"

	"github.com/julienschmidt/httprouter"
)

type ReservationHandler struct {
	service *service.ReservationService
	log     *logger.Logger
}

func NewReservationHandler(service *service.ReservationService, log *logger.Logger) *ReservationHandler {
	return &ReservationHandler{service: service, log: log}
}

func (h *ReservationHandler) RegisterRoutes(router *httprouter.Router) {
	router.HandlerFunc(http.MethodPost, "/api/v1/reservations", h.reserve)
	router.Handle(http.MethodGet, "/api/v1/reservations/id/:id", h.getReservation)
	router.Handle(http.MethodDelete, "/api/v1/reservations/id/:id", h.cancel)
}

// reservationPayload is the wire form of a reservation request; stay dates
// arrive as YYYY-MM-DD like everywhere else on the API.
type reservationPayload struct {
	RoomID     string `json:"room_id"`
	CheckIn    string `json:"check_in"`
	CheckOut   string `json:"check_out"`
	GuestCount int    `json:"guest_count"`
	GuestName  string `json:"guest_name"`
	GuestEmail string `json:"guest_email"`
	GuestPhone string `json:"guest_phone,omitempty"`
}

func (h *ReservationHandler) reserve(w http.ResponseWriter, r *http.Request) {
	var payload reservationPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.writeError(w, r, apperrors.InvalidInput("invalid request body"))
		return
	}

	checkIn, err := httputil.ParseDate("check_in", payload.CheckIn)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	checkOut, err := httputil.ParseDate("check_out", payload.CheckOut)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	req := &model.ReservationRequest{
		RoomID:     payload.RoomID,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		GuestCount: payload.GuestCount,
		GuestName:  payload.GuestName,
		GuestEmail: payload.GuestEmail,
		GuestPhone: payload.GuestPhone,
	}

	booking, err := h.service.Reserve(r.Context(), middleware.UserIDFrom(r.Context()), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.write(w, r, httputil.WriteCreated(w, booking))
}

func (h *ReservationHandler) getReservation(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	booking, err := h.service.Get(r.Context(), middleware.UserIDFrom(r.Context()), params.ByName("id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.write(w, r, httputil.WriteSuccess(w, booking))
}

func (h *ReservationHandler) cancel(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	booking, err := h.service.Cancel(r.Context(), middleware.UserIDFrom(r.Context()), params.ByName("id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.write(w, r, httputil.WriteSuccess(w, booking))
}

func (h *ReservationHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	appErr := apperrors.AsAppError(err)
	if appErr.HTTPStatus >= http.StatusInternalServerError {
		h.log.Error("Reservation request failed",
			"path", r.URL.Path,
			"error", err,
		)
	}
	h.write(w, r, httputil.WriteError(w, appErr))
}

func (h *ReservationHandler) write(w http.ResponseWriter, r *http.Request, err error) {
	if err != nil {
		h.log.Error("Failed to write response",
			"path", r.URL.Path,
			"error", err,
		)
	}
}
