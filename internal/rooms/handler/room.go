package handler

import (
	"encoding/json"
	"errors"
	"innkeep/internal/availability"
	roomserrors "innkeep/internal/rooms/errors"
	"innkeep/internal/rooms/repository"
	apperrors "innkeep/pkg/errors"
	httputil "innkeep/pkg/http"
	"innkeep/pkg/logger"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"
)

// RoomHandler serves the read-only room surface: browse, search, single room
// lookup and batch availability checks. Nothing here mutates state except the
// inventory-changed hook, which only drops cache entries.
type RoomHandler struct {
	resolver    *availability.Resolver
	rooms       repository.RoomRepository
	invalidator *availability.Invalidator
	log         *logger.Logger
}

func NewRoomHandler(
	resolver *availability.Resolver,
	rooms repository.RoomRepository,
	invalidator *availability.Invalidator,
	log *logger.Logger,
) *RoomHandler {
	return &RoomHandler{
		resolver:    resolver,
		rooms:       rooms,
		invalidator: invalidator,
		log:         log,
	}
}

func (h *RoomHandler) RegisterRoutes(router *httprouter.Router) {
	router.HandlerFunc(http.MethodGet, "/api/v1/rooms", h.browse)
	router.HandlerFunc(http.MethodGet, "/api/v1/rooms/search", h.search)
	router.Handle(http.MethodGet, "/api/v1/rooms/id/:id", h.getRoom)
	router.HandlerFunc(http.MethodPost, "/api/v1/availability/check", h.checkAvailability)
	router.HandlerFunc(http.MethodPost, "/api/v1/internal/inventory-changed", h.inventoryChanged)
}

func (h *RoomHandler) browse(w http.ResponseWriter, r *http.Request) {
	page, pageSize, err := httputil.ExtractPage(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	rooms, pagination, err := h.resolver.Browse(r.Context(), page, pageSize)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.write(w, r, httputil.WritePage(w, rooms, pagination))
}

func (h *RoomHandler) search(w http.ResponseWriter, r *http.Request) {
	checkIn, err := httputil.ExtractDate(r, "check_in")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	checkOut, err := httputil.ExtractDate(r, "check_out")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	guests := 1
	if s := r.URL.Query().Get("guests"); s != "" {
		guests, err = strconv.Atoi(s)
		if err != nil {
			h.writeError(w, r, apperrors.InvalidInput("invalid guests parameter: "+s))
			return
		}
	}

	page, pageSize, err := httputil.ExtractPage(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	criteria := availability.SearchCriteria{
		Destination: r.URL.Query().Get("destination"),
		CheckIn:     checkIn,
		CheckOut:    checkOut,
		Guests:      guests,
	}
	offers, pagination, err := h.resolver.Search(r.Context(), criteria, page, pageSize)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.write(w, r, httputil.WritePage(w, offers, pagination))
}

func (h *RoomHandler) getRoom(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	room, err := h.rooms.FindByID(r.Context(), params.ByName("id"))
	if err != nil {
		switch {
		case errors.Is(err, roomserrors.ErrNotFound):
			h.writeError(w, r, apperrors.NotFoundWithID("room", params.ByName("id")))
		case errors.Is(err, roomserrors.ErrInvalidID):
			h.writeError(w, r, apperrors.InvalidInput("invalid room ID format"))
		default:
			h.writeError(w, r, apperrors.Internal("Failed to load room", err))
		}
		return
	}
	h.write(w, r, httputil.WriteSuccess(w, room))
}

type availabilityCheckPayload struct {
	RoomIDs  []string `json:"room_ids"`
	CheckIn  string   `json:"check_in"`
	CheckOut string   `json:"check_out"`
}

func (h *RoomHandler) checkAvailability(w http.ResponseWriter, r *http.Request) {
	var payload availabilityCheckPayload
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

	result, err := h.resolver.CheckBatch(r.Context(), payload.RoomIDs, checkIn, checkOut)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.write(w, r, httputil.WriteSuccess(w, result))
}

// inventoryChanged is called by the inventory service after it creates,
// updates or deletes a room. Listings and counts are recomputed on the next
// read.
func (h *RoomHandler) inventoryChanged(w http.ResponseWriter, r *http.Request) {
	h.invalidator.InvalidateInventory()
	httputil.WriteNoContent(w)
}

func (h *RoomHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	appErr := apperrors.AsAppError(err)
	if appErr.HTTPStatus >= http.StatusInternalServerError {
		h.log.Error("Room request failed",
			"path", r.URL.Path,
			"error", err,
		)
	}
	h.write(w, r, httputil.WriteError(w, appErr))
}

func (h *RoomHandler) write(w http.ResponseWriter, r *http.Request, err error) {
	if err != nil {
		h.log.Error("Failed to write response",
			"path", r.URL.Path,
			"error", err,
		)
	}
}
