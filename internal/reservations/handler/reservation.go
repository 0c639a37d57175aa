package handler

import (
	"net/http"
	"roomres/internal/reservations/service"
	httputil "roomres/pkg/http"
	"roomres/pkg/logger"
	"roomres/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type ReservationHandler struct {
	service service.ReservationService
	prefix  string
	log     *logger.Logger
}

func NewReservationHandler(service service.ReservationService, prefix string, log *logger.Logger) *ReservationHandler {
	return &ReservationHandler{
		service: service,
		prefix:  prefix,
		log:     log,
	}
}

func (h *ReservationHandler) CheckAvailability(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var filter model.AvailabilityFilter
	// An empty body browses the whole catalog.
	if r.ContentLength != 0 {
		if err := httputil.DecodeJSON(r, &filter); err != nil {
			if writeErr := httputil.WriteError(w, err); writeErr != nil {
				h.log.Error("failed to write error response", "handler", "CheckAvailability", "operation", "WriteError", "error", writeErr)
			}
			return
		}
	}

	rooms, err := h.service.CheckAvailability(r.Context(), &filter)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "CheckAvailability", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, rooms); err != nil {
		h.log.Error("failed to write success response", "handler", "CheckAvailability", "operation", "WriteSuccess", "error", err)
	}
}

// Reserve answers with a ReservationResult in both outcomes so callers can
// branch on status, error_code and reason.
func (h *ReservationHandler) Reserve(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.ReservationRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeResult(w, httputil.StatusCode(err), service.ToResult(nil, err))
		return
	}

	conf, err := h.service.Reserve(r.Context(), &req)
	if err != nil {
		h.writeResult(w, httputil.StatusCode(err), service.ToResult(nil, err))
		return
	}

	h.writeResult(w, http.StatusCreated, service.ToResult(conf, nil))
}

func (h *ReservationHandler) writeResult(w http.ResponseWriter, status int, result *model.ReservationResult) {
	if err := httputil.WriteJSON(w, status, result); err != nil {
		h.log.Error("failed to write JSON response", "handler", "Reserve", "operation", "WriteJSON", "error", err)
	}
}

func (h *ReservationHandler) ListByRoom(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	roomID, err := httputil.ParseIntParam(ps, "id")
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ListByRoom", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	reservations, err := h.service.ListReservations(r.Context(), int(roomID), r.URL.Query().Get("date"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ListByRoom", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, reservations); err != nil {
		h.log.Error("failed to write success response", "handler", "ListByRoom", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ReservationHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := httputil.ParseIntParam(ps, "id")
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByID", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	reservation, err := h.service.GetReservation(r.Context(), id)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByID", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, reservation); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ReservationHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST(h.prefix+"/rooms/availability", h.CheckAvailability)
	router.POST(h.prefix+"/rooms/reserve", h.Reserve)
	router.GET(h.prefix+"/rooms/id/:id/reservations", h.ListByRoom)
	router.GET(h.prefix+"/reservations/id/:id", h.GetByID)
}
