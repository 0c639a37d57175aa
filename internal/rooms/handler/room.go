package handler

import (
	"net/http"
	"roomres/internal/rooms/service"
	httputil "roomres/pkg/http"
	"roomres/pkg/logger"

	"github.com/julienschmidt/httprouter"
)

type RoomHandler struct {
	service service.RoomService
	prefix  string
	log     *logger.Logger
}

func NewRoomHandler(service service.RoomService, prefix string, log *logger.Logger) *RoomHandler {
	return &RoomHandler{
		service: service,
		prefix:  prefix,
		log:     log,
	}
}

func (h *RoomHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetAll", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	rooms, err := h.service.List(r.Context())
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetAll", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	page := httputil.Paginate(rooms, limit, offset)
	if err := httputil.WritePaginated(w, page, int64(len(rooms)), limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetAll", "operation", "WritePaginated", "error", err)
	}
}

func (h *RoomHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := httputil.ParseIntParam(ps, "id")
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByID", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	room, err := h.service.GetByID(r.Context(), int(id))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByID", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, room); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *RoomHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET(h.prefix+"/rooms", h.GetAll)
	router.GET(h.prefix+"/rooms/id/:id", h.GetByID)
}
