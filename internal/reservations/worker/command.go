package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"roomres/internal/reservations/service"
	apperrors "roomres/pkg/errors"
	"roomres/pkg/kafka"
	"roomres/pkg/logger"
	"roomres/pkg/model"
)

const (
	CommandCheckAvailability = "check_availability"
	CommandReserveRoom       = "reserve_room"

	EventCommandReply = "reservation.command.reply"
)

// Command is the structured request read from the commands topic. Payload
// decodes straight into model.AvailabilityFilter or model.ReservationRequest.
type Command struct {
	Type      string          `json:"type"`
	RequestID string          `json:"request_id"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

type Reply struct {
	Type        string                   `json:"type"`
	RequestID   string                   `json:"request_id"`
	Status      string                   `json:"status"`
	Rooms       []model.RoomAvailability `json:"rooms,omitempty"`
	Reservation *model.ReservationResult `json:"reservation,omitempty"`
	Error       *apperrors.ErrorResponse `json:"error,omitempty"`
}

type CommandHandler struct {
	service service.ReservationService
	replies kafka.Publisher
	log     *logger.Logger
}

func NewCommandHandler(service service.ReservationService, replies kafka.Publisher, log *logger.Logger) *CommandHandler {
	return &CommandHandler{
		service: service,
		replies: replies,
		log:     log,
	}
}

// Handle is a kafka.MessageHandler. Domain rejections are answered on the
// replies topic and committed. Store contention is returned as transient so
// the consumer retries, undecodable commands are permanent and end in the DLQ.
func (h *CommandHandler) Handle(ctx context.Context, msg kafka.Message) error {
	var cmd Command
	if err := msg.DecodeValue(&cmd); err != nil {
		return kafka.NewPermanentError("undecodable reservation command", err)
	}
	if cmd.RequestID == "" {
		cmd.RequestID = msg.GetCorrelationID()
	}

	reply, err := h.execute(ctx, cmd)
	if err != nil {
		return err
	}

	return h.sendReply(ctx, msg, reply)
}

func (h *CommandHandler) execute(ctx context.Context, cmd Command) (*Reply, error) {
	reply := &Reply{Type: cmd.Type, RequestID: cmd.RequestID, Status: model.StatusSuccess}

	switch cmd.Type {
	case CommandCheckAvailability:
		var filter model.AvailabilityFilter
		if len(cmd.Payload) > 0 {
			if err := json.Unmarshal(cmd.Payload, &filter); err != nil {
				return nil, kafka.NewPermanentError("undecodable availability filter", err)
			}
		}

		rooms, err := h.service.CheckAvailability(ctx, &filter)
		if err != nil {
			if retryable(err) {
				return nil, kafka.NewTransientError("availability check failed", err)
			}
			reply.Status = model.StatusError
			reply.Error = errorResponse(err)
			return reply, nil
		}
		reply.Rooms = rooms

	case CommandReserveRoom:
		var req model.ReservationRequest
		if err := json.Unmarshal(cmd.Payload, &req); err != nil {
			return nil, kafka.NewPermanentError("undecodable reservation request", err)
		}

		conf, err := h.service.Reserve(ctx, &req)
		if err != nil && retryable(err) {
			return nil, kafka.NewTransientError("reservation failed", err)
		}
		reply.Reservation = service.ToResult(conf, err)
		reply.Status = reply.Reservation.Status

	default:
		return nil, kafka.NewPermanentError(fmt.Sprintf("unknown command type %q", cmd.Type), nil)
	}

	return reply, nil
}

// sendReply failures are permanent: the command has already run, and a retry
// would execute it a second time.
func (h *CommandHandler) sendReply(ctx context.Context, in kafka.Message, reply *Reply) error {
	out, err := kafka.NewMessage().
		WithKey(reply.RequestID).
		WithValue(reply).
		WithEventType(EventCommandReply).
		WithCorrelationID(reply.RequestID).
		WithSource(in.Topic).
		Build()
	if err != nil {
		return kafka.NewPermanentError("failed to build reply", err)
	}

	if err := h.replies.Publish(ctx, out); err != nil {
		return kafka.NewPermanentError("failed to publish reply", err)
	}

	h.log.Debug("Command reply sent",
		"type", reply.Type,
		"request_id", reply.RequestID,
		"status", reply.Status,
	)
	return nil
}

func retryable(err error) bool {
	return apperrors.HasCode(err, apperrors.CodeUnavailable) || apperrors.HasCode(err, apperrors.CodeTimeout)
}

func errorResponse(err error) *apperrors.ErrorResponse {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return &apperrors.ErrorResponse{Code: appErr.Code, Message: appErr.Message, Details: appErr.Details}
	}
	return &apperrors.ErrorResponse{Code: apperrors.CodeInternal, Message: "Internal error"}
}
