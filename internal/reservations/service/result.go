package service

import (
	"errors"
	apperrors "roomres/pkg/errors"
	"roomres/pkg/model"
)

// ToResult shapes the outcome of Reserve for callers outside the process:
// the HTTP API and the command worker both answer with it.
func ToResult(conf *model.ReservationConfirmation, err error) *model.ReservationResult {
	if err != nil {
		result := &model.ReservationResult{
			Status:    model.StatusError,
			Message:   err.Error(),
			ErrorCode: apperrors.CodeInternal,
		}
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			result.Message = appErr.Message
			result.ErrorCode = appErr.Code
			result.Reason = appErr.Reason()
		}
		return result
	}

	if conf == nil {
		return &model.ReservationResult{
			Status:    model.StatusError,
			Message:   "No reservation was made",
			ErrorCode: apperrors.CodeInternal,
		}
	}

	details := conf.Details
	return &model.ReservationResult{
		Status:        model.StatusSuccess,
		ReservationID: conf.ReservationID,
		Message:       details.Message(),
		Details:       &details,
	}
}
