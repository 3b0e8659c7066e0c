package api

import (
	stderrors "errors"

	"etegie-bot/backend/internal/faq"
	"etegie-bot/backend/internal/service"
	"etegie-bot/backend/internal/session"
	"etegie-bot/backend/pkg/errors"

	"github.com/gin-gonic/gin"
)

// ToAppError maps domain errors onto the HTTP error envelope
func ToAppError(err error) *errors.AppError {
	switch {
	case stderrors.Is(err, service.ErrEmptyMessage):
		return errors.NewBadRequestError(errors.CodeEmptyMessage, "Message is required").Wrap(err)
	case stderrors.Is(err, service.ErrInvalidSession):
		return errors.NewBadRequestError(errors.CodeInvalidRequest, "Session id is malformed").Wrap(err)
	case stderrors.Is(err, service.ErrInvalidCompany):
		return errors.NewBadRequestError(errors.CodeInvalidRequest, "Company name is required").Wrap(err)
	case stderrors.Is(err, service.ErrInvalidAPIKey):
		return errors.NewUnauthorizedError(errors.CodeInvalidAPIKey, "Invalid company id or API key").Wrap(err)
	case stderrors.Is(err, faq.ErrCompanyRequired):
		return errors.NewBadRequestError(errors.CodeCompanyRequired, "Company id is required").Wrap(err)
	case stderrors.Is(err, faq.ErrCompanyNotFound):
		return errors.NewNotFoundError(errors.CodeCompanyNotFound, "Company not found").Wrap(err)
	case stderrors.Is(err, faq.ErrInvalidFAQ):
		return errors.NewBadRequestError(errors.CodeInvalidRequest, err.Error()).Wrap(err)
	case stderrors.Is(err, session.ErrSessionMismatch):
		return errors.NewConflictError(errors.CodeSessionMismatch, "Session belongs to a different company").Wrap(err)
	default:
		return errors.FromError(err)
	}
}

// fail attaches err to the request for the error middleware and stops the chain
func fail(c *gin.Context, err error) {
	_ = c.Error(ToAppError(err))
	c.Abort()
}

func badRequest(c *gin.Context, message string, err error) {
	appErr := errors.NewBadRequestError(errors.CodeInvalidRequest, message)
	if err != nil {
		appErr = appErr.WithDetails(err.Error()).Wrap(err)
	}
	_ = c.Error(appErr)
	c.Abort()
}
