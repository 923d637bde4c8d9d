package handler

import (
	"log/slog"
	"net/http"

	"orienteer/internal/delivery/api/response"
	deliverycontext "orienteer/internal/delivery/context"
	"orienteer/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// EventHandlerParams holds dependencies for EventHandler, injected by Fx.
type EventHandlerParams struct {
	fx.In

	Guard     usecase.OwnershipGuard
	Passwords usecase.EventPasswordUsecase
	Logger    *slog.Logger
}

// EventHandler serves event access checks and event password management.
type EventHandler struct {
	guard     usecase.OwnershipGuard
	passwords usecase.EventPasswordUsecase
	logger    *slog.Logger
}

// NewEventHandler is the constructor for EventHandler
func NewEventHandler(params EventHandlerParams) *EventHandler {
	return &EventHandler{
		guard:     params.Guard,
		passwords: params.Passwords,
		logger:    params.Logger,
	}
}

// EventAccessResponse describes who may manage an event.
type EventAccessResponse struct {
	EventID string `json:"event_id"`
	OwnerID string `json:"owner_id"`
	Scheme  string `json:"scheme"`
}

// Access reports whether the caller may manage the event.
func (h *EventHandler) Access(c echo.Context) error {
	eventID := c.Param("id")
	authCtx := deliverycontext.GetEchoAuthContext(c)

	result, err := h.guard.EnsureOwner(c.Request().Context(), authCtx, eventID)
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, EventAccessResponse{
		EventID: result.Resource.ResourceID,
		OwnerID: result.OwnerID,
		Scheme:  authCtx.Scheme.String(),
	})
}

// RotatePassword issues a new event password. The plaintext is only returned here.
func (h *EventHandler) RotatePassword(c echo.Context) error {
	authCtx := deliverycontext.GetEchoAuthContext(c)

	issued, err := h.passwords.Rotate(c.Request().Context(), authCtx, c.Param("id"))
	if err != nil {
		return err
	}

	noStore(c)

	return response.Success(c, http.StatusCreated, issued)
}

// RevokePassword deletes the event password so basic credentials stop working.
func (h *EventHandler) RevokePassword(c echo.Context) error {
	authCtx := deliverycontext.GetEchoAuthContext(c)

	if err := h.passwords.Revoke(c.Request().Context(), authCtx, c.Param("id")); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}
