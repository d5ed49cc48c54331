package api

import (
	"errors"
	"net/http"

	models "EigenFlow/internal/domain/models"
	"EigenFlow/internal/middleware"
	"EigenFlow/internal/usecase"
	xhttp "EigenFlow/pkg/http"
	xlogger "EigenFlow/pkg/logger"

	"github.com/labstack/echo/v4"
)

// DashboardEchoHandler exposes the dashboard views and the access-key form.
type DashboardEchoHandler struct {
	logger  *xlogger.Logger
	uc      *usecase.DashboardUseCase
	session echo.MiddlewareFunc
}

func NewDashboardEchoHandler(logger *xlogger.Logger, uc *usecase.DashboardUseCase, session echo.MiddlewareFunc) *DashboardEchoHandler {
	return &DashboardEchoHandler{logger: logger, uc: uc, session: session}
}

func (h *DashboardEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api", h.session)
	g.GET("/regime", h.Regime)
	g.GET("/signals", h.Signals)
	g.GET("/chart", h.Chart)
	g.GET("/history", h.History)
	g.GET("/access", h.AccessStatus)
	g.POST("/access", h.Unlock)
	g.DELETE("/access", h.Lock)
}

func (h *DashboardEchoHandler) Regime(c echo.Context) error {
	card := h.uc.Regime(c.Request().Context())
	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=60")
	return xhttp.SuccessResponse(c, card)
}

func (h *DashboardEchoHandler) Signals(c echo.Context) error {
	view := h.uc.Signals(c.Request().Context(), middleware.SessionFrom(c))
	c.Response().Header().Set(echo.HeaderCacheControl, "private, no-store")
	return xhttp.SuccessResponse(c, view)
}

func (h *DashboardEchoHandler) Chart(c echo.Context) error {
	req := &models.ChartRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	view, err := h.uc.Chart(c.Request().Context(), middleware.SessionFrom(c), req.Symbol)
	if err != nil {
		return xhttp.AppErrorResponse(c, toAppError(err))
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "private, no-store")
	return xhttp.SuccessResponse(c, view)
}

func (h *DashboardEchoHandler) History(c echo.Context) error {
	req := &models.HistoryRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	view := h.uc.History(c.Request().Context(), middleware.SessionFrom(c), req.Limit)
	return xhttp.SuccessResponse(c, view)
}

func (h *DashboardEchoHandler) AccessStatus(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.uc.Status(c.Request().Context(), middleware.SessionFrom(c)))
}

func (h *DashboardEchoHandler) Unlock(c echo.Context) error {
	req := &models.AccessRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	status, err := h.uc.Unlock(c.Request().Context(), middleware.SessionFrom(c), c.RealIP(), req.Key)
	if err != nil {
		return xhttp.AppErrorResponse(c, toAppError(err))
	}
	return xhttp.SuccessResponse(c, status)
}

func (h *DashboardEchoHandler) Lock(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.uc.Lock(c.Request().Context(), middleware.SessionFrom(c)))
}

func toAppError(err error) *xhttp.AppError {
	switch {
	case errors.Is(err, usecase.ErrLocked):
		return xhttp.NewAppError("ERR_LOCKED", "", "an access key is required", http.StatusUnauthorized)
	case errors.Is(err, usecase.ErrKeyExpired):
		return xhttp.NewAppError("ERR_KEY_EXPIRED", "key", "access key has expired", http.StatusUnauthorized)
	case errors.Is(err, usecase.ErrInvalidKey):
		return xhttp.NewAppError("ERR_INVALID_KEY", "key", "invalid or expired access key", http.StatusUnauthorized)
	case errors.Is(err, usecase.ErrTooManyAttempts):
		return xhttp.TooManyRequestsError("too many attempts, try again later")
	case errors.Is(err, usecase.ErrInvalidSymbol):
		e := xhttp.BadRequestError(err.Error())
		e.Field = "symbol"
		return e
	default:
		return xhttp.InternalError("something went wrong").WithError(err)
	}
}
