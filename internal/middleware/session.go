package middleware

import (
	"net/http"
	"time"

	"EigenFlow/internal/domain/models"
	domrepo "EigenFlow/internal/domain/repository"
	xhttp "EigenFlow/pkg/http"
	applogger "EigenFlow/pkg/logger"

	"github.com/labstack/echo/v4"
)

const sessionContextKey = "eigenflow.session"

// SessionCookie describes the cookie carrying the session id.
type SessionCookie struct {
	Name   string
	MaxAge time.Duration
	Secure bool
}

// Session attaches a visitor session to every request, issuing a new one
// (and its cookie) when the request carries none or an unknown id.
func Session(store domrepo.SessionStore, cookie SessionCookie, l *applogger.Logger) echo.MiddlewareFunc {
	if cookie.Name == "" {
		cookie.Name = "ef_session"
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()

			var (
				sess  *models.Session
				stale bool
			)
			if ck, err := c.Cookie(cookie.Name); err == nil {
				sess, _ = store.Get(ctx, ck.Value)
				stale = sess == nil
			}
			if sess == nil {
				created, err := store.Create(ctx)
				if err != nil {
					l.Error("create session", applogger.Error(err))
					return xhttp.AppErrorResponse(c, xhttp.InternalError("session unavailable").WithError(err))
				}
				sess = created
				l.Debug("session issued", applogger.String("session", sess.ID), applogger.Bool("stale_cookie", stale))
				c.SetCookie(&http.Cookie{
					Name:     cookie.Name,
					Value:    sess.ID,
					Path:     "/",
					MaxAge:   int(cookie.MaxAge.Seconds()),
					HttpOnly: true,
					Secure:   cookie.Secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			c.Set(sessionContextKey, sess)
			return next(c)
		}
	}
}

// SessionFrom returns the session attached by Session, or nil.
func SessionFrom(c echo.Context) *models.Session {
	sess, _ := c.Get(sessionContextKey).(*models.Session)
	return sess
}
