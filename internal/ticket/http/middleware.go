package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	apperrors "github.com/allisson/ticketoffice/internal/errors"
	"github.com/allisson/ticketoffice/internal/httputil"
	ticketDomain "github.com/allisson/ticketoffice/internal/ticket/domain"
	ticketUseCase "github.com/allisson/ticketoffice/internal/ticket/usecase"
)

// SessionInvitationKey is the session key holding the resolved ticket ID.
const SessionInvitationKey = "invitation"

// GuardConfig customizes how guard outcomes are rendered.
// Zero value renders the shared JSON error responses.
type GuardConfig struct {
	// OnUnauthorized renders the response when no credentials are presented
	// at all. The middleware aborts after calling it.
	OnUnauthorized func(c *gin.Context, err error)

	// OnForbidden renders the response when presented credentials or the
	// session reference fail validation. The middleware aborts after calling it.
	OnForbidden func(c *gin.Context, err error)
}

// InvitationRequired protects a route with invitation ticket authentication.
//
// The middleware is session-first:
//  1. If the session references a ticket, the reference is re-validated via
//     Resolve. Success attaches the Ticket and Guest to the request context
//     and runs the handler. Any resolution failure renders forbidden, and a
//     stale or malformed reference is also dropped from the session so the
//     client can present fresh credentials on the next request.
//  2. Without a session reference, credentials are read from the "uuid" and
//     "password" query parameters. Absent credentials render unauthorized.
//     Invalid credentials render forbidden. Valid credentials write the
//     ticket ID into the session and redirect to the same path with 303 See
//     Other, so the credentials never survive in the address bar and the
//     retried request enters branch 1.
//
// The route must be registered with a sessions.Sessions middleware ahead of
// this one.
func InvitationRequired(
	useCase ticketUseCase.UseCase,
	place, purpose string,
	cfg GuardConfig,
	logger *slog.Logger,
) gin.HandlerFunc {
	unauthorized := cfg.OnUnauthorized
	if unauthorized == nil {
		unauthorized = func(c *gin.Context, err error) {
			httputil.HandleErrorGin(c, err, logger)
		}
	}
	forbidden := cfg.OnForbidden
	if forbidden == nil {
		forbidden = func(c *gin.Context, err error) {
			httputil.HandleErrorGin(c, err, logger)
		}
	}

	return func(c *gin.Context) {
		session := sessions.Default(c)

		if raw := session.Get(SessionInvitationKey); raw != nil {
			resolveSessionReference(c, session, raw, useCase, place, purpose, forbidden, logger)
			return
		}

		ticketID := c.Query("uuid")
		password := c.Query("password")
		if ticketID == "" && password == "" {
			logger.Debug("invitation guard: no credentials presented",
				slog.String("place", place),
				slog.String("purpose", purpose))
			unauthorized(c, ticketDomain.ErrNoCredentials)
			c.Abort()
			return
		}

		id, err := ticketDomain.ParseID(ticketID)
		if err != nil {
			logger.Debug("invitation guard: malformed ticket id",
				slog.String("place", place),
				slog.String("purpose", purpose))
			forbidden(c, ticketDomain.ErrInvalidCredentials)
			c.Abort()
			return
		}

		ticket, err := useCase.Authenticate(c.Request.Context(), id, password, place, purpose)
		if err != nil {
			logger.Debug("invitation guard: authentication failed",
				slog.String("ticket_id", id.String()),
				slog.String("place", place),
				slog.String("purpose", purpose),
				slog.String("error", err.Error()))
			forbidden(c, err)
			c.Abort()
			return
		}

		// Promote the credentials to a session reference and retry the
		// request without them in the URL.
		session.Set(SessionInvitationKey, ticket.ID.String())
		if err := session.Save(); err != nil {
			logger.Error("invitation guard: failed to save session",
				slog.String("ticket_id", ticket.ID.String()),
				slog.String("error", err.Error()))
			httputil.HandleErrorGin(c, err, logger)
			c.Abort()
			return
		}

		logger.Debug("invitation guard: credentials accepted",
			slog.String("ticket_id", ticket.ID.String()),
			slog.String("place", place),
			slog.String("purpose", purpose))

		c.Redirect(http.StatusSeeOther, c.Request.URL.Path)
		c.Abort()
	}
}

// resolveSessionReference handles the session branch of the guard.
func resolveSessionReference(
	c *gin.Context,
	session sessions.Session,
	raw any,
	useCase ticketUseCase.UseCase,
	place, purpose string,
	forbidden func(c *gin.Context, err error),
	logger *slog.Logger,
) {
	reference, ok := raw.(string)
	if !ok {
		dropSessionReference(session, logger)
		logger.Debug("invitation guard: session reference has unexpected type",
			slog.String("place", place),
			slog.String("purpose", purpose))
		forbidden(c, ticketDomain.ErrInvalidSessionReference)
		c.Abort()
		return
	}

	id, err := ticketDomain.ParseID(reference)
	if err != nil {
		dropSessionReference(session, logger)
		logger.Debug("invitation guard: malformed session reference",
			slog.String("place", place),
			slog.String("purpose", purpose))
		forbidden(c, ticketDomain.ErrInvalidSessionReference)
		c.Abort()
		return
	}

	ticket, err := useCase.Resolve(c.Request.Context(), id, place, purpose)
	if err != nil {
		if staleReference(err) {
			dropSessionReference(session, logger)
		}
		logger.Debug("invitation guard: session reference rejected",
			slog.String("ticket_id", id.String()),
			slog.String("place", place),
			slog.String("purpose", purpose),
			slog.String("error", err.Error()))
		forbidden(c, err)
		c.Abort()
		return
	}

	ctx := WithTicket(c.Request.Context(), ticket)
	ctx = WithGuest(ctx, ticketDomain.NewGuest(ticket))
	c.Request = c.Request.WithContext(ctx)

	logger.Debug("invitation guard: session reference resolved",
		slog.String("ticket_id", ticket.ID.String()),
		slog.String("place", place),
		slog.String("purpose", purpose))

	c.Next()
}

// staleReference reports whether the resolution failure means the session
// reference points at nothing and should be dropped. Used and expired tickets
// keep their reference: the record still exists and the state is permanent.
func staleReference(err error) bool {
	return apperrors.Is(err, ticketDomain.ErrStaleSessionReference)
}

// dropSessionReference removes the invitation key from the session.
// A save failure is logged and otherwise ignored: the request is already
// being rejected and the stale cookie only costs a retry.
func dropSessionReference(session sessions.Session, logger *slog.Logger) {
	session.Delete(SessionInvitationKey)
	if err := session.Save(); err != nil {
		logger.Error("invitation guard: failed to drop session reference",
			slog.String("error", err.Error()))
	}
}

// StampInvitation marks the guarded invitation as used after the handler
// completes successfully. It must be registered after InvitationRequired.
//
// The stamp is skipped when the handler aborted, recorded an error, or wrote
// an error status. A missing ticket in the context after a successful run is
// a wiring mistake and panics rather than silently leaving tickets reusable.
func StampInvitation(useCase ticketUseCase.UseCase, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.IsAborted() || len(c.Errors) > 0 || c.Writer.Status() >= http.StatusBadRequest {
			return
		}

		ticket, ok := GetTicket(c.Request.Context())
		if !ok {
			panic("stamp middleware: no invitation ticket in context, register InvitationRequired first")
		}

		if err := useCase.Stamp(c.Request.Context(), ticket.ID); err != nil {
			// The response is already committed, so the failure can only
			// be surfaced through logs.
			logger.Error("failed to stamp invitation",
				slog.String("ticket_id", ticket.ID.String()),
				slog.String("error", err.Error()))
			return
		}

		logger.Info("invitation stamped",
			slog.String("ticket_id", ticket.ID.String()))
	}
}
