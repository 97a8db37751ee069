package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/allisson/ticketoffice/internal/httputil"
	ticketDomain "github.com/allisson/ticketoffice/internal/ticket/domain"
	"github.com/allisson/ticketoffice/internal/ticket/http/dto"
	ticketUseCase "github.com/allisson/ticketoffice/internal/ticket/usecase"
	customValidation "github.com/allisson/ticketoffice/internal/validation"
)

// TicketHandler handles HTTP requests for ticket administration.
type TicketHandler struct {
	ticketUseCase ticketUseCase.UseCase
	logger        *slog.Logger
}

// NewTicketHandler creates a new ticket handler with required dependencies.
func NewTicketHandler(
	useCase ticketUseCase.UseCase,
	logger *slog.Logger,
) *TicketHandler {
	return &TicketHandler{
		ticketUseCase: useCase,
		logger:        logger,
	}
}

// CreateTicketHandler issues a new invitation ticket.
// POST /v1/tickets
// Returns 201 Created with the ticket and its clear password. The password
// appears only in this response and is never retrievable again.
func (h *TicketHandler) CreateTicketHandler(c *gin.Context) {
	var req dto.CreateTicketRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	input := &ticketDomain.IssueTicketInput{
		Place:     req.Place,
		Purpose:   req.Purpose,
		Payload:   req.Payload,
		ExpiresAt: req.ExpiresAt,
	}

	output, err := h.ticketUseCase.Issue(c.Request.Context(), input)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapIssueOutputToResponse(output))
}

// GetTicketHandler retrieves a ticket for administrative inspection.
// GET /v1/tickets/:id
// Returns 200 OK without any secret material, or 404 if absent.
func (h *TicketHandler) GetTicketHandler(c *gin.Context) {
	ticketID, err := ticketDomain.ParseID(c.Param("id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	ticket, err := h.ticketUseCase.Get(c.Request.Context(), ticketID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapTicketToResponse(ticket))
}
