package handlers

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/naobregon27/ClinicaFisioterapia/internal/models"
	"github.com/naobregon27/ClinicaFisioterapia/internal/repository"
	"github.com/naobregon27/ClinicaFisioterapia/internal/services"
	"github.com/naobregon27/ClinicaFisioterapia/pkg/utils"
)

type SessionHandler struct {
	service sessionApplicationService
}

type sessionApplicationService interface {
	RegisterSession(ctx context.Context, input services.RegisterSessionInput) (*models.Session, error)
	ListSessions(ctx context.Context, filter repository.SessionListFilter) ([]models.Session, int, error)
	GetSession(ctx context.Context, sessionID int64) (*models.Session, error)
	UpdateSession(ctx context.Context, sessionID int64, input services.UpdateSessionInput) (*models.Session, error)
	CancelSession(ctx context.Context, sessionID int64, motivo string) (*models.Session, error)
	RegisterPayment(ctx context.Context, sessionID int64, input services.PaymentInput) (*models.Session, error)
	History(ctx context.Context, pacienteID int64, page, limit int) (*services.PatientHistory, error)
	PendingPayments(ctx context.Context, limit int, pacienteID *int64) ([]models.Session, error)
}

func NewSessionHandler(service sessionApplicationService) *SessionHandler {
	return &SessionHandler{service: service}
}

type registerSessionRequest struct {
	PacienteID    int64   `json:"pacienteId"`
	Fecha         string  `json:"fecha"`
	HoraEntrada   string  `json:"horaEntrada"`
	HoraSalida    string  `json:"horaSalida"`
	TipoSesion    string  `json:"tipoSesion"`
	Monto         float64 `json:"monto"`
	Observaciones *string `json:"observaciones"`
}

type updateSessionRequest struct {
	Estado        *string `json:"estado"`
	Motivo        string  `json:"motivo"`
	Fecha         *string `json:"fecha"`
	HoraEntrada   *string `json:"horaEntrada"`
	HoraSalida    *string `json:"horaSalida"`
	Observaciones *string `json:"observaciones"`
}

type cancelSessionRequest struct {
	Motivo string `json:"motivo"`
}

type registerPaymentRequest struct {
	Monto       float64             `json:"monto"`
	MetodoPago  string              `json:"metodoPago"`
	Pagado      bool                `json:"pagado"`
	Comprobante *models.Comprobante `json:"comprobante"`
}

// parseFechaParam accepts both a plain yyyy-MM-dd date and a full RFC3339
// timestamp; the client historically sent either depending on the form.
func parseFechaParam(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if fecha, err := utils.ParseFecha(value); err == nil {
		return fecha, nil
	}
	ts, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC), nil
}

func (h *SessionHandler) RegisterSession(c *fiber.Ctx) error {
	var req registerSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	fecha, err := parseFechaParam(req.Fecha)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "fecha must be yyyy-MM-dd or RFC3339"})
	}

	sesion, err := h.service.RegisterSession(c.Context(), services.RegisterSessionInput{
		PacienteID:    req.PacienteID,
		Fecha:         fecha,
		HoraEntrada:   strings.TrimSpace(req.HoraEntrada),
		HoraSalida:    strings.TrimSpace(req.HoraSalida),
		TipoSesion:    models.TipoSesion(req.TipoSesion),
		Monto:         req.Monto,
		Observaciones: req.Observaciones,
	})
	if err != nil {
		return mapSessionError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"sesion": sesion})
}

func (h *SessionHandler) ListSessions(c *fiber.Ctx) error {
	filter := repository.SessionListFilter{
		Estado: models.EstadoSesion(strings.TrimSpace(c.Query("estado"))),
		SortBy: strings.TrimSpace(c.Query("sortBy")),
	}
	if filter.Estado != "" && !filter.Estado.Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid estado"})
	}

	if raw := strings.TrimSpace(c.Query("pacienteId")); raw != "" {
		pacienteID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || pacienteID <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid pacienteId"})
		}
		filter.PacienteID = &pacienteID
	}
	if raw := strings.TrimSpace(c.Query("fecha")); raw != "" {
		fecha, err := parseFechaParam(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "fecha must be yyyy-MM-dd"})
		}
		filter.Fecha = &fecha
	}
	if raw := strings.TrimSpace(c.Query("pagado")); raw != "" {
		pagado, err := strconv.ParseBool(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "pagado must be a boolean"})
		}
		filter.Pagado = &pagado
	}

	filter.Page, filter.Limit = clampPageParams(c.QueryInt("page", 1), c.QueryInt("limit", defaultPageLimit))

	sesiones, total, err := h.service.ListSessions(c.Context(), filter)
	if err != nil {
		return mapSessionError(c, err)
	}

	return c.JSON(fiber.Map{
		"data":       sesiones,
		"pagination": buildPaginationMeta(filter.Page, filter.Limit, total),
	})
}

func (h *SessionHandler) GetSession(c *fiber.Ctx) error {
	sessionID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || sessionID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid session id"})
	}

	sesion, err := h.service.GetSession(c.Context(), sessionID)
	if err != nil {
		return mapSessionError(c, err)
	}

	return c.JSON(fiber.Map{"sesion": sesion})
}

func (h *SessionHandler) UpdateSession(c *fiber.Ctx) error {
	sessionID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || sessionID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid session id"})
	}

	var req updateSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	input := services.UpdateSessionInput{
		Motivo:        req.Motivo,
		HoraEntrada:   req.HoraEntrada,
		HoraSalida:    req.HoraSalida,
		Observaciones: req.Observaciones,
	}
	if req.Estado != nil {
		estado := models.EstadoSesion(strings.TrimSpace(*req.Estado))
		input.Estado = &estado
	}
	if req.Fecha != nil {
		fecha, err := parseFechaParam(*req.Fecha)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "fecha must be yyyy-MM-dd"})
		}
		input.Fecha = &fecha
	}

	sesion, err := h.service.UpdateSession(c.Context(), sessionID, input)
	if err != nil {
		return mapSessionError(c, err)
	}

	return c.JSON(fiber.Map{"sesion": sesion})
}

func (h *SessionHandler) CancelSession(c *fiber.Ctx) error {
	sessionID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || sessionID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid session id"})
	}

	var req cancelSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	sesion, err := h.service.CancelSession(c.Context(), sessionID, req.Motivo)
	if err != nil {
		return mapSessionError(c, err)
	}

	return c.JSON(fiber.Map{"sesion": sesion})
}

func (h *SessionHandler) RegisterPayment(c *fiber.Ctx) error {
	sessionID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || sessionID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid session id"})
	}

	var req registerPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	sesion, err := h.service.RegisterPayment(c.Context(), sessionID, services.PaymentInput{
		Monto:       req.Monto,
		Metodo:      models.MetodoPago(strings.TrimSpace(req.MetodoPago)),
		Pagado:      req.Pagado,
		Comprobante: req.Comprobante,
	})
	if err != nil {
		return mapSessionError(c, err)
	}

	return c.JSON(fiber.Map{"sesion": sesion})
}

func (h *SessionHandler) PatientHistory(c *fiber.Ctx) error {
	pacienteID, err := strconv.ParseInt(c.Params("pacienteId"), 10, 64)
	if err != nil || pacienteID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid paciente id"})
	}

	page, limit := clampPageParams(c.QueryInt("page", 1), c.QueryInt("limit", 20))

	history, err := h.service.History(c.Context(), pacienteID, page, limit)
	if err != nil {
		return mapSessionError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"paciente":   history.Paciente,
			"sesiones":   history.Sesiones,
			"saldo":      history.Saldo,
			"pagination": buildPaginationMeta(page, limit, history.Total),
		},
	})
}

func (h *SessionHandler) PendingPayments(c *fiber.Ctx) error {
	_, limit := clampPageParams(1, c.QueryInt("limit", defaultPageLimit))

	var pacienteID *int64
	if raw := strings.TrimSpace(c.Query("pacienteId")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid pacienteId"})
		}
		pacienteID = &id
	}

	sesiones, err := h.service.PendingPayments(c.Context(), limit, pacienteID)
	if err != nil {
		return mapSessionError(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "data": sesiones})
}

func mapSessionError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrInvalidInput),
		errors.Is(err, services.ErrInvalidTipoSesion),
		errors.Is(err, services.ErrInvalidMonto),
		errors.Is(err, services.ErrInvalidMetodoPago),
		errors.Is(err, services.ErrMissingNumeroRecibo),
		errors.Is(err, services.ErrUnknownState):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrSameState),
		errors.Is(err, services.ErrMissingMotivo),
		errors.Is(err, services.ErrIllegalTransition),
		errors.Is(err, services.ErrPacienteInactivo):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrPacienteNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Paciente not found"})
	case errors.Is(err, pgx.ErrNoRows):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Session not found"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to process session request"})
	}
}
