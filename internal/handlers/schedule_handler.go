package handlers

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/naobregon27/ClinicaFisioterapia/internal/models"
)

type ScheduleHandler struct {
	service scheduleApplicationService
}

type scheduleApplicationService interface {
	DailySchedule(ctx context.Context, fecha time.Time) (*models.PlanillaDiaria, error)
	MonthlyStats(ctx context.Context, inicio, fin time.Time) (*models.EstadisticasMensuales, error)
	MarkedDaysForMonth(ctx context.Context, inicio, fin time.Time) ([]string, error)
}

func NewScheduleHandler(service scheduleApplicationService) *ScheduleHandler {
	return &ScheduleHandler{service: service}
}

func (h *ScheduleHandler) DailySchedule(c *fiber.Ctx) error {
	fecha := time.Now().UTC()
	if raw := strings.TrimSpace(c.Query("fecha")); raw != "" {
		parsed, err := parseFechaParam(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "fecha must be yyyy-MM-dd"})
		}
		fecha = parsed
	}

	planilla, err := h.service.DailySchedule(c.Context(), fecha)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to build planilla diaria"})
	}

	return c.JSON(fiber.Map{"success": true, "data": planilla})
}

func (h *ScheduleHandler) MonthlyStats(c *fiber.Ctx) error {
	now := time.Now().UTC()
	inicio := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	fin := inicio.AddDate(0, 1, -1)

	if raw := strings.TrimSpace(c.Query("fechaInicio")); raw != "" {
		parsed, err := parseFechaParam(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "fechaInicio must be yyyy-MM-dd"})
		}
		inicio = parsed
	}
	if raw := strings.TrimSpace(c.Query("fechaFin")); raw != "" {
		parsed, err := parseFechaParam(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "fechaFin must be yyyy-MM-dd"})
		}
		fin = parsed
	}
	if fin.Before(inicio) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "fechaFin must not precede fechaInicio"})
	}

	estadisticas, err := h.service.MonthlyStats(c.Context(), inicio, fin)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to build estadisticas"})
	}

	return c.JSON(fiber.Map{"success": true, "estadisticas": estadisticas})
}

// Calendar returns the days of a month carrying at least one session, served
// from the month cache when the month was already aggregated. The month is
// taken from ?mes=yyyy-MM, defaulting to the current month.
func (h *ScheduleHandler) Calendar(c *fiber.Ctx) error {
	now := time.Now().UTC()
	inicio := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	if raw := strings.TrimSpace(c.Query("mes")); raw != "" {
		parsed, err := time.Parse("2006-01", raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "mes must be yyyy-MM"})
		}
		inicio = time.Date(parsed.Year(), parsed.Month(), 1, 0, 0, 0, 0, time.UTC)
	}
	fin := inicio.AddDate(0, 1, -1)

	dias, err := h.service.MarkedDaysForMonth(c.Context(), inicio, fin)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to build calendario"})
	}
	if dias == nil {
		dias = []string{}
	}

	return c.JSON(fiber.Map{"success": true, "dias": dias})
}
