package handlers

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/naobregon27/ClinicaFisioterapia/internal/models"
	"github.com/naobregon27/ClinicaFisioterapia/internal/repository"
)

type balanceReader interface {
	Balance(ctx context.Context, pacienteID int64) (*models.SaldoPaciente, error)
}

type patientStore interface {
	Create(ctx context.Context, paciente *models.Paciente) error
	GetByID(ctx context.Context, id int64) (*models.Paciente, error)
	List(ctx context.Context) ([]models.Paciente, error)
	Update(ctx context.Context, paciente *models.Paciente) (*models.Paciente, error)
}

type PatientHandler struct {
	pacienteRepo patientStore
	balances     balanceReader
}

func NewPatientHandler(pacienteRepo *repository.PatientRepository, balances balanceReader) *PatientHandler {
	return &PatientHandler{pacienteRepo: pacienteRepo, balances: balances}
}

type patientRequest struct {
	Nombre                    string  `json:"nombre"`
	Apellido                  string  `json:"apellido"`
	Telefono                  *string `json:"telefono"`
	Email                     *string `json:"email"`
	ValorSesion               float64 `json:"valorSesion"`
	TotalSesionesPlanificadas *int    `json:"totalSesionesPlanificadas"`
	Activo                    *bool   `json:"activo"`
}

func (h *PatientHandler) CreatePatient(c *fiber.Ctx) error {
	var req patientRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if strings.TrimSpace(req.Nombre) == "" || strings.TrimSpace(req.Apellido) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "nombre and apellido are required"})
	}
	if req.ValorSesion < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "valorSesion must not be negative"})
	}

	paciente := models.Paciente{
		Nombre:                    strings.TrimSpace(req.Nombre),
		Apellido:                  strings.TrimSpace(req.Apellido),
		Telefono:                  req.Telefono,
		Email:                     req.Email,
		ValorSesion:               req.ValorSesion,
		TotalSesionesPlanificadas: req.TotalSesionesPlanificadas,
	}
	if err := h.pacienteRepo.Create(c.Context(), &paciente); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create paciente"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"paciente": paciente})
}

func (h *PatientHandler) ListPatients(c *fiber.Ctx) error {
	pacientes, err := h.pacienteRepo.List(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to list pacientes"})
	}
	return c.JSON(fiber.Map{"data": pacientes})
}

func (h *PatientHandler) GetPatient(c *fiber.Ctx) error {
	pacienteID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || pacienteID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid paciente id"})
	}

	paciente, err := h.pacienteRepo.GetByID(c.Context(), pacienteID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Paciente not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch paciente"})
	}

	saldo, err := h.balances.Balance(c.Context(), pacienteID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to compute saldo"})
	}

	return c.JSON(fiber.Map{"paciente": paciente, "saldo": saldo})
}

func (h *PatientHandler) UpdatePatient(c *fiber.Ctx) error {
	pacienteID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || pacienteID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid paciente id"})
	}

	var req patientRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	paciente, err := h.pacienteRepo.GetByID(c.Context(), pacienteID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Paciente not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch paciente"})
	}

	if strings.TrimSpace(req.Nombre) != "" {
		paciente.Nombre = strings.TrimSpace(req.Nombre)
	}
	if strings.TrimSpace(req.Apellido) != "" {
		paciente.Apellido = strings.TrimSpace(req.Apellido)
	}
	if req.Telefono != nil {
		paciente.Telefono = req.Telefono
	}
	if req.Email != nil {
		paciente.Email = req.Email
	}
	if req.ValorSesion > 0 {
		paciente.ValorSesion = req.ValorSesion
	}
	if req.TotalSesionesPlanificadas != nil {
		paciente.TotalSesionesPlanificadas = req.TotalSesionesPlanificadas
	}
	if req.Activo != nil {
		paciente.Activo = *req.Activo
	}

	updated, err := h.pacienteRepo.Update(c.Context(), paciente)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update paciente"})
	}

	return c.JSON(fiber.Map{"paciente": updated})
}
