package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/naobregon27/ClinicaFisioterapia/internal/handlers"
	"github.com/naobregon27/ClinicaFisioterapia/internal/repository"
	"github.com/naobregon27/ClinicaFisioterapia/internal/services"
	"go.uber.org/zap"
)

func RegisterRoutes(app *fiber.App, db *pgxpool.Pool, logger *zap.Logger) {
	sessionRepo := repository.NewSessionRepository(db)
	pacienteRepo := repository.NewPatientRepository(db)

	calendarCache := services.NewCalendarCache()
	sessionService := services.NewSessionService(db, sessionRepo, pacienteRepo, logger)
	scheduleService := services.NewScheduleService(sessionRepo, calendarCache, logger)

	sessionHandler := handlers.NewSessionHandler(sessionService)
	scheduleHandler := handlers.NewScheduleHandler(scheduleService)
	patientHandler := handlers.NewPatientHandler(pacienteRepo, sessionService)

	api := app.Group("/api/v1")

	sesiones := api.Group("/sesiones")
	sesiones.Post("", sessionHandler.RegisterSession)
	sesiones.Get("", sessionHandler.ListSessions)
	sesiones.Get("/planilla-diaria", scheduleHandler.DailySchedule)
	sesiones.Get("/estadisticas/resumen", scheduleHandler.MonthlyStats)
	sesiones.Get("/calendario", scheduleHandler.Calendar)
	sesiones.Get("/pagos-pendientes", sessionHandler.PendingPayments)
	sesiones.Get("/paciente/:pacienteId", sessionHandler.PatientHistory)
	sesiones.Get("/:id", sessionHandler.GetSession)
	sesiones.Put("/:id", sessionHandler.UpdateSession)
	sesiones.Put("/:id/cancelar", sessionHandler.CancelSession)
	sesiones.Post("/:id/pago", sessionHandler.RegisterPayment)

	pacientes := api.Group("/pacientes")
	pacientes.Post("", patientHandler.CreatePatient)
	pacientes.Get("", patientHandler.ListPatients)
	pacientes.Get("/:id", patientHandler.GetPatient)
	pacientes.Put("/:id", patientHandler.UpdatePatient)
}
