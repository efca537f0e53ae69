package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/naobregon27/ClinicaFisioterapia/internal/models"
)

type stubPatientStore struct {
	createErr    error
	getResult    *models.Paciente
	getErr       error
	listResult   []models.Paciente
	listErr      error
	updateResult *models.Paciente
	updateErr    error

	lastCreated *models.Paciente
	lastUpdated *models.Paciente
	lastID      int64
}

func (s *stubPatientStore) Create(_ context.Context, paciente *models.Paciente) error {
	s.lastCreated = paciente
	if s.createErr == nil {
		paciente.ID = 12
		paciente.Activo = true
	}
	return s.createErr
}

func (s *stubPatientStore) GetByID(_ context.Context, id int64) (*models.Paciente, error) {
	s.lastID = id
	return s.getResult, s.getErr
}

func (s *stubPatientStore) List(_ context.Context) ([]models.Paciente, error) {
	return s.listResult, s.listErr
}

func (s *stubPatientStore) Update(_ context.Context, paciente *models.Paciente) (*models.Paciente, error) {
	s.lastUpdated = paciente
	return s.updateResult, s.updateErr
}

type stubBalanceReader struct {
	result *models.SaldoPaciente
	err    error
}

func (s *stubBalanceReader) Balance(_ context.Context, _ int64) (*models.SaldoPaciente, error) {
	return s.result, s.err
}

func newPatientTestApp(store patientStore, balances balanceReader) *fiber.App {
	handler := &PatientHandler{pacienteRepo: store, balances: balances}
	app := fiber.New()
	app.Post("/api/v1/pacientes", handler.CreatePatient)
	app.Get("/api/v1/pacientes", handler.ListPatients)
	app.Get("/api/v1/pacientes/:id", handler.GetPatient)
	app.Put("/api/v1/pacientes/:id", handler.UpdatePatient)
	return app
}

func samplePaciente() *models.Paciente {
	plan := 10
	return &models.Paciente{
		ID:                        12,
		Nombre:                    "Ana",
		Apellido:                  "Gomez",
		ValorSesion:               5000,
		TotalSesionesPlanificadas: &plan,
		Activo:                    true,
	}
}

func TestCreatePatientTrimsAndReturnsCreated(t *testing.T) {
	store := &stubPatientStore{}
	app := newPatientTestApp(store, &stubBalanceReader{})

	body := `{"nombre":"  Ana ","apellido":" Gomez","valorSesion":5000,"totalSesionesPlanificadas":10}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/pacientes", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	if store.lastCreated == nil || store.lastCreated.Nombre != "Ana" || store.lastCreated.Apellido != "Gomez" {
		t.Fatalf("expected trimmed names, got %+v", store.lastCreated)
	}

	var payload struct {
		Paciente models.Paciente `json:"paciente"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if payload.Paciente.ID != 12 || !payload.Paciente.Activo {
		t.Fatalf("unexpected paciente: %+v", payload.Paciente)
	}
}

func TestCreatePatientRequiresNombreAndApellido(t *testing.T) {
	store := &stubPatientStore{}
	app := newPatientTestApp(store, &stubBalanceReader{})

	body := `{"nombre":"","apellido":"Gomez","valorSesion":5000}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/pacientes", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if store.lastCreated != nil {
		t.Fatalf("store should not be called on invalid input")
	}
}

func TestGetPatientIncludesSaldo(t *testing.T) {
	store := &stubPatientStore{getResult: samplePaciente()}
	balances := &stubBalanceReader{
		result: &models.SaldoPaciente{TotalPlan: 50000, MontoPagado: 15000, MontoAdeudado: 35000},
	}
	app := newPatientTestApp(store, balances)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/pacientes/12", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var payload struct {
		Paciente models.Paciente      `json:"paciente"`
		Saldo    models.SaldoPaciente `json:"saldo"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if payload.Paciente.ID != 12 {
		t.Fatalf("unexpected paciente: %+v", payload.Paciente)
	}
	if payload.Saldo.MontoAdeudado != 35000 {
		t.Fatalf("unexpected saldo: %+v", payload.Saldo)
	}
}

func TestGetPatientMapsNoRowsTo404(t *testing.T) {
	store := &stubPatientStore{getErr: pgx.ErrNoRows}
	app := newPatientTestApp(store, &stubBalanceReader{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/pacientes/99", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestUpdatePatientAppliesPartialChanges(t *testing.T) {
	existing := samplePaciente()
	store := &stubPatientStore{getResult: existing, updateResult: existing}
	app := newPatientTestApp(store, &stubBalanceReader{})

	body := `{"valorSesion":6000,"activo":false}`
	req := httptest.NewRequest(http.MethodPut, "/api/v1/pacientes/12", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if store.lastUpdated == nil {
		t.Fatal("expected update call")
	}
	if store.lastUpdated.ValorSesion != 6000 {
		t.Fatalf("expected valorSesion updated, got %v", store.lastUpdated.ValorSesion)
	}
	if store.lastUpdated.Activo {
		t.Fatal("expected activo set to false")
	}
	if store.lastUpdated.Nombre != "Ana" {
		t.Fatalf("expected untouched nombre, got %q", store.lastUpdated.Nombre)
	}
}

func TestListPatientsReturnsData(t *testing.T) {
	store := &stubPatientStore{listResult: []models.Paciente{*samplePaciente()}}
	app := newPatientTestApp(store, &stubBalanceReader{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/pacientes", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var payload struct {
		Data []models.Paciente `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(payload.Data) != 1 || payload.Data[0].Apellido != "Gomez" {
		t.Fatalf("unexpected response: %+v", payload.Data)
	}
}
