package services

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/naobregon27/ClinicaFisioterapia/internal/models"
	"github.com/naobregon27/ClinicaFisioterapia/internal/repository"
	"github.com/naobregon27/ClinicaFisioterapia/pkg/utils"
	"go.uber.org/zap"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrPacienteNotFound  = errors.New("paciente not found")
	ErrPacienteInactivo  = errors.New("paciente is not active")
	ErrInvalidTipoSesion = errors.New("invalid tipo de sesion")
)

type sessionStore interface {
	GetByID(ctx context.Context, sessionID int64) (*models.Session, error)
	Update(ctx context.Context, session *models.Session) (*models.Session, error)
	List(ctx context.Context, filter repository.SessionListFilter) ([]models.Session, int, error)
	ListByPaciente(ctx context.Context, pacienteID int64) ([]models.Session, error)
	ListPendingPayments(ctx context.Context, limit int, pacienteID *int64) ([]models.Session, error)
}

type pacienteReader interface {
	GetByID(ctx context.Context, id int64) (*models.Paciente, error)
}

type SessionService struct {
	db           *pgxpool.Pool
	sessionRepo  sessionStore
	pacienteRepo pacienteReader
	logger       *zap.Logger
}

func NewSessionService(
	db *pgxpool.Pool,
	sessionRepo *repository.SessionRepository,
	pacienteRepo *repository.PatientRepository,
	logger *zap.Logger,
) *SessionService {
	return &SessionService{
		db:           db,
		sessionRepo:  sessionRepo,
		pacienteRepo: pacienteRepo,
		logger:       logger,
	}
}

type RegisterSessionInput struct {
	PacienteID    int64
	Fecha         time.Time
	HoraEntrada   string
	HoraSalida    string
	TipoSesion    models.TipoSesion
	Monto         float64
	Observaciones *string
}

// RegisterSession creates a session in estado programada with an unpaid
// placeholder payment. The numero de sesion is assigned inside a transaction
// under a per-patient advisory lock so concurrent registrations cannot take
// the same slot.
func (s *SessionService) RegisterSession(ctx context.Context, input RegisterSessionInput) (*models.Session, error) {
	if input.PacienteID <= 0 {
		return nil, ErrInvalidInput
	}
	if input.TipoSesion == "" {
		input.TipoSesion = models.TipoPresencial
	}
	if !input.TipoSesion.Valid() {
		return nil, ErrInvalidTipoSesion
	}
	duracion, err := utils.DuracionMinutos(input.HoraEntrada, input.HoraSalida)
	if err != nil {
		return nil, ErrInvalidInput
	}
	if input.Monto < 0 {
		return nil, ErrInvalidInput
	}

	paciente, err := s.pacienteRepo.GetByID(ctx, input.PacienteID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPacienteNotFound
		}
		return nil, err
	}
	if !paciente.Activo {
		return nil, ErrPacienteInactivo
	}
	if input.Monto == 0 {
		input.Monto = paciente.ValorSesion
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	txSessionRepo := repository.NewSessionRepository(tx)

	if _, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock($1)", input.PacienteID); err != nil {
		return nil, err
	}

	numero, err := txSessionRepo.NextNumeroSesion(ctx, input.PacienteID)
	if err != nil {
		return nil, err
	}

	session, err := txSessionRepo.Create(ctx, repository.CreateSessionInput{
		PacienteID:    input.PacienteID,
		Fecha:         input.Fecha,
		HoraEntrada:   input.HoraEntrada,
		HoraSalida:    input.HoraSalida,
		Duracion:      duracion,
		TipoSesion:    input.TipoSesion,
		NumeroSesion:  numero,
		Monto:         input.Monto,
		Observaciones: input.Observaciones,
	})
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	s.logger.Info("session registered",
		zap.Int64("session_id", session.ID),
		zap.Int64("paciente_id", session.PacienteID),
		zap.Int("numero_sesion", session.NumeroSesion),
	)
	return session, nil
}

func (s *SessionService) GetSession(ctx context.Context, sessionID int64) (*models.Session, error) {
	return s.sessionRepo.GetByID(ctx, sessionID)
}

func (s *SessionService) ListSessions(ctx context.Context, filter repository.SessionListFilter) ([]models.Session, int, error) {
	return s.sessionRepo.List(ctx, filter)
}

type UpdateSessionInput struct {
	Estado        *models.EstadoSesion
	Motivo        string
	Fecha         *time.Time
	HoraEntrada   *string
	HoraSalida    *string
	Observaciones *string
}

// UpdateSession applies editable-field changes and, when a target estado is
// supplied, routes the change through the state machine. The client's edit
// form re-sends the whole session, so an estado equal to the current one is
// treated as no state change rather than a transition. Payment is never
// touched here.
func (s *SessionService) UpdateSession(ctx context.Context, sessionID int64, input UpdateSessionInput) (*models.Session, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	updated := *session
	if input.Fecha != nil {
		updated.Fecha = *input.Fecha
	}
	if input.HoraEntrada != nil {
		updated.HoraEntrada = *input.HoraEntrada
	}
	if input.HoraSalida != nil {
		updated.HoraSalida = *input.HoraSalida
	}
	if input.HoraEntrada != nil || input.HoraSalida != nil {
		duracion, err := utils.DuracionMinutos(updated.HoraEntrada, updated.HoraSalida)
		if err != nil {
			return nil, ErrInvalidInput
		}
		updated.Duracion = duracion
	}
	if input.Observaciones != nil {
		updated.Observaciones = input.Observaciones
	}

	if input.Estado != nil && *input.Estado != updated.Estado {
		updated, err = TransitionSession(updated, *input.Estado, input.Motivo)
		if err != nil {
			return nil, err
		}
	}

	persisted, err := s.sessionRepo.Update(ctx, &updated)
	if err != nil {
		return nil, err
	}

	s.logger.Info("session updated",
		zap.Int64("session_id", persisted.ID),
		zap.String("estado", string(persisted.Estado)),
	)
	return persisted, nil
}

// CancelSession is the shortcut the client uses for the cancelada transition.
func (s *SessionService) CancelSession(ctx context.Context, sessionID int64, motivo string) (*models.Session, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	cancelled, err := TransitionSession(*session, models.EstadoCancelada, motivo)
	if err != nil {
		return nil, err
	}

	persisted, err := s.sessionRepo.Update(ctx, &cancelled)
	if err != nil {
		return nil, err
	}

	s.logger.Info("session cancelled",
		zap.Int64("session_id", persisted.ID),
		zap.String("motivo", motivo),
	)
	return persisted, nil
}

// RegisterPayment validates and replaces the session's payment record inside
// a transaction, locking the row so concurrent registrations serialize.
func (s *SessionService) RegisterPayment(ctx context.Context, sessionID int64, input PaymentInput) (*models.Session, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	txSessionRepo := repository.NewSessionRepository(tx)

	session, err := txSessionRepo.GetByIDForUpdate(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	paid, err := ApplyPayment(*session, input, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	persisted, err := txSessionRepo.Update(ctx, &paid)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	s.logger.Info("payment registered",
		zap.Int64("session_id", persisted.ID),
		zap.Float64("monto", persisted.Pago.Monto),
		zap.String("metodo", string(persisted.Pago.Metodo)),
		zap.Bool("pagado", persisted.Pago.Pagado),
	)
	return persisted, nil
}

type PatientHistory struct {
	Paciente *models.Paciente
	Sesiones []models.Session
	Saldo    models.SaldoPaciente
	Total    int
}

// History returns a page of the patient's sessions plus the plan-wide
// balance, which is always computed over the full session list.
func (s *SessionService) History(ctx context.Context, pacienteID int64, page, limit int) (*PatientHistory, error) {
	paciente, err := s.pacienteRepo.GetByID(ctx, pacienteID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPacienteNotFound
		}
		return nil, err
	}

	todas, err := s.sessionRepo.ListByPaciente(ctx, pacienteID)
	if err != nil {
		return nil, err
	}

	pagina, total, err := s.sessionRepo.List(ctx, repository.SessionListFilter{
		PacienteID: &pacienteID,
		Page:       page,
		Limit:      limit,
	})
	if err != nil {
		return nil, err
	}

	return &PatientHistory{
		Paciente: paciente,
		Sesiones: pagina,
		Saldo:    ComputePatientBalance(paciente.Plan(), todas),
		Total:    total,
	}, nil
}

// PendingPayments lists unpaid, non-cancelled sessions, oldest first.
func (s *SessionService) PendingPayments(ctx context.Context, limit int, pacienteID *int64) ([]models.Session, error) {
	return s.sessionRepo.ListPendingPayments(ctx, limit, pacienteID)
}

// Balance exposes the plan-wide balance for a single patient.
func (s *SessionService) Balance(ctx context.Context, pacienteID int64) (*models.SaldoPaciente, error) {
	paciente, err := s.pacienteRepo.GetByID(ctx, pacienteID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPacienteNotFound
		}
		return nil, err
	}

	sesiones, err := s.sessionRepo.ListByPaciente(ctx, pacienteID)
	if err != nil {
		return nil, err
	}

	saldo := ComputePatientBalance(paciente.Plan(), sesiones)
	return &saldo, nil
}
