package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/naobregon27/ClinicaFisioterapia/internal/models"
)

const sessionColumns = `
	id, paciente_id, fecha, hora_entrada, hora_salida, duracion, tipo_sesion,
	estado, numero_sesion, motivo_cancelacion, observaciones,
	pago_monto, pago_metodo, pago_pagado, pago_fecha_pago, pago_referencia,
	comprobante_numero, comprobante_tipo, comprobante_url,
	created_at, updated_at`

type CreateSessionInput struct {
	PacienteID    int64
	Fecha         time.Time
	HoraEntrada   string
	HoraSalida    string
	Duracion      int
	TipoSesion    models.TipoSesion
	NumeroSesion  int
	Monto         float64
	Observaciones *string
}

type SessionListFilter struct {
	PacienteID *int64
	Fecha      *time.Time
	Estado     models.EstadoSesion
	Pagado     *bool
	Page       int
	Limit      int
	SortBy     string
}

type SessionRepository struct {
	db DBTX
}

func NewSessionRepository(db DBTX) *SessionRepository {
	return &SessionRepository{db: db}
}

func scanSession(row pgx.Row) (*models.Session, error) {
	var (
		session           models.Session
		referencia        *string
		comprobanteNumero *string
		comprobanteTipo   *string
		comprobanteURL    *string
	)
	err := row.Scan(
		&session.ID,
		&session.PacienteID,
		&session.Fecha,
		&session.HoraEntrada,
		&session.HoraSalida,
		&session.Duracion,
		&session.TipoSesion,
		&session.Estado,
		&session.NumeroSesion,
		&session.MotivoCancelacion,
		&session.Observaciones,
		&session.Pago.Monto,
		&session.Pago.Metodo,
		&session.Pago.Pagado,
		&session.Pago.FechaPago,
		&referencia,
		&comprobanteNumero,
		&comprobanteTipo,
		&comprobanteURL,
		&session.CreatedAt,
		&session.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if referencia != nil {
		session.Pago.Referencia = *referencia
	}
	if comprobanteNumero != nil {
		comprobante := &models.Comprobante{Numero: *comprobanteNumero}
		if comprobanteTipo != nil {
			comprobante.Tipo = *comprobanteTipo
		}
		if comprobanteURL != nil {
			comprobante.URL = *comprobanteURL
		}
		session.Pago.Comprobante = comprobante
	}
	return &session, nil
}

func (r *SessionRepository) Create(ctx context.Context, input CreateSessionInput) (*models.Session, error) {
	query := fmt.Sprintf(`
		INSERT INTO sesiones (
			paciente_id, fecha, hora_entrada, hora_salida, duracion, tipo_sesion,
			estado, numero_sesion, observaciones, pago_monto, pago_metodo, pago_pagado
		)
		VALUES ($1, $2, $3, $4, $5, $6, 'programada', $7, $8, $9, 'pendiente', FALSE)
		RETURNING %s
	`, sessionColumns)

	return scanSession(r.db.QueryRow(
		ctx,
		query,
		input.PacienteID,
		input.Fecha,
		input.HoraEntrada,
		input.HoraSalida,
		input.Duracion,
		input.TipoSesion,
		input.NumeroSesion,
		input.Observaciones,
		input.Monto,
	))
}

func (r *SessionRepository) GetByID(ctx context.Context, sessionID int64) (*models.Session, error) {
	query := fmt.Sprintf(`SELECT %s FROM sesiones WHERE id = $1`, sessionColumns)
	return scanSession(r.db.QueryRow(ctx, query, sessionID))
}

func (r *SessionRepository) GetByIDForUpdate(ctx context.Context, sessionID int64) (*models.Session, error) {
	query := fmt.Sprintf(`SELECT %s FROM sesiones WHERE id = $1 FOR UPDATE`, sessionColumns)
	return scanSession(r.db.QueryRow(ctx, query, sessionID))
}

// Update persists the mutable fields of a session: state, cancellation
// reason, times, observations and the embedded payment record.
func (r *SessionRepository) Update(ctx context.Context, session *models.Session) (*models.Session, error) {
	var (
		referencia        *string
		comprobanteNumero *string
		comprobanteTipo   *string
		comprobanteURL    *string
	)
	if session.Pago.Referencia != "" {
		referencia = &session.Pago.Referencia
	}
	if session.Pago.Comprobante != nil {
		comprobanteNumero = &session.Pago.Comprobante.Numero
		comprobanteTipo = &session.Pago.Comprobante.Tipo
		if session.Pago.Comprobante.URL != "" {
			comprobanteURL = &session.Pago.Comprobante.URL
		}
	}

	query := fmt.Sprintf(`
		UPDATE sesiones
		SET fecha = $2,
		    hora_entrada = $3,
		    hora_salida = $4,
		    duracion = $5,
		    tipo_sesion = $6,
		    estado = $7,
		    motivo_cancelacion = $8,
		    observaciones = $9,
		    pago_monto = $10,
		    pago_metodo = $11,
		    pago_pagado = $12,
		    pago_fecha_pago = $13,
		    pago_referencia = $14,
		    comprobante_numero = $15,
		    comprobante_tipo = $16,
		    comprobante_url = $17,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING %s
	`, sessionColumns)

	return scanSession(r.db.QueryRow(
		ctx,
		query,
		session.ID,
		session.Fecha,
		session.HoraEntrada,
		session.HoraSalida,
		session.Duracion,
		session.TipoSesion,
		session.Estado,
		session.MotivoCancelacion,
		session.Observaciones,
		session.Pago.Monto,
		session.Pago.Metodo,
		session.Pago.Pagado,
		session.Pago.FechaPago,
		referencia,
		comprobanteNumero,
		comprobanteTipo,
		comprobanteURL,
	))
}

func (r *SessionRepository) List(ctx context.Context, filter SessionListFilter) ([]models.Session, int, error) {
	args := []any{}
	whereParts := []string{"1=1"}

	if filter.PacienteID != nil {
		args = append(args, *filter.PacienteID)
		whereParts = append(whereParts, fmt.Sprintf("paciente_id = $%d", len(args)))
	}
	if filter.Fecha != nil {
		args = append(args, *filter.Fecha)
		whereParts = append(whereParts, fmt.Sprintf("fecha = $%d::date", len(args)))
	}
	if filter.Estado != "" {
		args = append(args, filter.Estado)
		whereParts = append(whereParts, fmt.Sprintf("estado = $%d", len(args)))
	}
	if filter.Pagado != nil {
		args = append(args, *filter.Pagado)
		whereParts = append(whereParts, fmt.Sprintf("pago_pagado = $%d", len(args)))
	}
	where := strings.Join(whereParts, " AND ")

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM sesiones WHERE %s`, where)
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	orderBy := "fecha DESC, hora_entrada DESC, id DESC"
	if filter.SortBy == "fecha" {
		orderBy = "fecha ASC, hora_entrada ASC, id ASC"
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 50
	}
	args = append(args, limit, (page-1)*limit)

	query := fmt.Sprintf(`
		SELECT %s
		FROM sesiones
		WHERE %s
		ORDER BY %s
		LIMIT $%d OFFSET $%d
	`, sessionColumns, where, orderBy, len(args)-1, len(args))

	sessions, err := r.queryMany(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return sessions, total, nil
}

func (r *SessionRepository) ListByPaciente(ctx context.Context, pacienteID int64) ([]models.Session, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM sesiones
		WHERE paciente_id = $1
		ORDER BY fecha ASC, numero_sesion ASC
	`, sessionColumns)
	return r.queryMany(ctx, query, pacienteID)
}

func (r *SessionRepository) ListByDateRange(ctx context.Context, desde, hasta time.Time) ([]models.Session, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM sesiones
		WHERE fecha >= $1::date AND fecha <= $2::date
		ORDER BY fecha ASC, hora_entrada ASC, id ASC
	`, sessionColumns)
	return r.queryMany(ctx, query, desde, hasta)
}

// ListPendingPayments returns unpaid sessions, oldest first. Cancelled
// sessions are excluded: a cancelled session is not collectible.
func (r *SessionRepository) ListPendingPayments(ctx context.Context, limit int, pacienteID *int64) ([]models.Session, error) {
	args := []any{}
	whereParts := []string{"pago_pagado = FALSE", "estado <> 'cancelada'"}
	if pacienteID != nil {
		args = append(args, *pacienteID)
		whereParts = append(whereParts, fmt.Sprintf("paciente_id = $%d", len(args)))
	}
	if limit < 1 {
		limit = 50
	}
	args = append(args, limit)

	query := fmt.Sprintf(`
		SELECT %s
		FROM sesiones
		WHERE %s
		ORDER BY fecha ASC, hora_entrada ASC, id ASC
		LIMIT $%d
	`, sessionColumns, strings.Join(whereParts, " AND "), len(args))

	return r.queryMany(ctx, query, args...)
}

// NextNumeroSesion returns the next ordinal within a patient's plan. Numbers
// are never reassigned, so cancelled sessions keep their slot.
func (r *SessionRepository) NextNumeroSesion(ctx context.Context, pacienteID int64) (int, error) {
	query := `
		SELECT COALESCE(MAX(numero_sesion), 0) + 1
		FROM sesiones
		WHERE paciente_id = $1
	`
	var next int
	if err := r.db.QueryRow(ctx, query, pacienteID).Scan(&next); err != nil {
		return 0, err
	}
	return next, nil
}

func (r *SessionRepository) queryMany(ctx context.Context, query string, args ...any) ([]models.Session, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions := make([]models.Session, 0)
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *session)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}
