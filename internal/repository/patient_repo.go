package repository

import (
	"context"

	"github.com/naobregon27/ClinicaFisioterapia/internal/models"
)

type PatientRepository struct {
	db DBTX
}

func NewPatientRepository(db DBTX) *PatientRepository {
	return &PatientRepository{db: db}
}

func (r *PatientRepository) Create(ctx context.Context, paciente *models.Paciente) error {
	query := `
		INSERT INTO pacientes (nombre, apellido, telefono, email, valor_sesion, total_sesiones_planificadas, activo)
		VALUES ($1, $2, $3, $4, $5, $6, TRUE)
		RETURNING id, activo, created_at, updated_at
	`
	return r.db.QueryRow(
		ctx,
		query,
		paciente.Nombre,
		paciente.Apellido,
		paciente.Telefono,
		paciente.Email,
		paciente.ValorSesion,
		paciente.TotalSesionesPlanificadas,
	).Scan(&paciente.ID, &paciente.Activo, &paciente.CreatedAt, &paciente.UpdatedAt)
}

func (r *PatientRepository) GetByID(ctx context.Context, id int64) (*models.Paciente, error) {
	query := `
		SELECT id, nombre, apellido, telefono, email, valor_sesion, total_sesiones_planificadas, activo, created_at, updated_at
		FROM pacientes
		WHERE id = $1
	`
	var paciente models.Paciente
	err := r.db.QueryRow(ctx, query, id).Scan(
		&paciente.ID,
		&paciente.Nombre,
		&paciente.Apellido,
		&paciente.Telefono,
		&paciente.Email,
		&paciente.ValorSesion,
		&paciente.TotalSesionesPlanificadas,
		&paciente.Activo,
		&paciente.CreatedAt,
		&paciente.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &paciente, nil
}

func (r *PatientRepository) List(ctx context.Context) ([]models.Paciente, error) {
	query := `
		SELECT id, nombre, apellido, telefono, email, valor_sesion, total_sesiones_planificadas, activo, created_at, updated_at
		FROM pacientes
		ORDER BY apellido ASC, nombre ASC, id ASC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	pacientes := make([]models.Paciente, 0)
	for rows.Next() {
		var paciente models.Paciente
		if err := rows.Scan(
			&paciente.ID,
			&paciente.Nombre,
			&paciente.Apellido,
			&paciente.Telefono,
			&paciente.Email,
			&paciente.ValorSesion,
			&paciente.TotalSesionesPlanificadas,
			&paciente.Activo,
			&paciente.CreatedAt,
			&paciente.UpdatedAt,
		); err != nil {
			return nil, err
		}
		pacientes = append(pacientes, paciente)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return pacientes, nil
}

func (r *PatientRepository) Update(ctx context.Context, paciente *models.Paciente) (*models.Paciente, error) {
	query := `
		UPDATE pacientes
		SET nombre = $2,
		    apellido = $3,
		    telefono = $4,
		    email = $5,
		    valor_sesion = $6,
		    total_sesiones_planificadas = $7,
		    activo = $8,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING id, nombre, apellido, telefono, email, valor_sesion, total_sesiones_planificadas, activo, created_at, updated_at
	`
	var updated models.Paciente
	err := r.db.QueryRow(
		ctx,
		query,
		paciente.ID,
		paciente.Nombre,
		paciente.Apellido,
		paciente.Telefono,
		paciente.Email,
		paciente.ValorSesion,
		paciente.TotalSesionesPlanificadas,
		paciente.Activo,
	).Scan(
		&updated.ID,
		&updated.Nombre,
		&updated.Apellido,
		&updated.Telefono,
		&updated.Email,
		&updated.ValorSesion,
		&updated.TotalSesionesPlanificadas,
		&updated.Activo,
		&updated.CreatedAt,
		&updated.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}
