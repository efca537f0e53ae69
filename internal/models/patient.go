package models

import "time"

type Paciente struct {
	ID                        int64     `json:"id"`
	Nombre                    string    `json:"nombre"`
	Apellido                  string    `json:"apellido"`
	Telefono                  *string   `json:"telefono,omitempty"`
	Email                     *string   `json:"email,omitempty"`
	ValorSesion               float64   `json:"valorSesion"`
	TotalSesionesPlanificadas *int      `json:"totalSesionesPlanificadas,omitempty"`
	Activo                    bool      `json:"activo"`
	CreatedAt                 time.Time `json:"createdAt"`
	UpdatedAt                 time.Time `json:"updatedAt"`
}

// TratamientoPlan carries the plan fields the balance calculator reads.
type TratamientoPlan struct {
	ValorSesion               float64
	TotalSesionesPlanificadas *int
}

func (p *Paciente) Plan() TratamientoPlan {
	return TratamientoPlan{
		ValorSesion:               p.ValorSesion,
		TotalSesionesPlanificadas: p.TotalSesionesPlanificadas,
	}
}
