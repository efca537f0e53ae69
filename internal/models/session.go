package models

import "time"

type EstadoSesion string

const (
	EstadoProgramada   EstadoSesion = "programada"
	EstadoRealizada    EstadoSesion = "realizada"
	EstadoCancelada    EstadoSesion = "cancelada"
	EstadoAusente      EstadoSesion = "ausente"
	EstadoReprogramada EstadoSesion = "reprogramada"
)

func (e EstadoSesion) Valid() bool {
	switch e {
	case EstadoProgramada, EstadoRealizada, EstadoCancelada, EstadoAusente, EstadoReprogramada:
		return true
	}
	return false
}

type TipoSesion string

const (
	TipoPresencial TipoSesion = "presencial"
	TipoDomicilio  TipoSesion = "domicilio"
	TipoVirtual    TipoSesion = "virtual"
	TipoEvaluacion TipoSesion = "evaluacion"
	TipoControl    TipoSesion = "control"
)

func (t TipoSesion) Valid() bool {
	switch t {
	case TipoPresencial, TipoDomicilio, TipoVirtual, TipoEvaluacion, TipoControl:
		return true
	}
	return false
}

type MetodoPago string

const (
	MetodoEfectivo      MetodoPago = "efectivo"
	MetodoTransferencia MetodoPago = "transferencia"
	MetodoTarjeta       MetodoPago = "tarjeta"
	MetodoObraSocial    MetodoPago = "obra_social"
	MetodoMixto         MetodoPago = "mixto"
	MetodoPendiente     MetodoPago = "pendiente"
)

func (m MetodoPago) Valid() bool {
	switch m {
	case MetodoEfectivo, MetodoTransferencia, MetodoTarjeta, MetodoObraSocial, MetodoMixto, MetodoPendiente:
		return true
	}
	return false
}

type Comprobante struct {
	Numero string `json:"numero"`
	Tipo   string `json:"tipo"`
	URL    string `json:"url,omitempty"`
}

type Pago struct {
	Monto       float64      `json:"monto"`
	Metodo      MetodoPago   `json:"metodoPago"`
	Pagado      bool         `json:"pagado"`
	FechaPago   *time.Time   `json:"fechaPago,omitempty"`
	Referencia  string       `json:"referencia,omitempty"`
	Comprobante *Comprobante `json:"comprobante,omitempty"`
}

type Session struct {
	ID                int64        `json:"id"`
	PacienteID        int64        `json:"pacienteId"`
	Fecha             time.Time    `json:"fecha"`
	HoraEntrada       string       `json:"horaEntrada"`
	HoraSalida        string       `json:"horaSalida"`
	Duracion          int          `json:"duracion"`
	TipoSesion        TipoSesion   `json:"tipoSesion"`
	Estado            EstadoSesion `json:"estado"`
	NumeroSesion      int          `json:"numeroSesion"`
	MotivoCancelacion *string      `json:"motivoCancelacion,omitempty"`
	Observaciones     *string      `json:"observaciones,omitempty"`
	Pago              Pago         `json:"pago"`
	CreatedAt         time.Time    `json:"createdAt"`
	UpdatedAt         time.Time    `json:"updatedAt"`
}

// SesionPlanilla is a session decorated with its display position
// within a daily schedule, ordered by entry time.
type SesionPlanilla struct {
	Orden int `json:"orden"`
	Session
}

type ResumenDiario struct {
	TotalSesiones       int     `json:"totalSesiones"`
	SesionesRealizadas  int     `json:"sesionesRealizadas"`
	SesionesProgramadas int     `json:"sesionesProgramadas"`
	SesionesCanceladas  int     `json:"sesionesCanceladas"`
	TotalRecaudado      float64 `json:"totalRecaudado"`
	TotalPendiente      float64 `json:"totalPendiente"`
}

type PlanillaDiaria struct {
	Fecha    string           `json:"fecha"`
	Sesiones []SesionPlanilla `json:"sesiones"`
	Resumen  ResumenDiario    `json:"resumen"`
}

type Financiero struct {
	TotalRecaudado float64 `json:"totalRecaudado"`
	TotalPendiente float64 `json:"totalPendiente"`
}

type EstadisticasMensuales struct {
	FechaInicio     string        `json:"fechaInicio"`
	FechaFin        string        `json:"fechaFin"`
	Generales       ResumenDiario `json:"generales"`
	Financiero      Financiero    `json:"financiero"`
	DiasConSesiones []string      `json:"diasConSesiones"`
}

// SaldoPaciente is the plan-wide balance, distinct from the
// day-scoped pending figure in ResumenDiario.
type SaldoPaciente struct {
	TotalPlan     float64 `json:"totalPlan"`
	MontoPagado   float64 `json:"montoPagado"`
	MontoAdeudado float64 `json:"montoAdeudado"`
}

type PaginationMeta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}
