package services

import (
	"sort"
	"time"

	"github.com/naobregon27/ClinicaFisioterapia/internal/models"
	"github.com/naobregon27/ClinicaFisioterapia/pkg/utils"
)

// BuildDailySchedule filters the input to sessions on the target calendar day
// and assigns display ordinals by horaEntrada ascending, ties broken by
// numeroSesion. The pending figure is day-scoped: the sum of unpaid amounts
// for that day, not the patient-level balance.
func BuildDailySchedule(sesiones []models.Session, fecha time.Time) models.PlanillaDiaria {
	delDia := make([]models.Session, 0)
	for _, sesion := range sesiones {
		if utils.SameDay(sesion.Fecha, fecha) {
			delDia = append(delDia, sesion)
		}
	}

	sort.SliceStable(delDia, func(i, j int) bool {
		if delDia[i].HoraEntrada != delDia[j].HoraEntrada {
			return delDia[i].HoraEntrada < delDia[j].HoraEntrada
		}
		return delDia[i].NumeroSesion < delDia[j].NumeroSesion
	})

	planilla := models.PlanillaDiaria{
		Fecha:    utils.FormatFecha(fecha),
		Sesiones: make([]models.SesionPlanilla, 0, len(delDia)),
		Resumen:  summarize(delDia),
	}
	for i, sesion := range delDia {
		planilla.Sesiones = append(planilla.Sesiones, models.SesionPlanilla{
			Orden:   i + 1,
			Session: sesion,
		})
	}
	return planilla
}

// BuildMonthlySummary aggregates sessions inside [inicio, fin] (date-only,
// inclusive) and lists the distinct days carrying at least one session,
// sorted, to seed the calendar. The day list goes through MarkedDays, so a
// session with an unusable fecha is skipped there rather than failing the
// whole aggregation.
func BuildMonthlySummary(sesiones []models.Session, inicio, fin time.Time) models.EstadisticasMensuales {
	delMes := make([]models.Session, 0)
	raw := make([]any, 0, len(sesiones))
	for _, sesion := range sesiones {
		raw = append(raw, sesion)
		if !inDateRange(sesion.Fecha, inicio, fin) {
			continue
		}
		delMes = append(delMes, sesion)
	}

	resumen := summarize(delMes)
	dias := MarkedDays(raw, inicio, fin)
	return models.EstadisticasMensuales{
		FechaInicio: utils.FormatFecha(inicio),
		FechaFin:    utils.FormatFecha(fin),
		Generales:   resumen,
		Financiero: models.Financiero{
			TotalRecaudado: resumen.TotalRecaudado,
			TotalPendiente: resumen.TotalPendiente,
		},
		DiasConSesiones: sortedKeys(dias),
	}
}

func summarize(sesiones []models.Session) models.ResumenDiario {
	var resumen models.ResumenDiario
	resumen.TotalSesiones = len(sesiones)
	for _, sesion := range sesiones {
		switch sesion.Estado {
		case models.EstadoRealizada:
			resumen.SesionesRealizadas++
		case models.EstadoProgramada:
			resumen.SesionesProgramadas++
		case models.EstadoCancelada:
			resumen.SesionesCanceladas++
		}
		if sesion.Pago.Pagado {
			resumen.TotalRecaudado += sesion.Pago.Monto
		} else {
			resumen.TotalPendiente += sesion.Pago.Monto
		}
	}
	return resumen
}

func inDateRange(fecha, inicio, fin time.Time) bool {
	if fecha.Before(truncateDay(inicio)) {
		return false
	}
	return !fecha.After(truncateDay(fin).Add(24*time.Hour - time.Nanosecond))
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
