package services

import (
	"math"

	"github.com/naobregon27/ClinicaFisioterapia/internal/models"
)

// ComputePatientBalance derives the plan-wide balance from a patient's plan
// and their sessions. The total plan cost comes from the plan when a session
// count is known, otherwise from the sum of individual session amounts.
// The owed amount is floored at zero: overpayment is absorbed, never reported
// as a negative balance.
func ComputePatientBalance(plan models.TratamientoPlan, sesiones []models.Session) models.SaldoPaciente {
	var totalPlan float64
	if plan.TotalSesionesPlanificadas != nil && *plan.TotalSesionesPlanificadas > 0 {
		totalPlan = plan.ValorSesion * float64(*plan.TotalSesionesPlanificadas)
	} else {
		for _, sesion := range sesiones {
			totalPlan += sesion.Pago.Monto
		}
	}

	var pagado float64
	for _, sesion := range sesiones {
		if sesion.Pago.Pagado {
			pagado += sesion.Pago.Monto
		}
	}

	return models.SaldoPaciente{
		TotalPlan:     totalPlan,
		MontoPagado:   pagado,
		MontoAdeudado: math.Max(totalPlan-pagado, 0),
	}
}
