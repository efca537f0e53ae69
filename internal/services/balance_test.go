package services

import (
	"testing"

	"github.com/naobregon27/ClinicaFisioterapia/internal/models"
)

func paidSession(monto float64) models.Session {
	s := buildSession(models.EstadoRealizada)
	s.Pago = models.Pago{Monto: monto, Metodo: models.MetodoEfectivo, Pagado: true}
	return s
}

func unpaidSession(monto float64) models.Session {
	s := buildSession(models.EstadoProgramada)
	s.Pago = models.Pago{Monto: monto, Metodo: models.MetodoPendiente, Pagado: false}
	return s
}

func TestComputePatientBalanceWithPlannedSessions(t *testing.T) {
	planned := 10
	plan := models.TratamientoPlan{ValorSesion: 5000, TotalSesionesPlanificadas: &planned}
	sesiones := []models.Session{paidSession(5000), paidSession(5000), paidSession(5000)}

	saldo := ComputePatientBalance(plan, sesiones)
	if saldo.TotalPlan != 50000 {
		t.Fatalf("expected totalPlan 50000, got %v", saldo.TotalPlan)
	}
	if saldo.MontoPagado != 15000 {
		t.Fatalf("expected pagado 15000, got %v", saldo.MontoPagado)
	}
	if saldo.MontoAdeudado != 35000 {
		t.Fatalf("expected adeudado 35000, got %v", saldo.MontoAdeudado)
	}
}

func TestComputePatientBalanceFallsBackToSessionAmounts(t *testing.T) {
	plan := models.TratamientoPlan{ValorSesion: 5000}
	sesiones := []models.Session{paidSession(4000), unpaidSession(6000)}

	saldo := ComputePatientBalance(plan, sesiones)
	if saldo.TotalPlan != 10000 {
		t.Fatalf("expected totalPlan 10000, got %v", saldo.TotalPlan)
	}
	if saldo.MontoPagado != 4000 {
		t.Fatalf("expected pagado 4000, got %v", saldo.MontoPagado)
	}
	if saldo.MontoAdeudado != 6000 {
		t.Fatalf("expected adeudado 6000, got %v", saldo.MontoAdeudado)
	}
}

func TestComputePatientBalanceNeverNegative(t *testing.T) {
	planned := 2
	plan := models.TratamientoPlan{ValorSesion: 1000, TotalSesionesPlanificadas: &planned}
	sesiones := []models.Session{paidSession(5000), paidSession(5000)}

	saldo := ComputePatientBalance(plan, sesiones)
	if saldo.MontoAdeudado != 0 {
		t.Fatalf("expected adeudado floored at 0, got %v", saldo.MontoAdeudado)
	}
}

func TestComputePatientBalanceZeroSessions(t *testing.T) {
	saldo := ComputePatientBalance(models.TratamientoPlan{ValorSesion: 5000}, nil)
	if saldo.TotalPlan != 0 || saldo.MontoPagado != 0 || saldo.MontoAdeudado != 0 {
		t.Fatalf("expected zero balance, got %+v", saldo)
	}
}

func TestComputePatientBalanceZeroValorSesion(t *testing.T) {
	planned := 10
	plan := models.TratamientoPlan{ValorSesion: 0, TotalSesionesPlanificadas: &planned}
	saldo := ComputePatientBalance(plan, []models.Session{paidSession(3000)})
	if saldo.TotalPlan != 0 {
		t.Fatalf("expected totalPlan 0, got %v", saldo.TotalPlan)
	}
	if saldo.MontoAdeudado != 0 {
		t.Fatalf("expected adeudado 0, got %v", saldo.MontoAdeudado)
	}
}
