package services

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/naobregon27/ClinicaFisioterapia/internal/models"
)

var (
	ErrInvalidMonto        = errors.New("monto must be greater than 0")
	ErrInvalidMetodoPago   = errors.New("invalid metodo de pago")
	ErrMissingNumeroRecibo = errors.New("comprobante requires a numero")
)

type PaymentInput struct {
	Monto       float64
	Metodo      models.MetodoPago
	Pagado      bool
	Comprobante *models.Comprobante
}

// ApplyPayment replaces the session's payment record. Registering twice with
// the same input yields the same monetary state; the payment reference is
// regenerated on every registration. The session state is left untouched.
func ApplyPayment(session models.Session, input PaymentInput, now time.Time) (models.Session, error) {
	if input.Monto <= 0 {
		return session, ErrInvalidMonto
	}
	if !input.Metodo.Valid() {
		return session, ErrInvalidMetodoPago
	}

	pago := models.Pago{
		Monto:      input.Monto,
		Metodo:     input.Metodo,
		Pagado:     input.Pagado,
		Referencia: uuid.NewString(),
	}

	if input.Pagado {
		fechaPago := now.UTC()
		pago.FechaPago = &fechaPago
	}

	if input.Comprobante != nil {
		comprobante := *input.Comprobante
		comprobante.Numero = strings.TrimSpace(comprobante.Numero)
		if comprobante.Numero == "" {
			return session, ErrMissingNumeroRecibo
		}
		if comprobante.Tipo == "" {
			comprobante.Tipo = "recibo"
		}
		pago.Comprobante = &comprobante
	}

	session.Pago = pago
	return session, nil
}
