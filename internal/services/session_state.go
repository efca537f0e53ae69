package services

import (
	"errors"
	"strings"

	"github.com/naobregon27/ClinicaFisioterapia/internal/models"
)

var (
	ErrSameState         = errors.New("session already in requested state")
	ErrUnknownState      = errors.New("unknown session state")
	ErrMissingMotivo     = errors.New("cancellation requires a motivo")
	ErrIllegalTransition = errors.New("illegal state transition")
)

// sessionTransitions is the explicit transition table. Every state may move
// to every other state; cancelada sessions can be re-opened by an explicit
// correction, so no state is terminal. The cancelada guard (non-blank motivo)
// is the only precondition.
var sessionTransitions = map[models.EstadoSesion][]models.EstadoSesion{
	models.EstadoProgramada:   {models.EstadoRealizada, models.EstadoCancelada, models.EstadoAusente, models.EstadoReprogramada},
	models.EstadoRealizada:    {models.EstadoProgramada, models.EstadoCancelada, models.EstadoAusente, models.EstadoReprogramada},
	models.EstadoCancelada:    {models.EstadoProgramada, models.EstadoRealizada, models.EstadoAusente, models.EstadoReprogramada},
	models.EstadoAusente:      {models.EstadoProgramada, models.EstadoRealizada, models.EstadoCancelada, models.EstadoReprogramada},
	models.EstadoReprogramada: {models.EstadoProgramada, models.EstadoRealizada, models.EstadoCancelada, models.EstadoAusente},
}

func transitionAllowed(from, to models.EstadoSesion) bool {
	for _, candidate := range sessionTransitions[from] {
		if candidate == to {
			return true
		}
	}
	return false
}

// TransitionSession moves a session to a target state, enforcing the
// transition table and the cancellation guard. The payment record is never
// touched. The motivo is stored when entering cancelada and cleared when
// leaving it.
func TransitionSession(session models.Session, target models.EstadoSesion, motivo string) (models.Session, error) {
	if !target.Valid() || !session.Estado.Valid() {
		return session, ErrUnknownState
	}
	if target == session.Estado {
		return session, ErrSameState
	}
	if !transitionAllowed(session.Estado, target) {
		return session, ErrIllegalTransition
	}

	motivo = strings.TrimSpace(motivo)
	if target == models.EstadoCancelada {
		if motivo == "" {
			return session, ErrMissingMotivo
		}
		session.MotivoCancelacion = &motivo
	} else {
		session.MotivoCancelacion = nil
	}

	session.Estado = target
	return session, nil
}
