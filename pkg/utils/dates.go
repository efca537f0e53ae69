package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const FechaLayout = "2006-01-02"

// ParseFecha parses a yyyy-MM-dd string into a UTC midnight time.
func ParseFecha(value string) (time.Time, error) {
	t, err := time.Parse(FechaLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, fmt.Errorf("fecha must be yyyy-MM-dd: %w", err)
	}
	return t, nil
}

func FormatFecha(t time.Time) string {
	return t.Format(FechaLayout)
}

// SameDay compares two times by calendar date only.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// ParseHoraMin converts an HH:MM wall-clock string to minutes since midnight.
func ParseHoraMin(value string) (int, error) {
	parts := strings.SplitN(strings.TrimSpace(value), ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("hora must be HH:MM, got %q", value)
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil || hours < 0 || hours > 23 {
		return 0, fmt.Errorf("hora must be HH:MM, got %q", value)
	}
	mins, err := strconv.Atoi(parts[1])
	if err != nil || mins < 0 || mins > 59 {
		return 0, fmt.Errorf("hora must be HH:MM, got %q", value)
	}
	return hours*60 + mins, nil
}

// DuracionMinutos returns the span between two HH:MM strings.
// The exit time must be strictly after the entry time.
func DuracionMinutos(entrada, salida string) (int, error) {
	in, err := ParseHoraMin(entrada)
	if err != nil {
		return 0, err
	}
	out, err := ParseHoraMin(salida)
	if err != nil {
		return 0, err
	}
	if out <= in {
		return 0, fmt.Errorf("horaSalida %q must be after horaEntrada %q", salida, entrada)
	}
	return out - in, nil
}
