package services

import (
	"strings"
	"sync"
	"time"

	"github.com/naobregon27/ClinicaFisioterapia/internal/models"
	"github.com/naobregon27/ClinicaFisioterapia/pkg/utils"
)

// NormalizeDateKey reduces a raw date representation from the store to a
// yyyy-MM-dd key. The store historically returned dates as plain strings,
// RFC3339 timestamps, time values or objects carrying a fecha/dia field,
// so all of those are accepted. A malformed value yields ok=false and is
// skipped by callers, never treated as fatal.
func NormalizeDateKey(value any) (string, bool) {
	switch v := value.(type) {
	case nil:
		return "", false
	case time.Time:
		if v.IsZero() {
			return "", false
		}
		return utils.FormatFecha(v), true
	case *time.Time:
		if v == nil {
			return "", false
		}
		return NormalizeDateKey(*v)
	case string:
		datePart, _, _ := strings.Cut(strings.TrimSpace(v), "T")
		if _, err := utils.ParseFecha(datePart); err != nil {
			return "", false
		}
		return datePart, true
	case models.Session:
		return NormalizeDateKey(v.Fecha)
	case *models.Session:
		if v == nil {
			return "", false
		}
		return NormalizeDateKey(v.Fecha)
	case map[string]any:
		if inner, ok := v["fecha"]; ok {
			return NormalizeDateKey(inner)
		}
		if inner, ok := v["dia"]; ok {
			return NormalizeDateKey(inner)
		}
		return "", false
	default:
		return "", false
	}
}

// MarkedDays reduces a collection of raw session records to the distinct set
// of calendar dates carrying at least one session. When inicio/fin are
// non-zero, days outside the window are excluded.
func MarkedDays(values []any, inicio, fin time.Time) map[string]struct{} {
	marked := make(map[string]struct{})
	for _, value := range values {
		key, ok := NormalizeDateKey(value)
		if !ok {
			continue
		}
		if !inicio.IsZero() && key < utils.FormatFecha(inicio) {
			continue
		}
		if !fin.IsZero() && key > utils.FormatFecha(fin) {
			continue
		}
		marked[key] = struct{}{}
	}
	return marked
}

// MonthKey returns the yyyy-MM cache key for a date.
func MonthKey(t time.Time) string {
	return t.Format("2006-01")
}

// CalendarCache holds marked days keyed by month so previously fetched months
// are not re-aggregated. It is owned by whoever constructs it; there is no
// process-wide instance. A refresh of an already cached month replaces it,
// last writer wins.
type CalendarCache struct {
	mu     sync.Mutex
	months map[string][]string
}

func NewCalendarCache() *CalendarCache {
	return &CalendarCache{months: make(map[string][]string)}
}

// Put stores the sorted day list for one month, replacing any prior entry.
func (c *CalendarCache) Put(monthKey string, dias []string) {
	copied := make([]string, len(dias))
	copy(copied, dias)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.months[monthKey] = copied
}

// Merge adds marked days into their respective months without dropping days
// already cached for those months.
func (c *CalendarCache) Merge(dias map[string]struct{}) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for dia := range dias {
		fecha, err := utils.ParseFecha(dia)
		if err != nil {
			continue
		}
		key := MonthKey(fecha)
		set := make(map[string]struct{}, len(c.months[key])+1)
		for _, existing := range c.months[key] {
			set[existing] = struct{}{}
		}
		set[dia] = struct{}{}
		c.months[key] = sortedKeys(set)
	}
}

// Days returns the cached day list for a month, or nil when the month has
// not been fetched yet.
func (c *CalendarCache) Days(monthKey string) []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	cached, ok := c.months[monthKey]
	if !ok {
		return nil
	}
	copied := make([]string, len(cached))
	copy(copied, cached)
	return copied
}
