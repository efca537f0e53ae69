package services

import (
	"reflect"
	"testing"
	"time"

	"github.com/naobregon27/ClinicaFisioterapia/internal/models"
)

func TestNormalizeDateKeyAcceptsHeterogeneousInputs(t *testing.T) {
	fecha := time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC)
	sesion := buildSession(models.EstadoProgramada)
	sesion.Fecha = fecha

	cases := []struct {
		name  string
		input any
		want  string
	}{
		{"plain string", "2025-03-10", "2025-03-10"},
		{"timestamp string", "2025-03-10T14:30:00Z", "2025-03-10"},
		{"time value", fecha, "2025-03-10"},
		{"session value", sesion, "2025-03-10"},
		{"object with fecha", map[string]any{"fecha": "2025-03-10"}, "2025-03-10"},
		{"object with dia", map[string]any{"dia": fecha}, "2025-03-10"},
		{"nested object", map[string]any{"fecha": map[string]any{"dia": "2025-03-10"}}, "2025-03-10"},
	}
	for _, tc := range cases {
		got, ok := NormalizeDateKey(tc.input)
		if !ok || got != tc.want {
			t.Fatalf("%s: expected %q, got %q ok=%v", tc.name, tc.want, got, ok)
		}
	}
}

func TestNormalizeDateKeySkipsMalformedValues(t *testing.T) {
	for _, input := range []any{nil, "", "10/03/2025", 42, map[string]any{"otro": "x"}, time.Time{}} {
		if _, ok := NormalizeDateKey(input); ok {
			t.Fatalf("expected malformed value %v to be skipped", input)
		}
	}
}

func TestMarkedDaysDeduplicatesAndSkipsBadRecords(t *testing.T) {
	values := []any{
		"2025-03-05",
		"2025-03-05T09:00:00Z",
		map[string]any{"fecha": "2025-03-07"},
		"not a date",
	}

	marked := MarkedDays(values, time.Time{}, time.Time{})
	want := map[string]struct{}{"2025-03-05": {}, "2025-03-07": {}}
	if !reflect.DeepEqual(marked, want) {
		t.Fatalf("expected %v, got %v", want, marked)
	}
}

func TestMarkedDaysRespectsWindow(t *testing.T) {
	values := []any{"2025-02-28", "2025-03-05", "2025-04-01"}
	inicio := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	fin := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)

	marked := MarkedDays(values, inicio, fin)
	if len(marked) != 1 {
		t.Fatalf("expected 1 day in window, got %v", marked)
	}
	if _, ok := marked["2025-03-05"]; !ok {
		t.Fatalf("expected 2025-03-05 marked, got %v", marked)
	}
}

func TestMarkedDaysDistributesOverUnion(t *testing.T) {
	a := []any{"2025-03-05", "2025-03-06"}
	b := []any{"2025-03-06", "2025-03-09"}

	union := MarkedDays(append(append([]any{}, a...), b...), time.Time{}, time.Time{})

	merged := MarkedDays(a, time.Time{}, time.Time{})
	for dia := range MarkedDays(b, time.Time{}, time.Time{}) {
		merged[dia] = struct{}{}
	}
	if !reflect.DeepEqual(union, merged) {
		t.Fatalf("expected union %v, got %v", merged, union)
	}
}

func TestCalendarCachePutReplacesMonth(t *testing.T) {
	cache := NewCalendarCache()
	cache.Put("2025-03", []string{"2025-03-05"})
	cache.Put("2025-03", []string{"2025-03-09"})

	if got := cache.Days("2025-03"); !reflect.DeepEqual(got, []string{"2025-03-09"}) {
		t.Fatalf("expected last write to win, got %v", got)
	}
	if got := cache.Days("2025-04"); got != nil {
		t.Fatalf("expected nil for unfetched month, got %v", got)
	}
}

func TestCalendarCacheMergeKeepsExistingDays(t *testing.T) {
	cache := NewCalendarCache()
	cache.Put("2025-03", []string{"2025-03-05"})
	cache.Merge(map[string]struct{}{"2025-03-09": {}, "2025-04-02": {}})

	if got := cache.Days("2025-03"); !reflect.DeepEqual(got, []string{"2025-03-05", "2025-03-09"}) {
		t.Fatalf("expected merged march days, got %v", got)
	}
	if got := cache.Days("2025-04"); !reflect.DeepEqual(got, []string{"2025-04-02"}) {
		t.Fatalf("expected april day, got %v", got)
	}
}

func TestCalendarCacheDaysReturnsCopy(t *testing.T) {
	cache := NewCalendarCache()
	cache.Put("2025-03", []string{"2025-03-05"})

	days := cache.Days("2025-03")
	days[0] = "mutated"
	if got := cache.Days("2025-03"); got[0] != "2025-03-05" {
		t.Fatalf("expected cache unaffected by caller mutation, got %v", got)
	}
}
