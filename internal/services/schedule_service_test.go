package services

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/naobregon27/ClinicaFisioterapia/internal/models"
	"go.uber.org/zap"
)

type fakeScheduleStore struct {
	sesiones []models.Session
	err      error
	calls    int
}

func (f *fakeScheduleStore) ListByDateRange(_ context.Context, _, _ time.Time) ([]models.Session, error) {
	f.calls++
	return f.sesiones, f.err
}

func newScheduleServiceForTest(store scheduleStore) *ScheduleService {
	return &ScheduleService{
		sessionRepo: store,
		cache:       NewCalendarCache(),
		logger:      zap.NewNop(),
	}
}

func sessionOn(fecha time.Time) models.Session {
	s := buildSession(models.EstadoProgramada)
	s.Fecha = fecha
	return s
}

func TestMonthlyStatsCrossMonthWindowSplitsCacheByMonth(t *testing.T) {
	store := &fakeScheduleStore{
		sesiones: []models.Session{
			sessionOn(time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC)),
			sessionOn(time.Date(2025, 4, 2, 0, 0, 0, 0, time.UTC)),
		},
	}
	service := newScheduleServiceForTest(store)

	inicio := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	fin := time.Date(2025, 4, 15, 0, 0, 0, 0, time.UTC)
	if _, err := service.MonthlyStats(context.Background(), inicio, fin); err != nil {
		t.Fatalf("MonthlyStats: %v", err)
	}

	marzo := service.cache.Days("2025-03")
	if !reflect.DeepEqual(marzo, []string{"2025-03-20"}) {
		t.Fatalf("expected only March days under 2025-03, got %v", marzo)
	}
	abril := service.cache.Days("2025-04")
	if !reflect.DeepEqual(abril, []string{"2025-04-02"}) {
		t.Fatalf("expected only April days under 2025-04, got %v", abril)
	}
}

func TestMonthlyStatsPartialWindowKeepsEarlierCachedDays(t *testing.T) {
	store := &fakeScheduleStore{
		sesiones: []models.Session{
			sessionOn(time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC)),
		},
	}
	service := newScheduleServiceForTest(store)
	service.cache.Put("2025-03", []string{"2025-03-05"})

	inicio := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	fin := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)
	if _, err := service.MonthlyStats(context.Background(), inicio, fin); err != nil {
		t.Fatalf("MonthlyStats: %v", err)
	}

	marzo := service.cache.Days("2025-03")
	if !reflect.DeepEqual(marzo, []string{"2025-03-05", "2025-03-20"}) {
		t.Fatalf("expected merged March days, got %v", marzo)
	}
}

func TestMonthlyStatsFullMonthWindowReplacesCachedEntry(t *testing.T) {
	store := &fakeScheduleStore{
		sesiones: []models.Session{
			sessionOn(time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC)),
		},
	}
	service := newScheduleServiceForTest(store)
	service.cache.Put("2025-03", []string{"2025-03-05"})

	inicio := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	fin := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)
	if _, err := service.MonthlyStats(context.Background(), inicio, fin); err != nil {
		t.Fatalf("MonthlyStats: %v", err)
	}

	marzo := service.cache.Days("2025-03")
	if !reflect.DeepEqual(marzo, []string{"2025-03-20"}) {
		t.Fatalf("expected full-month refresh to replace entry, got %v", marzo)
	}
}

func TestMarkedDaysForMonthServesCacheWithoutRefetch(t *testing.T) {
	store := &fakeScheduleStore{}
	service := newScheduleServiceForTest(store)
	service.cache.Put("2025-03", []string{"2025-03-05", "2025-03-07"})

	inicio := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	fin := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)
	dias, err := service.MarkedDaysForMonth(context.Background(), inicio, fin)
	if err != nil {
		t.Fatalf("MarkedDaysForMonth: %v", err)
	}

	if !reflect.DeepEqual(dias, []string{"2025-03-05", "2025-03-07"}) {
		t.Fatalf("unexpected dias: %v", dias)
	}
	if store.calls != 0 {
		t.Fatalf("expected cache hit without fetch, got %d calls", store.calls)
	}
}

func TestMarkedDaysForMonthFetchesAndCachesOnMiss(t *testing.T) {
	store := &fakeScheduleStore{
		sesiones: []models.Session{
			sessionOn(time.Date(2025, 3, 7, 0, 0, 0, 0, time.UTC)),
		},
	}
	service := newScheduleServiceForTest(store)

	inicio := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	fin := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)
	dias, err := service.MarkedDaysForMonth(context.Background(), inicio, fin)
	if err != nil {
		t.Fatalf("MarkedDaysForMonth: %v", err)
	}

	if !reflect.DeepEqual(dias, []string{"2025-03-07"}) {
		t.Fatalf("unexpected dias: %v", dias)
	}
	if store.calls != 1 {
		t.Fatalf("expected one fetch, got %d", store.calls)
	}
	if cached := service.cache.Days("2025-03"); !reflect.DeepEqual(cached, []string{"2025-03-07"}) {
		t.Fatalf("expected month cached after fetch, got %v", cached)
	}
}
