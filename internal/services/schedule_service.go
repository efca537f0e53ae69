package services

import (
	"context"
	"time"

	"github.com/naobregon27/ClinicaFisioterapia/internal/models"
	"github.com/naobregon27/ClinicaFisioterapia/internal/repository"
	"github.com/naobregon27/ClinicaFisioterapia/pkg/utils"
	"go.uber.org/zap"
)

type scheduleStore interface {
	ListByDateRange(ctx context.Context, desde, hasta time.Time) ([]models.Session, error)
}

type ScheduleService struct {
	sessionRepo scheduleStore
	cache       *CalendarCache
	logger      *zap.Logger
}

func NewScheduleService(
	sessionRepo *repository.SessionRepository,
	cache *CalendarCache,
	logger *zap.Logger,
) *ScheduleService {
	return &ScheduleService{
		sessionRepo: sessionRepo,
		cache:       cache,
		logger:      logger,
	}
}

// DailySchedule fetches the day's sessions and aggregates them into the
// planilla. A fetch failure propagates; partial or empty data aggregates to
// an empty planilla rather than an error.
func (s *ScheduleService) DailySchedule(ctx context.Context, fecha time.Time) (*models.PlanillaDiaria, error) {
	sesiones, err := s.sessionRepo.ListByDateRange(ctx, fecha, fecha)
	if err != nil {
		return nil, err
	}

	planilla := BuildDailySchedule(sesiones, fecha)
	return &planilla, nil
}

// MonthlyStats aggregates a date window and feeds the calendar cache with the
// days it saw.
func (s *ScheduleService) MonthlyStats(ctx context.Context, inicio, fin time.Time) (*models.EstadisticasMensuales, error) {
	sesiones, err := s.sessionRepo.ListByDateRange(ctx, inicio, fin)
	if err != nil {
		return nil, err
	}

	resumen := BuildMonthlySummary(sesiones, inicio, fin)
	s.refreshCalendar(inicio, fin, resumen.DiasConSesiones)

	s.logger.Debug("monthly stats aggregated",
		zap.String("desde", resumen.FechaInicio),
		zap.String("hasta", resumen.FechaFin),
		zap.Int("sesiones", resumen.Generales.TotalSesiones),
	)
	return &resumen, nil
}

// refreshCalendar updates the month cache from an aggregated window. Only a
// window covering exactly one whole calendar month replaces that month's
// entry; any other window is merged per month, so a partial or cross-month
// aggregation never installs an incomplete day list under a month key.
func (s *ScheduleService) refreshCalendar(inicio, fin time.Time, dias []string) {
	if coversWholeMonth(inicio, fin) {
		s.cache.Put(MonthKey(inicio), dias)
		return
	}

	marked := make(map[string]struct{}, len(dias))
	for _, dia := range dias {
		marked[dia] = struct{}{}
	}
	s.cache.Merge(marked)
}

func coversWholeMonth(inicio, fin time.Time) bool {
	if inicio.Day() != 1 {
		return false
	}
	ultimo := time.Date(inicio.Year(), inicio.Month(), 1, 0, 0, 0, 0, inicio.Location()).AddDate(0, 1, -1)
	return utils.SameDay(fin, ultimo)
}

// MarkedDaysForMonth serves the calendar from the cache when the month was
// already aggregated, fetching only on a miss.
func (s *ScheduleService) MarkedDaysForMonth(ctx context.Context, inicio, fin time.Time) ([]string, error) {
	if cached := s.cache.Days(MonthKey(inicio)); cached != nil {
		return cached, nil
	}

	resumen, err := s.MonthlyStats(ctx, inicio, fin)
	if err != nil {
		return nil, err
	}
	return resumen.DiasConSesiones, nil
}
