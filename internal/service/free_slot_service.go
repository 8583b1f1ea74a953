package service

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/edt-api/internal/dto"
	"github.com/noah-isme/edt-api/internal/models"
	appErrors "github.com/noah-isme/edt-api/pkg/errors"
)

const mostAvailableLimit = 3

// FreeSlotService summarises professor and room availability. It reads availability only
// and never consults stored schedules, so a free resource may already be booked.
type FreeSlotService struct {
	professors professorLister
	rooms      roomLister
	cache      *CacheService
	validator  *validator.Validate
	logger     *zap.Logger
	cacheTTL   time.Duration
}

// NewFreeSlotService constructs a FreeSlotService.
func NewFreeSlotService(professors professorLister, rooms roomLister, cache *CacheService, validate *validator.Validate, logger *zap.Logger, cacheTTL time.Duration) *FreeSlotService {
	if validate == nil {
		validate = dto.NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FreeSlotService{
		professors: professors,
		rooms:      rooms,
		cache:      cache,
		validator:  validate,
		logger:     logger,
		cacheTTL:   cacheTTL,
	}
}

// Analyze builds the free-slot report for the given filters. The boolean reports whether
// the report came from cache.
func (s *FreeSlotService) Analyze(ctx context.Context, query dto.FreeSlotQuery) (*dto.FreeSlotReport, bool, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid free-slot filters")
	}

	key := freeSlotCacheKey(query)
	var cached dto.FreeSlotReport
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return &cached, true, nil
	}

	var (
		professors []models.Professor
		rooms      []models.Room
	)
	g, gctx := errgroup.WithContext(ctx)
	if query.Type != dto.ResourceRoom {
		g.Go(func() (err error) {
			professors, err = s.professors.List(gctx)
			return err
		})
	}
	if query.Type != dto.ResourceProfessor {
		g.Go(func() (err error) {
			rooms, err = s.rooms.List(gctx)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load resources")
	}

	report := buildFreeSlotReport(professors, rooms, newSlotFilter(query))
	_ = s.cache.Set(ctx, key, report, s.cacheTTL)
	return report, false, nil
}

type slotFilter struct {
	day  models.Day
	slot models.TimeSlot
}

func newSlotFilter(query dto.FreeSlotQuery) slotFilter {
	return slotFilter{day: models.Day(query.Day), slot: models.TimeSlot(query.TimeSlot)}
}

func (f slotFilter) matches(day models.Day, slot models.TimeSlot) bool {
	return (f.day == "" || f.day == day) && (f.slot == "" || f.slot == slot)
}

// cells returns the grid cells kept by the filter in scheduling order.
func (f slotFilter) cells() []models.SlotKey {
	out := make([]models.SlotKey, 0, len(models.Days)*len(models.TimeSlots))
	for _, day := range models.Days {
		for _, slot := range models.TimeSlots {
			if f.matches(day, slot) {
				out = append(out, models.SlotKey{Day: day, TimeSlot: slot})
			}
		}
	}
	return out
}

// freeSlots keeps the availability entries matching the filter, in grid order.
func (f slotFilter) freeSlots(availability models.Availability) ([]models.AvailabilityEntry, int) {
	entries := make([]models.AvailabilityEntry, 0)
	total := 0
	for _, day := range models.Days {
		slots := make([]models.TimeSlot, 0)
		for _, slot := range models.TimeSlots {
			if f.matches(day, slot) && availability.Has(day, slot) {
				slots = append(slots, slot)
			}
		}
		if len(slots) == 0 {
			continue
		}
		entries = append(entries, models.AvailabilityEntry{Day: day, TimeSlots: slots})
		total += len(slots)
	}
	return entries, total
}

func buildFreeSlotReport(professors []models.Professor, rooms []models.Room, filter slotFilter) *dto.FreeSlotReport {
	report := &dto.FreeSlotReport{
		Professors:    make([]dto.ResourceFreeSlots, 0),
		Rooms:         make([]dto.ResourceFreeSlots, 0),
		Utilization:   make([]dto.SlotUtilization, 0),
		MostAvailable: make([]dto.ResourceFreeSlots, 0),
	}

	availabilities := make([]models.Availability, 0, len(professors)+len(rooms))
	for _, p := range professors {
		availabilities = append(availabilities, p.Availability)
		slots, total := filter.freeSlots(p.Availability)
		if total == 0 {
			continue
		}
		report.Professors = append(report.Professors, dto.ResourceFreeSlots{
			ID:             p.ID,
			Name:           p.FullName(),
			Kind:           dto.ResourceProfessor,
			TotalFreeSlots: total,
			Slots:          slots,
		})
	}
	for _, r := range rooms {
		availabilities = append(availabilities, r.Availability)
		slots, total := filter.freeSlots(r.Availability)
		if total == 0 {
			continue
		}
		report.Rooms = append(report.Rooms, dto.ResourceFreeSlots{
			ID:             r.ID,
			Name:           r.Name,
			Kind:           dto.ResourceRoom,
			RoomType:       r.Type,
			TotalFreeSlots: total,
			Slots:          slots,
		})
	}

	resources := len(availabilities)
	for _, cell := range filter.cells() {
		free := 0
		for _, availability := range availabilities {
			if availability.Has(cell.Day, cell.TimeSlot) {
				free++
			}
		}
		usage := dto.SlotUtilization{Day: cell.Day, TimeSlot: cell.TimeSlot, Free: free, Occupied: resources - free}
		if resources > 0 {
			usage.Percentage = math.Round(float64(usage.Occupied)/float64(resources)*10000) / 100
		}
		report.Utilization = append(report.Utilization, usage)
	}

	ranked := make([]dto.ResourceFreeSlots, 0, len(report.Professors)+len(report.Rooms))
	ranked = append(ranked, report.Professors...)
	ranked = append(ranked, report.Rooms...)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].TotalFreeSlots != ranked[j].TotalFreeSlots {
			return ranked[i].TotalFreeSlots > ranked[j].TotalFreeSlots
		}
		return ranked[i].Name < ranked[j].Name
	})
	if len(ranked) > mostAvailableLimit {
		ranked = ranked[:mostAvailableLimit]
	}
	report.MostAvailable = ranked
	return report
}
