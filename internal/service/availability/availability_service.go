package availability

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Domenick1991/tablebooking/internal/domain"
	"github.com/Domenick1991/tablebooking/internal/repository"
)

type AvailabilityUseCase interface {
	FindAvailable(ctx context.Context, partySize int, at time.Time, dietaryFilters []string) ([]AvailableTable, error)
}

// Cache is the subset of the redis cache the availability service needs.
type Cache interface {
	GetCatalog(ctx context.Context) ([]domain.Restaurant, error)
	SetCatalog(ctx context.Context, restaurants []domain.Restaurant) error
}

// AvailableTable is one bookable candidate for the requested party.
type AvailableTable struct {
	RestaurantName string `json:"restaurant_name"`
	TableID        int64  `json:"table_id"`
}

type AvailabilityService struct {
	catalog      repository.CatalogRepository
	reservations repository.ReservationRepository
	cache        Cache
}

func NewAvailabilityService(catalog repository.CatalogRepository, reservations repository.ReservationRepository, cache Cache) *AvailabilityService {
	return &AvailabilityService{catalog: catalog, reservations: reservations, cache: cache}
}

// restaurantPredicate reports whether a restaurant satisfies one dietary
// filter term.
type restaurantPredicate func(domain.Restaurant) bool

// endorsedFor matches when any endorsement contains the term as a
// case-insensitive substring.
func endorsedFor(term string) restaurantPredicate {
	return func(r domain.Restaurant) bool {
		for _, e := range r.Endorsements {
			if strings.Contains(strings.ToLower(e.Name), term) {
				return true
			}
		}
		return false
	}
}

// anyOf reduces independent predicates with logical OR.
func anyOf(preds []restaurantPredicate) restaurantPredicate {
	return func(r domain.Restaurant) bool {
		for _, p := range preds {
			if p(r) {
				return true
			}
		}
		return false
	}
}

// FindAvailable returns every table that seats the party, belongs to a
// restaurant matching the dietary filters, and has no reservation whose
// booking window intersects the requested time. It never writes.
func (s *AvailabilityService) FindAvailable(ctx context.Context, partySize int, at time.Time, dietaryFilters []string) ([]AvailableTable, error) {
	if partySize < 1 {
		return nil, fmt.Errorf("%w: party size must be positive", domain.ErrInvalidInput)
	}
	if at.IsZero() {
		return nil, fmt.Errorf("%w: time is required", domain.ErrInvalidInput)
	}

	restaurants, err := s.listCatalog(ctx)
	if err != nil {
		return nil, err
	}

	preds := make([]restaurantPredicate, 0, len(dietaryFilters))
	for _, f := range dietaryFilters {
		term := strings.ToLower(strings.TrimSpace(f))
		if term == "" {
			continue
		}
		preds = append(preds, endorsedFor(term))
	}
	endorsed := anyOf(preds)

	candidates := make([]AvailableTable, 0)
	tableIDs := make([]int64, 0)
	for _, rest := range restaurants {
		if len(preds) > 0 && !endorsed(rest) {
			continue
		}
		for _, t := range rest.Tables {
			if t.Capacity < partySize {
				continue
			}
			candidates = append(candidates, AvailableTable{RestaurantName: rest.Name, TableID: t.ID})
			tableIDs = append(tableIDs, t.ID)
		}
	}
	if len(candidates) == 0 {
		return candidates, nil
	}

	from, to := domain.BookingWindowBounds(at)
	conflicted, err := s.reservations.ConflictingTableIDs(ctx, tableIDs, from, to)
	if err != nil {
		return nil, err
	}
	busy := make(map[int64]bool, len(conflicted))
	for _, id := range conflicted {
		busy[id] = true
	}

	available := make([]AvailableTable, 0, len(candidates))
	for _, c := range candidates {
		if !busy[c.TableID] {
			available = append(available, c)
		}
	}
	return available, nil
}

func (s *AvailabilityService) listCatalog(ctx context.Context) ([]domain.Restaurant, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetCatalog(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	restaurants, err := s.catalog.ListRestaurants(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.SetCatalog(ctx, restaurants)
	}
	return restaurants, nil
}

var _ AvailabilityUseCase = (*AvailabilityService)(nil)
