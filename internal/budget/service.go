package budget

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// storageTimeout bounds every repository call. A slower backend
// surfaces as a retryable ErrStorage instead of hanging the request.
const storageTimeout = 5 * time.Second

// Service is the facade in front of a Repository. It owns validation,
// per-owner write serialization and the read-side filtering.
type Service struct {
	repo Repository

	// one mutex per owner; mutations for the same owner are
	// serialized, different owners never contend
	locks sync.Map
}

// NewService returns a Service backed by the given repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) lockOwner(owner string) func() {
	lock, _ := s.locks.LoadOrStore(owner, &sync.Mutex{})
	mutex := lock.(*sync.Mutex)
	mutex.Lock()
	return mutex.Unlock
}

// wrap classifies errors crossing the repository boundary. Timeouts
// become retryable storage errors.
func wrap(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return ErrStorage
	}

	return err
}

// Add validates, normalizes and persists a new item.
func (s *Service) Add(ctx context.Context, owner string, draft Draft) (Item, error) {
	item, err := draft.item(owner)
	if err != nil {
		return Item{}, err
	}

	unlock := s.lockOwner(owner)
	defer unlock()

	ctx, cancel := context.WithTimeout(ctx, storageTimeout)
	defer cancel()

	if err := wrap(s.repo.Create(ctx, item)); err != nil {
		return Item{}, err
	}

	log.Debug().Str("owner", owner).Str("item", item.ID.String()).Str("scope", item.Scope.String()).Msg("budget item added")
	return item, nil
}

// Update applies a partial update. Only supplied fields are validated
// and replaced.
func (s *Service) Update(ctx context.Context, owner string, id uuid.UUID, update Update) (Item, error) {
	unlock := s.lockOwner(owner)
	defer unlock()

	ctx, cancel := context.WithTimeout(ctx, storageTimeout)
	defer cancel()

	item, err := s.repo.Get(ctx, owner, id)
	if err != nil {
		return Item{}, wrap(err)
	}

	if err := update.apply(&item); err != nil {
		return Item{}, err
	}

	if err := wrap(s.repo.Save(ctx, item)); err != nil {
		return Item{}, err
	}

	return item, nil
}

// Delete removes an item.
func (s *Service) Delete(ctx context.Context, owner string, id uuid.UUID) error {
	unlock := s.lockOwner(owner)
	defer unlock()

	ctx, cancel := context.WithTimeout(ctx, storageTimeout)
	defer cancel()

	return wrap(s.repo.Delete(ctx, owner, id))
}

// Info is the item listing with the years the owner has data for.
type Info struct {
	Items          []Item `json:"items"`
	AvailableYears []int  `json:"availableYears"`
}

// Info returns an owner's items, filtered to a year when year is not
// zero. Permanent items match every year filter.
func (s *Service) Info(ctx context.Context, owner string, year int) (Info, error) {
	ctx, cancel := context.WithTimeout(ctx, storageTimeout)
	defer cancel()

	items, err := s.repo.ForOwner(ctx, owner)
	if err != nil {
		return Info{}, wrap(err)
	}

	info := Info{
		Items:          items,
		AvailableYears: AvailableYears(items),
	}

	if year != 0 {
		info.Items = ItemsForYear(items, year)
	}

	return info, nil
}

// Dashboard returns the aggregate for one year.
func (s *Service) Dashboard(ctx context.Context, owner string, year int) (AggregateResult, error) {
	ctx, cancel := context.WithTimeout(ctx, storageTimeout)
	defer cancel()

	result, err := s.repo.Dashboard(ctx, owner, year)
	if err != nil {
		return AggregateResult{}, wrap(err)
	}

	return result, nil
}

// ItemsByMonth returns a year's items split by category and filtered
// to the given months. months == nil shows all months.
func (s *Service) ItemsByMonth(ctx context.Context, owner string, year int, months []int) (MonthItems, error) {
	ctx, cancel := context.WithTimeout(ctx, storageTimeout)
	defer cancel()

	items, err := s.repo.ForOwner(ctx, owner)
	if err != nil {
		return MonthItems{}, wrap(err)
	}

	return FilterMonths(ItemsForYear(items, year), months), nil
}

// Snapshot flattens all periods of an owner for LLM context injection.
// It is always rebuilt from the items, persisted summaries are a
// cache and never the source of truth.
func (s *Service) Snapshot(ctx context.Context, owner string) ([]PeriodSnapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, storageTimeout)
	defer cancel()

	items, err := s.repo.ForOwner(ctx, owner)
	if err != nil {
		return nil, wrap(err)
	}

	return Snapshots(items), nil
}
