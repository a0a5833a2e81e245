// Package filestore implements budget.Repository on per-user JSON
// files, one file per owner under <root>/users/<owner>/budget.json.
//
// There are no persisted summaries here: each file is small, so the
// dashboard aggregates live on every read. The whole file is replaced
// atomically on mutation, which gives the same all-or-nothing
// semantics the relational backend gets from its transaction.
package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/finadvisor/backend/internal/budget"
	"github.com/finadvisor/backend/internal/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Store is the flat-file repository.
type Store struct {
	root string
}

// New returns a Store writing below the given data directory.
func New(root string) *Store {
	return &Store{root: root}
}

// fileItem is the on-disk form of one item. The field names match the
// layout the Python predecessor of this backend wrote, so existing
// budget.json files keep working.
type fileItem struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Scope     types.Scope     `json:"scope"`
	TimeType  types.Cadence   `json:"time_type"`
	Category  types.Category  `json:"category"`
	Amount    decimal.Decimal `json:"amount"`
	Note      string          `json:"description,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type fileBudget struct {
	Items []fileItem `json:"items"`
}

func toFile(item budget.Item) fileItem {
	return fileItem{
		ID:        item.ID,
		Name:      item.Name,
		Scope:     item.Scope,
		TimeType:  item.Cadence,
		Category:  item.Category,
		Amount:    item.Amount,
		Note:      item.Note,
		CreatedAt: item.CreatedAt,
		UpdatedAt: item.UpdatedAt,
	}
}

// Files written by the Python predecessor may hold synonym spellings
// like "月度"; normalize them on read, keep unknown values verbatim.
func normalizeCadence(c types.Cadence) types.Cadence {
	if parsed, err := types.ParseCadence(string(c)); err == nil {
		return parsed
	}
	return c
}

func normalizeCategory(c types.Category) types.Category {
	if parsed, err := types.ParseCategory(string(c)); err == nil {
		return parsed
	}
	return c
}

func fromFile(owner string, f fileItem) budget.Item {
	return budget.Item{
		ID:        f.ID,
		Owner:     owner,
		Name:      f.Name,
		Scope:     f.Scope,
		Cadence:   normalizeCadence(f.TimeType),
		Category:  normalizeCategory(f.Category),
		Amount:    f.Amount,
		Note:      f.Note,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
}

func (s *Store) path(owner string) (string, error) {
	// Owners are opaque IDs, but they become path components here.
	if owner == "" || owner == "." || owner == ".." || filepath.Base(owner) != owner {
		return "", fmt.Errorf("%w: invalid owner identifier", budget.ErrStorage)
	}

	return filepath.Join(s.root, "users", owner, "budget.json"), nil
}

func (s *Store) load(ctx context.Context, owner string) (fileBudget, error) {
	if err := ctx.Err(); err != nil {
		return fileBudget{}, err
	}

	path, err := s.path(owner)
	if err != nil {
		return fileBudget{}, err
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return fileBudget{}, nil
	}
	if err != nil {
		return fileBudget{}, fmt.Errorf("%w: %v", budget.ErrStorage, err)
	}

	var b fileBudget
	if err := json.Unmarshal(data, &b); err != nil {
		return fileBudget{}, fmt.Errorf("%w: %v", budget.ErrStorage, err)
	}

	return b, nil
}

// save replaces the owner's file via rename so that readers never see
// a partially written file.
func (s *Store) save(ctx context.Context, owner string, b fileBudget) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path, err := s.path(owner)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return fmt.Errorf("%w: %v", budget.ErrStorage, err)
	}

	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %v", budget.ErrStorage, err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("%w: %v", budget.ErrStorage, err)
	}

	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("%w: %v", budget.ErrStorage, err)
	}

	return nil
}

// Create appends the item to the owner's file.
func (s *Store) Create(ctx context.Context, item budget.Item) error {
	b, err := s.load(ctx, item.Owner)
	if err != nil {
		return err
	}

	b.Items = append(b.Items, toFile(item))
	return s.save(ctx, item.Owner, b)
}

// Get returns an owner's item by ID.
func (s *Store) Get(ctx context.Context, owner string, id uuid.UUID) (budget.Item, error) {
	b, err := s.load(ctx, owner)
	if err != nil {
		return budget.Item{}, err
	}

	for _, f := range b.Items {
		if f.ID == id {
			return fromFile(owner, f), nil
		}
	}

	return budget.Item{}, budget.ErrNotFound
}

// Save replaces the stored item.
func (s *Store) Save(ctx context.Context, item budget.Item) error {
	b, err := s.load(ctx, item.Owner)
	if err != nil {
		return err
	}

	for i, f := range b.Items {
		if f.ID == item.ID {
			b.Items[i] = toFile(item)
			return s.save(ctx, item.Owner, b)
		}
	}

	return budget.ErrNotFound
}

// Delete removes an owner's item by ID.
func (s *Store) Delete(ctx context.Context, owner string, id uuid.UUID) error {
	b, err := s.load(ctx, owner)
	if err != nil {
		return err
	}

	remaining := make([]fileItem, 0, len(b.Items))
	for _, f := range b.Items {
		if f.ID != id {
			remaining = append(remaining, f)
		}
	}

	if len(remaining) == len(b.Items) {
		return budget.ErrNotFound
	}

	b.Items = remaining
	return s.save(ctx, owner, b)
}

// ForOwner returns all items of an owner in insertion order.
func (s *Store) ForOwner(ctx context.Context, owner string) ([]budget.Item, error) {
	b, err := s.load(ctx, owner)
	if err != nil {
		return nil, err
	}

	items := make([]budget.Item, 0, len(b.Items))
	for _, f := range b.Items {
		items = append(items, fromFile(owner, f))
	}

	return items, nil
}

// Dashboard aggregates live from the items.
func (s *Store) Dashboard(ctx context.Context, owner string, year int) (budget.AggregateResult, error) {
	items, err := s.ForOwner(ctx, owner)
	if err != nil {
		return budget.AggregateResult{}, err
	}

	return budget.Aggregate(items, year), nil
}
