// Package memory holds mutex-guarded in-memory repositories. They back the
// test suites and the zero-dependency dev mode; the mongo package is the
// production implementation of the same interfaces.
package memory

import (
	"context"
	"sync"

	domainavail "bakeshop/internal/domain/availability"
	"bakeshop/internal/domain/calendar"
)

type BlockRepository struct {
	mu     sync.RWMutex
	blocks map[calendar.Day]domainavail.BlockedDate
}

func NewBlockRepository() *BlockRepository {
	return &BlockRepository{blocks: make(map[calendar.Day]domainavail.BlockedDate)}
}

func (r *BlockRepository) Upsert(ctx context.Context, block domainavail.BlockedDate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.blocks[block.Day]; ok {
		block.CreatedAt = existing.CreatedAt
	}
	r.blocks[block.Day] = block
	return nil
}

func (r *BlockRepository) Remove(ctx context.Context, day calendar.Day) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.blocks[day]; !ok {
		return domainavail.ErrBlockNotFound
	}
	delete(r.blocks, day)
	return nil
}

func (r *BlockRepository) ByDay(ctx context.Context, day calendar.Day) (*domainavail.BlockedDate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	block, ok := r.blocks[day]
	if !ok {
		return nil, domainavail.ErrBlockNotFound
	}
	copy := block
	return &copy, nil
}

func (r *BlockRepository) InRange(ctx context.Context, start, end calendar.Day) ([]domainavail.BlockedDate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domainavail.BlockedDate
	for day, block := range r.blocks {
		if day.Before(start) || day.After(end) {
			continue
		}
		out = append(out, block)
	}
	return out, nil
}
