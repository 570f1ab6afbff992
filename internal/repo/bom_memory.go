package repo

import (
	"context"
	"sync"

	"github.com/rogerio-castellano/steel-quoter/internal/models"
)

type InMemoryBOMRepository struct {
	mu     sync.RWMutex
	lines  []models.BOMLine
	nextID int64
}

func NewInMemoryBOMRepository() *InMemoryBOMRepository {
	return &InMemoryBOMRepository{
		lines:  []models.BOMLine{},
		nextID: 1,
	}
}

func (r *InMemoryBOMRepository) ListByQuote(_ context.Context, quoteID int64) ([]models.BOMLine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []models.BOMLine{}
	for _, l := range r.lines {
		if l.QuoteID == quoteID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *InMemoryBOMRepository) GetLine(_ context.Context, quoteID, lineID int64) (models.BOMLine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, l := range r.lines {
		if l.ID == lineID && l.QuoteID == quoteID {
			return l, nil
		}
	}
	return models.BOMLine{}, ErrBOMLineNotFound
}

func (r *InMemoryBOMRepository) nextLineNo(quoteID int64) int {
	n := 0
	for _, l := range r.lines {
		if l.QuoteID == quoteID && l.LineNo > n {
			n = l.LineNo
		}
	}
	return n + 1
}

func (r *InMemoryBOMRepository) AddLine(_ context.Context, line models.BOMLine) (models.BOMLine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	line.ID = r.nextID
	r.nextID++
	line.LineNo = r.nextLineNo(line.QuoteID)
	r.lines = append(r.lines, line)
	return line, nil
}

func (r *InMemoryBOMRepository) UpdateLine(_ context.Context, line models.BOMLine) (models.BOMLine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, l := range r.lines {
		if l.ID == line.ID && l.QuoteID == line.QuoteID {
			line.LineNo = l.LineNo
			r.lines[i] = line
			return line, nil
		}
	}
	return models.BOMLine{}, ErrBOMLineNotFound
}

func (r *InMemoryBOMRepository) DeleteLine(_ context.Context, quoteID, lineID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, l := range r.lines {
		if l.ID == lineID && l.QuoteID == quoteID {
			r.lines = append(r.lines[:i], r.lines[i+1:]...)
			return nil
		}
	}
	return ErrBOMLineNotFound
}

func (r *InMemoryBOMRepository) ReplaceAll(_ context.Context, quoteID int64, lines []models.BOMLine) ([]models.BOMLine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.lines[:0]
	for _, l := range r.lines {
		if l.QuoteID != quoteID {
			kept = append(kept, l)
		}
	}
	r.lines = kept

	out := make([]models.BOMLine, len(lines))
	for i, l := range lines {
		l.ID = r.nextID
		r.nextID++
		l.QuoteID = quoteID
		l.LineNo = i + 1
		r.lines = append(r.lines, l)
		out[i] = l
	}
	return out, nil
}
