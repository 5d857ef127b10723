// Package store provides an in-memory dairy.Store implementation
// (for testing/dev).
package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/shopspring/decimal"

	"github.com/panchamrit/milkbook/dairy"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu       sync.RWMutex
	farmers  map[dairy.FarmerID]dairy.Farmer
	logs     map[dairy.LogID]dairy.DailyLog
	advances map[dairy.AdvanceID]dairy.Advance
	seq      atomic.Int64
}

func NewMemory() *Memory {
	return &Memory{
		farmers:  make(map[dairy.FarmerID]dairy.Farmer),
		logs:     make(map[dairy.LogID]dairy.DailyLog),
		advances: make(map[dairy.AdvanceID]dairy.Advance),
	}
}

func (m *Memory) nextID(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, m.seq.Add(1))
}

// =============================================================================
// FARMERS
// =============================================================================

func (m *Memory) ListFarmers(_ context.Context) ([]dairy.Farmer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]dairy.Farmer, 0, len(m.farmers))
	for _, f := range m.farmers {
		result = append(result, f)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].FarmerNo < result[j].FarmerNo })
	return result, nil
}

func (m *Memory) GetFarmer(_ context.Context, id dairy.FarmerID) (dairy.Farmer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	f, ok := m.farmers[id]
	if !ok {
		return dairy.Farmer{}, dairy.ErrFarmerNotFound
	}
	return f, nil
}

func (m *Memory) UpsertFarmer(_ context.Context, f dairy.Farmer) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.farmers {
		if existing.FarmerNo == f.FarmerNo && existing.ID != f.ID {
			return dairy.ErrDuplicateFarmerNo
		}
	}
	if f.ID == "" {
		f.ID = dairy.FarmerID(m.nextID("farmer"))
	}
	m.farmers[f.ID] = f
	return nil
}

func (m *Memory) DeleteFarmer(_ context.Context, id dairy.FarmerID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.farmers[id]; !ok {
		return dairy.ErrFarmerNotFound
	}
	// No cascade: the farmer's logs and advances stay behind.
	delete(m.farmers, id)
	return nil
}

// =============================================================================
// DAILY LOGS
// =============================================================================

func (m *Memory) ListLogs(_ context.Context) ([]dairy.DailyLog, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]dairy.DailyLog, 0, len(m.logs))
	for _, l := range m.logs {
		result = append(result, l)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date > result[j].Date })
	return result, nil
}

func (m *Memory) ListLogsByDate(_ context.Context, date string) ([]dairy.DailyLog, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []dairy.DailyLog
	for _, l := range m.logs {
		if l.Date == date {
			result = append(result, l)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].FarmerNo < result[j].FarmerNo })
	return result, nil
}

func (m *Memory) ListLogsByFarmerAndRange(_ context.Context, farmerID dairy.FarmerID, start, end string) ([]dairy.DailyLog, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []dairy.DailyLog
	for _, l := range m.logs {
		if l.FarmerID == farmerID && l.Date >= start && l.Date <= end {
			result = append(result, l)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date < result[j].Date })
	return result, nil
}

func (m *Memory) UpsertLog(_ context.Context, l dairy.DailyLog) (dairy.DailyLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Replace on (date, farmer, shift) conflict, keeping the original id.
	for id, existing := range m.logs {
		if existing.Date == l.Date && existing.FarmerID == l.FarmerID && existing.Shift == l.Shift {
			l.ID = id
			m.logs[id] = l
			return l, nil
		}
	}
	if l.ID == "" {
		l.ID = dairy.LogID(m.nextID("log"))
	}
	m.logs[l.ID] = l
	return l, nil
}

func (m *Memory) DeleteLog(_ context.Context, id dairy.LogID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.logs[id]; !ok {
		return dairy.ErrLogNotFound
	}
	delete(m.logs, id)
	return nil
}

// =============================================================================
// ADVANCES
// =============================================================================

func (m *Memory) ListAdvances(_ context.Context) ([]dairy.Advance, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]dairy.Advance, 0, len(m.advances))
	for _, a := range m.advances {
		result = append(result, a)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date > result[j].Date })
	return result, nil
}

func (m *Memory) ListAdvancesByFarmer(_ context.Context, farmerID dairy.FarmerID) ([]dairy.Advance, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []dairy.Advance
	for _, a := range m.advances {
		if a.FarmerID == farmerID {
			result = append(result, a)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date < result[j].Date })
	return result, nil
}

func (m *Memory) InsertAdvance(_ context.Context, a dairy.Advance) (dairy.Advance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if a.ID == "" {
		a.ID = dairy.AdvanceID(m.nextID("advance"))
	}
	m.advances[a.ID] = a
	return a, nil
}

func (m *Memory) DeleteAdvance(_ context.Context, id dairy.AdvanceID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.advances[id]; !ok {
		return dairy.ErrAdvanceNotFound
	}
	delete(m.advances, id)
	return nil
}

// Reset clears all data. Used by demo scenario loading only.
func (m *Memory) Reset(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.farmers = make(map[dairy.FarmerID]dairy.Farmer)
	m.logs = make(map[dairy.LogID]dairy.DailyLog)
	m.advances = make(map[dairy.AdvanceID]dairy.Advance)
	return nil
}

func (m *Memory) SetFarmerAdvanceBalance(_ context.Context, farmerID dairy.FarmerID, amount decimal.Decimal) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	f, ok := m.farmers[farmerID]
	if !ok {
		return dairy.ErrFarmerNotFound
	}
	f.AdvanceBalance = amount
	m.farmers[farmerID] = f
	return nil
}
