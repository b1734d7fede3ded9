package handler

import (
	"context"
	"sync"

	"stockpanel/src/model"
	"stockpanel/src/supervisor"
)

type mockStockStateRepo struct {
	rows      []model.StockStateRow
	openRows  []model.OpenStateRow
	state     *model.StockState
	err       error
	payload   model.UpdateStockStatePayload
	findID    uint
	callCount int
}

func (m *mockStockStateRepo) ListWithSymbols(_ context.Context) ([]model.StockStateRow, error) {
	m.callCount++
	return m.rows, m.err
}

func (m *mockStockStateRepo) ListOpen(_ context.Context) ([]model.OpenStateRow, error) {
	m.callCount++
	return m.openRows, m.err
}

func (m *mockStockStateRepo) FindBySymbolID(_ context.Context, symbolID uint) (*model.StockState, error) {
	m.callCount++
	m.findID = symbolID
	return m.state, m.err
}

func (m *mockStockStateRepo) ApplyUpdate(_ context.Context, p model.UpdateStockStatePayload) (*model.StockState, error) {
	m.callCount++
	m.payload = p
	return m.state, m.err
}

type mockPositionRepo struct {
	positions []model.StockPosition
	err       error
	symbol    string
	created   *model.StockPosition
	nextID    uint
}

func (m *mockPositionRepo) ListBySymbol(_ context.Context, symbol string) ([]model.StockPosition, error) {
	m.symbol = symbol
	return m.positions, m.err
}

func (m *mockPositionRepo) Create(_ context.Context, position *model.StockPosition) error {
	if m.err != nil {
		return m.err
	}
	position.ID = m.nextID
	m.created = position
	return nil
}

type mockPriceReader struct {
	samples map[string]*model.PriceSample
	err     error
	symbols []string
	mu      sync.Mutex
}

func (m *mockPriceReader) Latest(_ context.Context, symbol string) (*model.PriceSample, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.symbols = append(m.symbols, symbol)
	if m.err != nil {
		return nil, m.err
	}
	return m.samples[symbol], nil
}

type mockScript struct {
	startErr   error
	stopErr    error
	info       supervisor.RunInfo
	logs       []string
	status     supervisor.Status
	startCalls int
	stopCalls  int
	lines      chan string
}

func (m *mockScript) Start() (supervisor.RunInfo, error) {
	m.startCalls++
	return m.info, m.startErr
}

func (m *mockScript) Stop() error {
	m.stopCalls++
	return m.stopErr
}

func (m *mockScript) Logs() []string {
	return m.logs
}

func (m *mockScript) Status() supervisor.Status {
	return m.status
}

func (m *mockScript) Subscribe() ([]string, <-chan string, func()) {
	return m.logs, m.lines, func() {}
}
