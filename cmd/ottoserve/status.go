package main

import (
	"sync/atomic"

	"github.com/hammamikhairi/ottoserve/internal/display"
	"github.com/hammamikhairi/ottoserve/internal/domain"
	"github.com/hammamikhairi/ottoserve/internal/order"
	"github.com/hammamikhairi/ottoserve/internal/stock"
)

// Compile-time interface check.
var _ display.StatusSource = (*kitchenStatus)(nil)

// kitchenStatus feeds the status bar. Summary is called from the UI
// goroutine while the app switches panels, so the panel label is atomic.
type kitchenStatus struct {
	ledger    *order.Ledger
	stock     *stock.Store
	threshold float64
	panel     atomic.Value // string
}

func newKitchenStatus(ledger *order.Ledger, st *stock.Store, threshold float64) *kitchenStatus {
	s := &kitchenStatus{ledger: ledger, stock: st, threshold: threshold}
	s.panel.Store(domain.PanelMain.String())
	return s
}

func (s *kitchenStatus) setPanel(p domain.Panel, u *domain.User) {
	label := p.String()
	if u != nil {
		label += " (" + u.Username + ")"
	}
	s.panel.Store(label)
}

func (s *kitchenStatus) Summary() display.Summary {
	return display.Summary{
		Panel:    s.panel.Load().(string),
		Counts:   s.ledger.Counts(),
		LowStock: len(s.stock.Low(s.threshold)),
	}
}
