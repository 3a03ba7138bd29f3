package services

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/yeremiapane/junkeats-app/utils"
)

// OrderMonitor periodically advances every active delivery so status
// changes reach clients even when nobody is polling the tracking page.
// With Reservations set it also hands expired table holds back.
type OrderMonitor struct {
	Orders       *OrderService
	Reservations *ReservationService
	StopChan     chan struct{}
	Interval     time.Duration

	started  atomic.Bool
	stopOnce sync.Once
	done     chan struct{}
}

func NewOrderMonitor(orders *OrderService, interval time.Duration) *OrderMonitor {
	if interval <= 0 {
		interval = time.Second
	}
	return &OrderMonitor{
		Orders:   orders,
		StopChan: make(chan struct{}),
		Interval: interval,
		done:     make(chan struct{}),
	}
}

func (m *OrderMonitor) Start() {
	if !m.started.CompareAndSwap(false, true) {
		return
	}
	go func() {
		defer close(m.done)
		ticker := time.NewTicker(m.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				m.Tick()
			case <-m.StopChan:
				return
			}
		}
	}()
}

// Stop ends the loop and waits for the running tick to finish.
func (m *OrderMonitor) Stop() {
	m.stopOnce.Do(func() {
		close(m.StopChan)
		if m.started.Load() {
			<-m.done
		}
	})
}

// Tick runs one pass and reports how many deliveries moved.
func (m *OrderMonitor) Tick() int {
	ctx, cancel := context.WithTimeout(context.Background(), m.Interval*5)
	defer cancel()

	changed, err := m.Orders.AdvanceActive(ctx)
	if err != nil {
		utils.ErrorLogger.Printf("Error advancing deliveries: %v", err)
	}
	if changed > 0 {
		utils.InfoLogger.Printf("Advanced %d deliveries", changed)
	}

	if m.Reservations != nil {
		released, err := m.Reservations.ReleaseExpired(ctx)
		if err != nil {
			utils.ErrorLogger.Printf("Error releasing expired tables: %v", err)
		}
		if released > 0 {
			utils.InfoLogger.Printf("Released %d tables", released)
		}
	}
	return changed
}
