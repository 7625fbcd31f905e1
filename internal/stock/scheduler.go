package stock

import (
	"context"
	"log"
	"time"
)

const scanInterval = 15 * time.Minute

// Scheduler refreshes the low-stock snapshot in the background so the
// dashboard endpoint stays cheap.
type Scheduler struct {
	service   *Service
	ticker    *time.Ticker
	ctx       context.Context
	cancel    context.CancelFunc
	isRunning bool
}

func NewScheduler(service *Service) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		service: service,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start launches the periodic scan plus one immediate run.
func (s *Scheduler) Start() {
	if s.isRunning {
		log.Printf("⚠️ Low-stock scheduler already running")
		return
	}

	s.isRunning = true
	s.ticker = time.NewTicker(scanInterval)

	log.Printf("🕐 Low-stock scheduler started (%s interval)", scanInterval)

	go func() {
		s.runScan()
	}()

	go s.run()
}

// Stop halts the scheduler.
func (s *Scheduler) Stop() {
	if !s.isRunning {
		return
	}

	s.cancel()
	if s.ticker != nil {
		s.ticker.Stop()
	}
	s.isRunning = false

	log.Printf("🛑 Low-stock scheduler stopped")
}

func (s *Scheduler) run() {
	defer func() {
		s.isRunning = false
		if s.ticker != nil {
			s.ticker.Stop()
		}
	}()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-s.ticker.C:
			s.runScan()
		}
	}
}

func (s *Scheduler) runScan() {
	report, err := s.service.Snapshot(s.ctx)
	if err != nil {
		log.Printf("❌ Low-stock scan failed: %v", err)
		return
	}

	if len(report) > 0 {
		log.Printf("⚠️ LOW STOCK: %d items below minimum", len(report))
		for _, line := range report {
			log.Printf("   📉 %s: %d of %d (short %d)",
				line.Item.Name, line.Quantity, line.MinQuantity, line.Shortfall)
		}
	} else {
		log.Printf("✅ No items below minimum quantity")
	}
}
