package services

import (
	"context"
	"log"
	"time"

	"github.com/srgjo27/parking_lot/internal/core/ports"
)

// OccupancyMonitor periodically logs how many vehicles are in the lot. It
// only reads; tolerance expiry happens at exit time, never in the
// background.
type OccupancyMonitor struct {
	store    ports.TicketStore
	interval time.Duration
}

func NewOccupancyMonitor(store ports.TicketStore, interval time.Duration) *OccupancyMonitor {
	return &OccupancyMonitor{
		store:    store,
		interval: interval,
	}
}

func (m *OccupancyMonitor) Run(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	log.Printf("Occupancy monitor started: reporting every %s...", m.interval)

	for {
		select {
		case <-ctx.Done():
			log.Println("Occupancy monitor stopped.")
			return
		case <-ticker.C:
			m.report(ctx)
		}
	}
}

func (m *OccupancyMonitor) report(ctx context.Context) {
	open, err := m.store.CountOpen(ctx)
	if err != nil {
		log.Printf("Error counting open tickets: %v", err)
		return
	}

	log.Printf("%d vehicle(s) currently in the lot", open)
}
