package jobs

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"buffzone.backend/internal/domain/entities"
	"buffzone.backend/internal/domain/repositories"
)

// StatusPublisher pushes a settled invoice into the status fan-out so open
// streams learn about job-driven transitions too.
type StatusPublisher interface {
	PublishStatus(inv *entities.Invoice)
}

// InvoiceExpiryJob marks pending invoices expired once their TTL passes
type InvoiceExpiryJob struct {
	repo      repositories.InvoiceRepository
	publisher StatusPublisher
	interval  time.Duration
	batchSize int
	stop      chan struct{}
}

func NewInvoiceExpiryJob(repo repositories.InvoiceRepository, publisher StatusPublisher) *InvoiceExpiryJob {
	return &InvoiceExpiryJob{
		repo:      repo,
		publisher: publisher,
		interval:  30 * time.Second,
		batchSize: 100,
		stop:      make(chan struct{}),
	}
}

func (j *InvoiceExpiryJob) Start(ctx context.Context) {
	log.Println("🕐 Starting invoice expiry job...")

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("⏹️ Invoice expiry job stopped (context cancelled)")
			return
		case <-j.stop:
			log.Println("⏹️ Invoice expiry job stopped")
			return
		case <-ticker.C:
			j.processExpiredInvoices(ctx)
		}
	}
}

func (j *InvoiceExpiryJob) Stop() {
	close(j.stop)
}

func (j *InvoiceExpiryJob) processExpiredInvoices(ctx context.Context) {
	expired, err := j.repo.GetExpiredPending(ctx, j.batchSize)
	if err != nil {
		log.Printf("❌ Error fetching expired invoices: %v", err)
		return
	}

	if len(expired) == 0 {
		return
	}

	log.Printf("🔄 Processing %d expired invoices...", len(expired))

	var ids []uuid.UUID
	for _, inv := range expired {
		ids = append(ids, inv.ID)
	}

	if err := j.repo.ExpireInvoices(ctx, ids); err != nil {
		log.Printf("❌ Error expiring invoices: %v", err)
		return
	}

	if j.publisher != nil {
		for _, inv := range expired {
			inv.Status = entities.InvoiceStatusExpired
			j.publisher.PublishStatus(inv)
		}
	}

	log.Printf("✅ Expired %d invoices", len(expired))
}
