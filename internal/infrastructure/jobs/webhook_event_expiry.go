package jobs

import (
	"context"
	"log"
	"time"

	"buffzone.backend/internal/domain/repositories"
)

// WebhookEventExpiryJob sweeps aged-out webhook session records so the
// admission window query stays bounded
type WebhookEventExpiryJob struct {
	repo      repositories.WebhookEventRepository
	interval  time.Duration
	batchSize int
	stop      chan struct{}
}

func NewWebhookEventExpiryJob(repo repositories.WebhookEventRepository) *WebhookEventExpiryJob {
	return &WebhookEventExpiryJob{
		repo:      repo,
		interval:  time.Minute,
		batchSize: 500,
		stop:      make(chan struct{}),
	}
}

func (j *WebhookEventExpiryJob) Start(ctx context.Context) {
	log.Println("🕐 Starting webhook event expiry job...")

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("⏹️ Webhook event expiry job stopped (context cancelled)")
			return
		case <-j.stop:
			log.Println("⏹️ Webhook event expiry job stopped")
			return
		case <-ticker.C:
			j.sweep(ctx)
		}
	}
}

func (j *WebhookEventExpiryJob) Stop() {
	close(j.stop)
}

func (j *WebhookEventExpiryJob) sweep(ctx context.Context) {
	deleted, err := j.repo.DeleteExpired(ctx, time.Now(), j.batchSize)
	if err != nil {
		log.Printf("❌ Error sweeping expired webhook events: %v", err)
		return
	}
	if deleted > 0 {
		log.Printf("✅ Swept %d expired webhook events", deleted)
	}
}
