// Package backfill repairs passes whose QR image generation did not
// complete. Pass issuance records the pass first and attaches the
// rendered image second; a crash between the two steps leaves the row
// in PENDING. The backfill sweeps those rows at startup.
package backfill

import (
	"context"
	"log"
	"time"

	"github.com/iliyamo/visitor-pass-service/internal/qr"
	"github.com/iliyamo/visitor-pass-service/internal/repository"
)

// Store is the slice of the pass repository the backfill needs.
type Store interface {
	ListPendingImages(ctx context.Context, limit int) ([]repository.PendingImage, error)
	AttachQRImage(ctx context.Context, id uint64, image string) error
}

// batchSize caps a single sweep; anything beyond it waits for the
// next startup.
const batchSize = 500

// Run renders and attaches QR images for every pass still in PENDING.
// Failures are logged per pass and do not stop the sweep; the next
// startup retries whatever is left. Returns the number of repaired
// passes.
func Run(ctx context.Context, store Store, enc qr.Encoder) int {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	pending, err := store.ListPendingImages(ctx, batchSize)
	if err != nil {
		log.Printf("qr-backfill: list pending failed: %v", err)
		return 0
	}
	if len(pending) == 0 {
		return 0
	}

	repaired := 0
	for _, p := range pending {
		img, err := enc.Encode(p.QRData)
		if err != nil {
			log.Printf("qr-backfill: encode pass %d failed: %v", p.ID, err)
			continue
		}
		if err := store.AttachQRImage(ctx, p.ID, img); err != nil {
			log.Printf("qr-backfill: attach image for pass %d failed: %v", p.ID, err)
			continue
		}
		repaired++
	}
	log.Printf("qr-backfill: repaired %d of %d pending passes", repaired, len(pending))
	return repaired
}
