package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/fieldsales/internal/client/repositories/products"
)

// Images prefetches product images for the logged-in agent's brands so they
// are available offline. The pass is resumable: already cached images are
// skipped.
func (a *App) Images(ctx context.Context) error {
	if a.currentMode() != ModeOnline {
		fmt.Println("Image prefetch needs connectivity")
		return nil
	}

	var brands []string
	if p := a.currentProfile(); p != nil {
		brands = p.Brands
	}

	fmt.Println("Prefetching images, this can take a while...")
	fetched, err := a.orch.RunImages(ctx, brands)
	if err != nil {
		a.log.Warn(ctx, "image prefetch failed", "error", err)
		return err
	}
	fmt.Printf("Fetched %d new image(s)\n", fetched)
	return nil
}

// Image fetches (or reads from the cache) the image for one product:
// image <sku>.
func (a *App) Image(ctx context.Context, args []string) error {
	if len(args) != 1 {
		fmt.Println("Usage: image <sku>")
		return nil
	}

	p, err := a.catalog.FindByIndex(ctx, products.BySKU, args[0])
	if err != nil {
		return err
	}
	if p == nil {
		fmt.Println("Not found")
		return nil
	}

	blob, err := a.images.Get(ctx, p)
	if err != nil {
		a.log.Warn(ctx, "image fetch failed", "sku", args[0], "error", err)
		fmt.Println("Image not available")
		return err
	}
	fmt.Printf("%s: %d bytes cached (%s)\n", blob.Key, blob.Size, blob.CreatedAt.Local().Format("2006-01-02 15:04"))
	return nil
}
