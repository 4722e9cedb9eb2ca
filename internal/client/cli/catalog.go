package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/dmitrijs2005/fieldsales/internal/brandx"
	"github.com/dmitrijs2005/fieldsales/internal/client/models"
	"github.com/dmitrijs2005/fieldsales/internal/client/repositories/products"
	"github.com/dmitrijs2005/fieldsales/internal/common"
)

func printProduct(p *models.Product) {
	fmt.Printf("%-12s %-16s %-24s %8.2f  stock %6.0f  %s\n",
		p.ItemID, p.SKU, truncate(p.Name, 24), p.Price, p.Stock, p.BrandCanonical)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}

// buildProductSearch splits the arguments into a brand filter and free text.
// A token matching a known brand (or alias) becomes the brand filter; it is
// resolved to the canonical spelling because records store the canonical
// brand, not the supplier's. The rest is a free-text match on name, sku and
// barcode.
func buildProductSearch(args []string) models.ProductSearch {
	var brand string
	var text []string
	for _, arg := range args {
		if brand == "" && brandx.Known(arg) {
			brand = brandx.Canonical(arg)
			continue
		}
		text = append(text, arg)
	}
	return models.ProductSearch{Brand: brand, Text: strings.Join(text, " ")}
}

// Products searches the local catalog.
func (a *App) Products(ctx context.Context, args []string) error {
	query := buildProductSearch(args)

	found, err := a.catalog.Search(ctx, query)
	if err != nil {
		a.log.Warn(ctx, "product search failed", "error", err)
		return err
	}

	for i := range found {
		printProduct(&found[i])
	}
	fmt.Printf("%d product(s)\n", len(found))

	if len(found) == 0 && query.Brand == "" && len(args) > 0 {
		fmt.Printf("Hint: filter by brand: %s\n", strings.Join(brandx.All(), ", "))
	}
	return nil
}

// Find looks a product up by an exact secondary-index value:
// find sku|ean|brand <value>.
func (a *App) Find(ctx context.Context, args []string) error {
	if len(args) < 2 {
		fmt.Println("Usage: find sku|ean|brand <value>")
		return nil
	}

	var field products.IndexField
	switch args[0] {
	case "sku":
		field = products.BySKU
	case "ean", "barcode":
		field = products.ByBarcode
	case "brand":
		field = products.ByBrand
	default:
		fmt.Println("Usage: find sku|ean|brand <value>")
		return nil
	}

	p, err := a.catalog.FindByIndex(ctx, field, strings.Join(args[1:], " "))
	if err != nil {
		a.log.Warn(ctx, "lookup failed", "error", err)
		return err
	}
	if p == nil {
		fmt.Println("Not found")
		return nil
	}
	printProduct(p)
	return nil
}

// Sync runs a full refresh: catalog, customers, then the queue drain.
func (a *App) Sync(ctx context.Context) error {
	result, err := a.orch.RunFull(ctx)
	if err != nil {
		if errors.Is(err, common.ErrSyncInFlight) {
			fmt.Println("A sync is already running")
			return nil
		}
		a.log.Warn(ctx, "sync failed", "error", err)
	}
	if result != nil {
		fmt.Printf("Synced %d products, %d customers; submitted %d queued order(s), %d failed\n",
			result.Products, result.Customers, result.Drain.Submitted, result.Drain.Failed)
	}
	return err
}

// SyncStock runs the lightweight stock-only refresh.
func (a *App) SyncStock(ctx context.Context) error {
	patched, err := a.orch.RunStock(ctx)
	if err != nil {
		if errors.Is(err, common.ErrSyncInFlight) {
			fmt.Println("A stock sync is already running")
			return nil
		}
		a.log.Warn(ctx, "stock sync failed", "error", err)
		return err
	}
	fmt.Printf("Stock updated for %d product(s)\n", patched)
	return nil
}

// Status prints connectivity, cache sizes and the per-kind sync checkpoints.
func (a *App) Status(ctx context.Context) error {
	fmt.Printf("Mode: %s\n", a.currentMode())

	if n, err := a.catalog.Count(ctx); err == nil {
		fmt.Printf("Products cached:  %d\n", n)
	}
	if n, err := a.customers.Count(ctx); err == nil {
		fmt.Printf("Customers cached: %d\n", n)
	}
	if n, err := a.images.CachedCount(ctx); err == nil {
		fmt.Printf("Images cached:    %d\n", n)
	}
	if n, err := a.orders.PendingCount(ctx); err == nil {
		fmt.Printf("Orders queued:    %d\n", n)
	}

	cps, err := a.orch.Checkpoints(ctx)
	if err != nil {
		return err
	}
	for _, cp := range cps {
		fmt.Printf("Last %s sync: %s (%d record(s))\n",
			cp.Name, cp.LastSuccess.Local().Format("2006-01-02 15:04"), cp.Count)
	}
	return nil
}

// Clear wipes cached catalog data after confirmation. The order queue and
// saved credentials are kept; queued orders must never be lost to a cache
// reset.
func (a *App) Clear(ctx context.Context) error {
	answer, err := getSimpleText(a.reader, "Clear cached products, customers and images? (y/n)", os.Stdout)
	if err != nil {
		return err
	}
	if answer != "y" {
		fmt.Println("Cancelled")
		return nil
	}
	if err := a.store.ClearCaches(ctx); err != nil {
		a.log.Warn(ctx, "cache clear failed", "error", err)
		return err
	}
	fmt.Println("Local caches cleared (queued orders kept)")
	return nil
}
