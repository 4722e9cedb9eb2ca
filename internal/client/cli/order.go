package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/dmitrijs2005/fieldsales/internal/client/models"
	"github.com/dmitrijs2005/fieldsales/internal/client/repositories/products"
	"github.com/dmitrijs2005/fieldsales/internal/common"
)

// NewOrder collects an order interactively and submits it. While offline the
// order is queued instead; either way the customer's work is done.
//
// Flow: customer id, then sku/quantity pairs until an empty sku, then an
// optional note.
func (a *App) NewOrder(ctx context.Context) error {
	customerID, err := getSimpleText(a.reader, "Customer id", os.Stdout)
	if err != nil {
		return err
	}
	if customerID == "" {
		fmt.Println("Cancelled")
		return nil
	}

	var lines []models.OrderLine
	for {
		sku, err := getSimpleText(a.reader, "SKU (empty to finish)", os.Stdout)
		if err != nil {
			return err
		}
		if sku == "" {
			break
		}

		// Warn on an unknown sku but let the line through: the local mirror
		// may simply be stale, and the server is the authority.
		if p, err := a.catalog.FindByIndex(ctx, products.BySKU, sku); err == nil && p == nil {
			fmt.Printf("Note: %s is not in the local catalog\n", sku)
		}

		qty, err := GetQuantity(a.reader, "Quantity", os.Stdout)
		if err != nil {
			fmt.Println(err)
			continue
		}
		if qty == 0 {
			continue
		}
		lines = append(lines, models.OrderLine{SKU: sku, Qty: float64(qty)})
	}

	if len(lines) == 0 {
		fmt.Println("No lines entered, order cancelled")
		return nil
	}

	note, err := getSimpleText(a.reader, "Note (optional)", os.Stdout)
	if err != nil {
		return err
	}

	result, err := a.orders.Submit(ctx, &models.OrderPayload{
		CustomerID: customerID,
		Lines:      lines,
		Note:       note,
	})
	if err != nil {
		a.log.Warn(ctx, "order submission failed", "error", err)
		fmt.Printf("Order was not accepted: %v\n", err)
		return err
	}

	if result.Queued {
		fmt.Printf("Offline: order queued as #%d, it will be submitted automatically\n", result.Seq)
	} else {
		fmt.Printf("Order accepted: %s\n", result.Ack.OrderNumber)
	}
	return nil
}

// Queue lists orders waiting for connectivity, oldest first.
func (a *App) Queue(ctx context.Context) error {
	pending, err := a.orders.Pending(ctx)
	if err != nil {
		a.log.Warn(ctx, "queue listing failed", "error", err)
		return err
	}

	for _, m := range pending {
		var payload models.OrderPayload
		summary := "(unreadable payload)"
		if err := json.Unmarshal(m.Payload, &payload); err == nil {
			summary = fmt.Sprintf("customer %s, %d line(s)", payload.CustomerID, len(payload.Lines))
		}
		fmt.Printf("#%-4d %s  %s\n", m.Seq, m.CreatedAt.Local().Format("2006-01-02 15:04"), summary)
	}
	fmt.Printf("%d order(s) queued\n", len(pending))
	return nil
}

// Drain replays the order queue immediately instead of waiting for the next
// automatic pass.
func (a *App) Drain(ctx context.Context) error {
	result, err := a.orch.RunDrain(ctx)
	if err != nil {
		if errors.Is(err, common.ErrSyncInFlight) {
			fmt.Println("A drain is already running")
			return nil
		}
		a.log.Warn(ctx, "drain failed", "error", err)
		return err
	}
	fmt.Printf("Submitted %d order(s), %d failed\n", result.Submitted, result.Failed)
	return nil
}
