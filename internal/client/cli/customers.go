package cli

import (
	"context"
	"fmt"
	"strings"
)

// Customers searches the local customer mirror by company, contact name or
// email.
func (a *App) Customers(ctx context.Context, args []string) error {
	found, err := a.customers.Search(ctx, strings.Join(args, " "))
	if err != nil {
		a.log.Warn(ctx, "customer search failed", "error", err)
		return err
	}

	for _, c := range found {
		fmt.Printf("%-12s %-30s %-20s %s\n",
			c.ContactID, truncate(c.CompanyName, 30), truncate(c.ContactName, 20), c.Email)
	}
	fmt.Printf("%d customer(s)\n", len(found))
	return nil
}
