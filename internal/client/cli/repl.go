package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Products(ctx context.Context, args []string) error
	Find(ctx context.Context, args []string) error
	Customers(ctx context.Context, args []string) error
	NewOrder(ctx context.Context) error
	Queue(ctx context.Context) error
	Drain(ctx context.Context) error
	Sync(ctx context.Context) error
	SyncStock(ctx context.Context) error
	Images(ctx context.Context) error
	Image(ctx context.Context, args []string) error
	Status(ctx context.Context) error
	Clear(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop for the field-sales CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Not logged in:
//	  - help               — show available commands
//	  - login              — authenticate (online, offline fallback)
//	  - exit | quit        — leave the program
//
//	Logged in:
//	  - products <text>    — search the local catalog
//	  - find sku|ean <v>   — exact lookup by a secondary index
//	  - customers <text>   — search the local customer mirror
//	  - order              — create an order interactively
//	  - queue              — list orders waiting for connectivity
//	  - drain              — replay the order queue now
//	  - sync               — full catalog/customer refresh plus drain
//	  - stock              — lightweight stock-only refresh
//	  - images             — prefetch images for the assigned brands
//	  - image <sku>        — fetch or show one cached image
//	  - status             — connectivity, cache sizes, sync checkpoints
//	  - clear              — wipe cached catalog data (queue is kept)
//	  - logout             — log out and wipe cached credentials
//	  - exit | quit        — leave the program
//
// Any errors returned by command handlers are ignored here; handlers should
// log their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("fs> %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: products, find, customers, order, queue, drain, sync, stock, images, image, status, clear, logout, exit")
			} else {
				printlnFn("Available commands: login, exit")
			}

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "p", "products":
			_ = a.Products(ctx, args)

		case "find":
			_ = a.Find(ctx, args)

		case "c", "customers":
			_ = a.Customers(ctx, args)

		case "order":
			_ = a.NewOrder(ctx)

		case "queue":
			_ = a.Queue(ctx)

		case "drain":
			_ = a.Drain(ctx)

		case "sync":
			_ = a.Sync(ctx)

		case "stock":
			_ = a.SyncStock(ctx)

		case "images":
			_ = a.Images(ctx)

		case "image":
			_ = a.Image(ctx, args)

		case "status":
			_ = a.Status(ctx)

		case "clear":
			_ = a.Clear(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
