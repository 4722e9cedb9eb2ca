package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
)

func (a *App) getStatus() string {
	s := ""
	if p := a.currentProfile(); p != nil && p.Name != "" {
		s = p.Name + " "
	}
	if mode := a.currentMode(); mode != "" {
		s = s + string(mode)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

// Root runs the interactive session: prompt for credentials, start the
// background watchers, suggest a sync when the local data is empty or stale,
// then hand control to the REPL until the user exits.
func (a *App) Root(ctx context.Context) {
	fmt.Println("Field Sales CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)

	_ = a.Login(ctx)

	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)
	go a.StartStockSyncWatcher(ctx, a.config.StockSyncInterval)

	a.suggestSync(ctx)

	runREPL(ctx, a, a.getStatus, scanner)
}

// suggestSync runs the startup staleness assessment and, while online, offers
// to refresh before the first command.
func (a *App) suggestSync(ctx context.Context) {
	if !a.isLoggedIn() || a.currentMode() != ModeOnline {
		return
	}
	advice, err := a.orch.Advice(ctx)
	if err != nil || !advice.SuggestSync {
		return
	}
	answer, err := getSimpleText(a.reader, fmt.Sprintf("%s — sync now? (y/n)", advice.Reason), os.Stdout)
	if err != nil || answer != "y" {
		return
	}
	_ = a.Sync(ctx)
}
