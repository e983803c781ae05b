package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Iron-Ham/taskdesk/internal/cmd"
	"github.com/Iron-Ham/taskdesk/internal/errors"
	"github.com/Iron-Ham/taskdesk/internal/tui/styles"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.ExecuteContext(ctx); err != nil {
		if !errors.IsCanceled(err) {
			fmt.Fprintln(os.Stderr, styles.ErrorMsg.Render(errors.Message(err)))
		}
		stop()
		os.Exit(1)
	}
}
