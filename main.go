package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/compozy/tagpush/cmd"
	"github.com/compozy/tagpush/internal/domain"
	"github.com/compozy/tagpush/internal/output"
	"github.com/compozy/tagpush/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cmd.NewRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		ui := output.New()
		ui.Error("%v", err)
		var stepErr *domain.StepError
		switch {
		case errors.As(err, &stepErr) && stepErr.Hint != "":
			ui.Hint("%s", stepErr.Hint)
		case service.IsTimeout(err):
			ui.Hint("raise local_timeout or network_timeout in .tagpush.yaml")
		}
		os.Exit(1)
	}
}
