package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/matzehuels/chartlayout/internal/cli"
	"github.com/matzehuels/chartlayout/pkg/errors"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	c := cli.New(os.Stderr, cli.LogInfo)
	if err := c.RootCommand().ExecuteContext(ctx); err != nil {
		os.Exit(report(err))
	}
}

// report prints err and returns the exit status: 130 for an interrupt
// (shell convention for SIGINT), 2 for bad input, 1 for anything else.
func report(err error) int {
	if stderrors.Is(err, context.Canceled) {
		return 130
	}
	fmt.Fprintln(os.Stderr, err)
	if errors.GetCode(err) != "" && errors.HTTPStatus(err) == 400 {
		return 2
	}
	return 1
}
