// Command sqlmongo translates SQL SELECT statements into MongoDB shell
// commands.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/roach88/sqlmongo/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := cli.NewRootCommand().ExecuteContext(ctx)
	if err != nil && !cli.Reported(err) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}

	stop()
	os.Exit(cli.GetExitCode(err))
}
