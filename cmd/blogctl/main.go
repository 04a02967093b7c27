package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/oksasatya/go-blog-platform/internal/client/cli"
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	cmd, closeApp := cli.NewRootCmd(cli.OpenApp)
	err := cmd.ExecuteContext(ctx)
	if cerr := closeApp(); cerr != nil {
		fmt.Fprintln(os.Stderr, "close session:", cerr)
	}
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
