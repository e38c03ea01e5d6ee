package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/five82/shelf/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "override config path (optional)")
	serve := flag.Bool("serve", false, "run the HTTP frontend instead of the TUI")
	listen := flag.String("listen", "", "HTTP listen address in -serve mode (optional)")
	apiURL := flag.String("api", "", "catalog API base URL (optional)")
	pageSize := flag.Int("page-size", 0, "products per page (optional, defaults to 6)")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := app.Options{
		ConfigPath: *configPath,
		APIURL:     *apiURL,
		Listen:     *listen,
	}
	if size := *pageSize; size > 0 {
		opts.PageSize = size
	}

	runner := app.Run
	if *serve {
		runner = app.Serve
	}
	if err := runner(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "shelf: %v\n", err)
		return 1
	}
	return 0
}
