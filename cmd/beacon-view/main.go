// Package main provides beacon-view, the notification log viewer.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/thebtf/beacon/internal/config"
	"github.com/thebtf/beacon/internal/viewer"
)

func main() {
	lastN := flag.Int("n", 20, "Number of recent notifications to show")
	follow := flag.Bool("f", false, "Follow the log for new notifications")
	clear := flag.Bool("clear", false, "Clear all notifications and exit")
	logPath := flag.String("log", "", "Log file path (default: configured BEACON_LOG_PATH)")
	flag.Parse()

	cfg := config.Get()
	path := cfg.LogPath
	if *logPath != "" {
		path = *logPath
	}

	useColors := os.Getenv("NO_COLOR") == "" && os.Getenv("TERM") != "dumb"
	v := viewer.New(path, useColors)

	if *clear {
		if err := v.Clear(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Notifications cleared.")
		return
	}

	records, err := v.ReadLast(*lastN)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if len(records) == 0 && !*follow {
		fmt.Println("No notifications.")
		return
	}
	v.Render(os.Stdout, records)

	if !*follow {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	if err := v.Follow(ctx, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
