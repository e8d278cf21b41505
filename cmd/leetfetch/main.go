package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/conorfennell/leetfetch/internal/cache"
	"github.com/conorfennell/leetfetch/internal/config"
	"github.com/conorfennell/leetfetch/internal/leetcode"
	"github.com/conorfennell/leetfetch/internal/storage"
	"github.com/conorfennell/leetfetch/internal/sync"
)

func main() {
	flags := pflag.NewFlagSet("leetfetch", pflag.ExitOnError)
	flags.String("config", "", "Path to a YAML config file")
	flags.String("data-dir", "data", "Directory for the cache and database")
	flags.String("output", "output.json", "Path of the exported JSON dump")
	flags.Int("limit", 0, "Maximum number of problems to fetch (0 = all)")
	flags.Parse(os.Args[1:])

	cfg, err := config.Load(flags)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	username, password, err := credentials()
	if err != nil {
		slog.Error("Failed to read credentials", "error", err)
		os.Exit(1)
	}

	fc, err := cache.New(cfg.DataDir)
	if err != nil {
		slog.Error("Failed to prepare data directory", "error", err)
		os.Exit(1)
	}

	db, err := storage.Open(cfg.DatabasePath())
	if err != nil {
		slog.Error("Failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	client, err := leetcode.NewClient(cfg.BaseURL, cfg.Timeout)
	if err != nil {
		slog.Error("Failed to create client", "error", err)
		os.Exit(1)
	}

	// An interrupt halts the fetch loop but keeps whatever has been
	// committed; the export below still runs.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := client.Login(ctx, username, password); err != nil {
		slog.Error("Login failed", "error", err)
		os.Exit(1)
	}

	stats, err := sync.Run(ctx, client, db, fc, cfg.Limit)
	if err != nil {
		slog.Error("Failed to fetch problem catalog", "error", err)
		os.Exit(1)
	}
	fmt.Printf("%d out of %d problems fetched successfully.\n", stats.Succeeded, stats.Total)

	if err := sync.Export(db, cfg.Output); err != nil {
		slog.Error("Failed to write export", "error", err)
		os.Exit(1)
	}
}

// credentials reads the account from the environment (a .env file is
// honoured), prompting interactively for anything missing. The
// password prompt does not echo.
func credentials() (string, string, error) {
	godotenv.Load()

	username := os.Getenv("LEETCODE_USERNAME")
	password := os.Getenv("LEETCODE_PASSWORD")

	if username == "" {
		fmt.Print("Enter your LeetCode username: ")
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil {
			return "", "", fmt.Errorf("failed to read username: %w", err)
		}
		username = strings.TrimSpace(line)
	}

	if password == "" {
		fmt.Print("Enter your LeetCode password: ")
		secret, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Println()
		if err != nil {
			return "", "", fmt.Errorf("failed to read password: %w", err)
		}
		password = string(secret)
	}

	return username, password, nil
}
