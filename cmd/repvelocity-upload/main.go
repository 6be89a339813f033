package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/meltforce/repvelocity/internal/upload"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	serverURL := flag.String("server", "", "RepVelocity server URL (e.g. https://repvelocity.tail1234.ts.net)")
	apiKey := flag.String("key", os.Getenv("REPVELOCITY_API_KEY"), "ingest API key (defaults to $REPVELOCITY_API_KEY)")
	capturePath := flag.String("path", "", "path to capture directory (or parent containing Captures/)")
	dryRun := flag.Bool("dry-run", false, "parse and count but don't send to server")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("repvelocity-upload", Version)
		return
	}

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *capturePath == "" {
		fmt.Fprintf(os.Stderr, "Usage: repvelocity-upload -server <URL> -key <API key> -path <capture dir> [-dry-run]\n\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	if !*dryRun {
		if *serverURL == "" {
			fmt.Fprintf(os.Stderr, "Error: -server is required (or use -dry-run)\n")
			os.Exit(1)
		}
		if *apiKey == "" {
			fmt.Fprintf(os.Stderr, "Error: -key or $REPVELOCITY_API_KEY is required (or use -dry-run)\n")
			os.Exit(1)
		}
	}

	*serverURL = strings.TrimRight(*serverURL, "/")

	captureDir := upload.ResolveCaptureDir(*capturePath)
	info, err := os.Stat(captureDir)
	if err != nil || !info.IsDir() {
		log.Error("capture directory not found", "path", captureDir, "original", *capturePath)
		os.Exit(1)
	}
	log.Info("using capture directory", "path", captureDir)

	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Error("failed to get home directory", "error", err)
		os.Exit(1)
	}
	stateDir := filepath.Join(homeDir, ".repvelocity-upload")

	state, err := upload.OpenStateDB(stateDir)
	if err != nil {
		log.Error("failed to open state database", "error", err)
		os.Exit(1)
	}
	defer state.Close()

	// Client is nil-safe in dry-run mode
	var client *upload.Client
	if !*dryRun {
		client = upload.NewClient(*serverURL, *apiKey)
	}

	if *dryRun {
		log.Info("DRY RUN mode — files will be parsed and counted but not sent")
	}

	uploader := upload.New(client, state, captureDir, *dryRun, log)
	stats, err := uploader.Run()
	if err != nil {
		log.Error("upload failed", "error", err)
		printStats(stats)
		os.Exit(1)
	}

	printStats(stats)
	log.Info("upload complete")
}

func printStats(stats *upload.Stats) {
	fmt.Println()
	fmt.Println("=== Upload Summary ===")
	fmt.Printf("  Files total:      %d\n", stats.FilesTotal)
	fmt.Printf("  Files uploaded:   %d\n", stats.FilesUploaded)
	fmt.Printf("  Files skipped:    %d (already uploaded or empty)\n", stats.FilesSkipped)
	fmt.Printf("  Files errored:    %d\n", stats.FilesErrored)
	fmt.Println()
	fmt.Printf("  Sessions sent:    %d\n", stats.SessionsSent)
	fmt.Printf("  Sets sent:        %d\n", stats.SetsSent)
	fmt.Printf("  Reps sent:        %d\n", stats.RepsSent)
	fmt.Printf("  Samples sent:     %d\n", stats.SamplesSent)
	fmt.Println()
}
