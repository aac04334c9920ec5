package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/meltforce/ironlog/internal/export"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	serverURL := flag.String("server", "", "IronLog server URL (e.g. https://ironlog.tail1234.ts.net)")
	outDir := flag.String("out", "", "directory to write session JSON files to")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("ironlog-export", Version)
		return
	}

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *serverURL == "" || *outDir == "" {
		fmt.Fprintf(os.Stderr, "Usage: ironlog-export -server <URL> -out <dir>\n\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	// Open state database
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Error("failed to get home directory", "error", err)
		os.Exit(1)
	}
	stateDir := filepath.Join(homeDir, ".ironlog-export")

	state, err := export.OpenStateDB(stateDir)
	if err != nil {
		log.Error("failed to open state database", "error", err)
		os.Exit(1)
	}
	defer state.Close()

	client := export.NewClient(strings.TrimRight(*serverURL, "/"))

	if _, err := export.Run(client, state, *outDir, log); err != nil {
		log.Error("export failed", "error", err)
		os.Exit(1)
	}
}
