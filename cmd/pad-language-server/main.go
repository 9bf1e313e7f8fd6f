package main

import (
	"fmt"
	"os"
	"strconv"

	"bennypowers.dev/padls/internal/log"
	"bennypowers.dev/padls/lsp"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
)

func main() {
	configureLogging()

	if err := run(); err != nil {
		log.Error("Server error: %v", err)
		os.Exit(1)
	}
}

func run() error {
	server, err := lsp.NewServer()
	if err != nil {
		return fmt.Errorf("failed to create LSP server: %w", err)
	}
	defer func() { _ = server.Close() }()

	// Run with stdio transport (for VSCode and other editors)
	return server.RunStdio()
}

// configureLogging reads PADLS_LOG_LEVEL for our own logger and
// PADLS_VERBOSITY for glsp's. Both write to stderr.
func configureLogging() {
	if name := os.Getenv("PADLS_LOG_LEVEL"); name != "" {
		level, err := log.ParseLevel(name)
		if err != nil {
			log.Warn("%v, using info", err)
		}
		log.SetLevel(level)
	}

	verbosity := 0
	if v := os.Getenv("PADLS_VERBOSITY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			log.Warn("PADLS_VERBOSITY must be an integer, got %q", v)
		} else {
			verbosity = n
		}
	}
	commonlog.Configure(verbosity, nil)
}
