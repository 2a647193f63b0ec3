// SSH preview server - browse the noise field from any terminal.
//
// Usage: go run ./cmd/noiseserve [-config path] [-addr :2222]
// Connect with: ssh -t -p 2222 localhost
package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/pthm-cable/earthnoise/config"
	"github.com/pthm-cable/earthnoise/server"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	addr := flag.String("addr", "", "Listen address (empty = use config)")
	hostKey := flag.String("host-key", "", "Host key path, generated if missing (empty = use config)")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if port := os.Getenv("PORT"); port != "" && *addr == "" {
		cfg.Server.Addr = ":" + port
	}
	if *hostKey != "" {
		cfg.Server.HostKey = *hostKey
	}

	if err := server.EnsureHostKey(cfg.Server.HostKey); err != nil {
		slog.Error("host key error", "error", err)
		os.Exit(1)
	}

	src, err := cfg.Source()
	if err != nil {
		slog.Error("failed to build noise source", "error", err)
		os.Exit(1)
	}

	if err := server.New(cfg, src).Start(); err != nil {
		slog.Error("ssh server error", "error", err)
		os.Exit(1)
	}
}
