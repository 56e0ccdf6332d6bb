package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-minutes/internal/cli"
	"github.com/johnquangdev/meeting-minutes/internal/domain/repositories"
	"github.com/johnquangdev/meeting-minutes/internal/infrastructure/cache"
	"github.com/johnquangdev/meeting-minutes/internal/infrastructure/keyring"
	pkgai "github.com/johnquangdev/meeting-minutes/pkg/ai"
	"github.com/johnquangdev/meeting-minutes/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger := zap.NewNop()
	if os.Getenv("MINUTES_DEBUG") != "" {
		if logger, err = zap.NewDevelopment(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The CLI keeps its credential in the OS keyring unless Redis is configured.
	var kv repositories.KeyValueStore = keyring.NewStore(keyring.DefaultService)
	if cfg.Credential.Backend == config.CredentialBackendRedis {
		client, err := cache.NewRedisClient(ctx, cfg, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer client.Close()
		kv = cache.NewRedisStore(client, "minutes:")
	}

	root := cli.NewRootCmd(cli.Deps{
		Credentials:   kv,
		CredentialKey: cfg.Credential.Key,
		Chat:          pkgai.NewChatClient(&cfg.LLM),
		Timeout:       cfg.LLM.Timeout,
		Logger:        logger,
	})

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
