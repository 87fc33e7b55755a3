package main

import (
	"chat-server/moderation"
	"chat-server/repositories"
	"chat-server/runtime"
	"chat-server/runtime/workers"
	"chat-server/services"
	"chat-server/transport"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Netflix/go-env"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run initializes all components, manages the server lifecycle, and centralizes
// error reporting, so that deferred cleanup executes before the process exits.
func run() error {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Credential Store (loaded once, immutable afterwards)
	credentials, err := repositories.LoadCredentials(config.UsersFilepath, log)
	if err != nil {
		return fmt.Errorf("credential store: %w", err)
	}
	log.Info("Credentials loaded", "users", credentials.Size(), "file", config.UsersFilepath)

	// 3. Optional word moderation
	var moderator *moderation.Moderator
	if config.CensoredWordsFilepath != "" {
		replacement, err := CharacterRune(config.CensoredCharReplacement)
		if err != nil {
			return err
		}
		moderator, err = moderation.FromFile(config.CensoredWordsFilepath, replacement, log)
		if err != nil {
			return fmt.Errorf("moderation: %w", err)
		}
		log.Info("Moderation enabled", "file", config.CensoredWordsFilepath)
	}

	// 4. Registries, router, and authentication
	sessions := runtime.NewSessionRegistry()
	groups := runtime.NewGroupRegistry()
	router := services.NewRouter(log, sessions, groups, moderator)
	authService := services.NewAuthService(credentials, sessions)

	// 5. Workers under supervision
	address := fmt.Sprintf("%s:%d", config.Host, config.Port)
	server := transport.NewServer(log, address, config.MaxSessions,
		authService, sessions, groups, router)
	telemetry := workers.NewTelemetryWorker(log, sessions, groups, config.MetricInterval)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sup := workers.NewSupervisor(log, config.RestartInterval)
	sup.Add(server, telemetry)

	done := make(chan struct{})
	go func() {
		sup.Run(ctx)
		close(done)
	}()

	// 6. Wait for a termination signal, then stop cleanly
	<-ctx.Done()
	log.Info("Shutting down gracefully...")
	sup.Stop()
	<-done
	log.Info("Program stopped cleanly")

	return nil
}
