package main

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gookit/color"
	"github.com/kelseyhightower/envconfig"
	"github.com/mama165/sdk-go/logs"
)

// Exit codes for the client application.
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

// Config defines the client-side environment variables.
type Config struct {
	ServerAddress string `envconfig:"CHAT_SERVER_ADDR" default:"localhost:12345"`
	// CHAT_COLOURS enables colorized rendering of inbound lines
	Colours  bool   `envconfig:"CHAT_COLOURS" default:"true"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"INFO"`
}

func main() {
	// The main function manages the OS exit code based on run()'s return.
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Client error: %v\n", err)
	}
	os.Exit(code)
}

// run manages the TCP connection lifecycle: everything the server sends is
// rendered to stdout, everything typed on stdin goes to the server. The
// handshake prompts come from the server itself, so there is no local
// login logic.
func run() (int, error) {
	// 1. Load configuration from environment variables.
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}

	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Setup context to handle termination signals (Ctrl+C).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Connect to the chat server.
	conn, err := net.Dial("tcp", config.ServerAddress)
	if err != nil {
		return exitRuntime, fmt.Errorf("could not connect to server at %s: %w", config.ServerAddress, err)
	}
	defer func() {
		log.Info("Closing connection...")
		_ = conn.Close()
	}()

	// 4. Server-to-stdout pump. Raw chunks, not lines: the auth prompts
	// arrive without a trailing newline.
	serverClosed := make(chan struct{})
	go func() {
		defer close(serverClosed)
		buf := make([]byte, 4096)
		for {
			n, err := conn.Read(buf)
			if n > 0 {
				_, _ = os.Stdout.WriteString(render(string(buf[:n]), config.Colours))
			}
			if err != nil {
				return
			}
		}
	}()

	// 5. Stdin-to-server pump.
	input := make(chan string)
	go func() {
		defer close(input)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			input <- scanner.Text()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			log.Info("Stopping client...")
			_, _ = fmt.Fprint(conn, "/exit\n")
			return exitOK, nil
		case <-serverClosed:
			log.Info("Server closed the connection")
			return exitOK, nil
		case line, ok := <-input:
			if !ok {
				_, _ = fmt.Fprint(conn, "/exit\n")
				return exitOK, nil
			}
			if _, err := fmt.Fprintf(conn, "%s\n", line); err != nil {
				return exitRuntime, fmt.Errorf("write failed: %w", err)
			}
		}
	}
}

// render colorizes well-known line prefixes. Best effort: a chunk split in
// the middle of a line is passed through unstyled.
func render(chunk string, colours bool) string {
	if !colours {
		return chunk
	}
	switch {
	case strings.HasPrefix(chunk, "[All]"):
		return color.New(color.FgGreen).Render(chunk)
	case strings.HasPrefix(chunk, "[Private]"):
		return color.New(color.FgMagenta).Render(chunk)
	case strings.HasPrefix(chunk, "[Group"):
		return color.New(color.FgCyan).Render(chunk)
	case strings.HasPrefix(chunk, "***"), strings.HasPrefix(chunk, "**"):
		return color.New(color.FgYellow).Render(chunk)
	default:
		return chunk
	}
}
