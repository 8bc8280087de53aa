// Command login authorizes the automation account once and stores its
// session file for the bot.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/caarlos0/env/v11"
	"github.com/gotd/td/session"
	"github.com/gotd/td/telegram"
	"github.com/gotd/td/telegram/auth"
	"github.com/gotd/td/tg"
	"github.com/joho/godotenv"
)

type loginConfig struct {
	AppID       int    `env:"TG_API_ID,required"`
	AppHash     string `env:"TG_API_HASH,required"`
	Phone       string `env:"TG_PHONE,required"`
	SessionFile string `env:"TG_SESSION_FILE" envDefault:"session.json"`
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("failed to load .env", "error", err)
	}

	var cfg loginConfig
	if err := env.Parse(&cfg); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := login(ctx, cfg); err != nil {
		slog.Error("login failed", "error", err)
		os.Exit(1)
	}
}

func login(ctx context.Context, cfg loginConfig) error {
	client := telegram.NewClient(cfg.AppID, cfg.AppHash, telegram.Options{
		SessionStorage: &session.FileStorage{Path: cfg.SessionFile},
		NoUpdates:      true,
	})

	stdin := bufio.NewReader(os.Stdin)
	codePrompt := auth.CodeAuthenticatorFunc(func(_ context.Context, _ *tg.AuthSentCode) (string, error) {
		fmt.Print("Enter the code sent to ", cfg.Phone, ": ")
		code, err := stdin.ReadString('\n')
		if err != nil {
			return "", fmt.Errorf("read code: %w", err)
		}
		return strings.TrimSpace(code), nil
	})

	// TG_PHONE and the optional TG_PASSWORD come from the environment
	flow := auth.NewFlow(auth.Env("TG_", codePrompt), auth.SendCodeOptions{})

	return client.Run(ctx, func(ctx context.Context) error {
		if err := client.Auth().IfNecessary(ctx, flow); err != nil {
			return fmt.Errorf("authorize: %w", err)
		}
		self, err := client.Self(ctx)
		if err != nil {
			return fmt.Errorf("get self: %w", err)
		}
		slog.Info("automation account authorized",
			"id", self.ID,
			"username", self.Username,
			"session_file", cfg.SessionFile,
		)
		return nil
	})
}
