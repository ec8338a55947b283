package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/julianstephens/habitbot/internal/bot"
	"github.com/julianstephens/habitbot/internal/keyring"
	"github.com/julianstephens/habitbot/internal/logger"
)

type ServeCmd struct {
	Token string `help:"Telegram bot token. Falls back to the OS keyring." env:"HABITBOT_TOKEN"`
}

func (c *ServeCmd) Run(ctx *Context) error {
	token := c.Token
	if token == "" {
		stored, err := keyring.GetToken()
		if err != nil {
			return fmt.Errorf("no bot token: pass --token, set HABITBOT_TOKEN, or run 'habitbot token set'")
		}
		token = stored
	}

	b, err := bot.New(token, ctx.Tracker)
	if err != nil {
		return fmt.Errorf("failed to connect to Telegram: %w", err)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		logger.Info("Shutting down")
		b.Stop()
	}()

	b.Start()
	return nil
}
