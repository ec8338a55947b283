package system

import (
	"fmt"

	"github.com/julianstephens/habitbot/internal/cli"
	"github.com/julianstephens/habitbot/internal/keyring"
)

type TokenCmd struct {
	Set    TokenSetCmd    `cmd:"" help:"Store the bot token in the OS keyring."`
	Get    TokenGetCmd    `cmd:"" help:"Print the stored bot token."`
	Delete TokenDeleteCmd `cmd:"" help:"Remove the bot token from the OS keyring."`
}

type TokenSetCmd struct {
	Token string `arg:"" help:"Telegram bot token."`
}

func (c *TokenSetCmd) Run(ctx *cli.Context) error {
	if err := keyring.SetToken(c.Token); err != nil {
		return err
	}
	fmt.Println("Bot token stored in OS keyring.")
	return nil
}

type TokenGetCmd struct{}

func (c *TokenGetCmd) Run(ctx *cli.Context) error {
	token, err := keyring.GetToken()
	if err != nil {
		return err
	}
	fmt.Println(token)
	return nil
}

type TokenDeleteCmd struct{}

func (c *TokenDeleteCmd) Run(ctx *cli.Context) error {
	if err := keyring.DeleteToken(); err != nil {
		return err
	}
	fmt.Println("Bot token removed from OS keyring.")
	return nil
}
