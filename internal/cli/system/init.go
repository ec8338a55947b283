package system

import (
	"fmt"

	"github.com/julianstephens/habitbot/internal/cli"
)

type InitCmd struct{}

func (cmd *InitCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Init(); err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	fmt.Printf("Initialized habitbot storage at %s\n", ctx.Store.GetConfigPath())
	return nil
}
