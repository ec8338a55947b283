package system

import (
	"fmt"

	"github.com/julianstephens/habitbot/internal/cli"
)

type MigrateCmd struct{}

// Run applies pending migrations. Init is idempotent: it opens the database
// and brings the schema up to the latest embedded version.
func (cmd *MigrateCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Init(); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}
