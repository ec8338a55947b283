package system

import (
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	ps "github.com/mitchellh/go-ps"

	"github.com/julianstephens/habitbot/internal/cli"
	"github.com/julianstephens/habitbot/internal/constants"
	"github.com/julianstephens/habitbot/internal/keyring"
	"github.com/julianstephens/habitbot/internal/migration"
	"github.com/julianstephens/habitbot/internal/storage"
	"github.com/julianstephens/habitbot/migrations"
)

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false
	dbReachable := false

	// Check 1: DB reachable
	if err := ctx.Store.Load(); err != nil {
		fmt.Printf("❌ Database reachable: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Database reachable: OK\n")
		dbReachable = true
	}

	// Check 2: Schema version valid (only if DB is reachable)
	if dbReachable {
		if err := checkSchemaVersion(ctx); err != nil {
			fmt.Printf("❌ Schema version: FAIL\n")
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		} else {
			fmt.Printf("✓ Schema version: OK\n")
		}
	} else {
		fmt.Printf("⊘ Schema version: SKIPPED (database not reachable)\n")
	}

	// Check 3: Ledger uniqueness (only if DB is reachable)
	if dbReachable {
		if err := checkLedgerDuplicates(ctx); err != nil {
			fmt.Printf("❌ Ledger uniqueness: FAIL\n")
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		} else {
			fmt.Printf("✓ Ledger uniqueness: OK\n")
		}
	} else {
		fmt.Printf("⊘ Ledger uniqueness: SKIPPED (database not reachable)\n")
	}

	// Check 4: Single writer
	if err := checkSingleWriter(); err != nil {
		fmt.Printf("❌ Single writer: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Single writer: OK\n")
	}

	// Check 5: Keyring (warning only)
	if !keyring.IsAvailable() {
		fmt.Printf("⚠ OS keyring: WARNING\n")
		fmt.Printf("   Keyring unavailable; bot token must come from HABITBOT_TOKEN\n")
	} else if _, err := keyring.GetToken(); err != nil {
		fmt.Printf("⚠ Bot token: WARNING\n")
		fmt.Printf("   No token stored; run 'habitbot token set'\n")
	} else {
		fmt.Printf("✓ Bot token: OK\n")
	}

	fmt.Println()
	if hasError {
		return fmt.Errorf("diagnostics found problems")
	}
	fmt.Println("All checks passed.")
	return nil
}

// checkSchemaVersion validates the stored schema version against the latest
// embedded migration for the active backend.
func checkSchemaVersion(ctx *cli.Context) error {
	db, dir, err := storeDB(ctx)
	if err != nil {
		return err
	}

	subFS, err := fs.Sub(migrations.FS, dir)
	if err != nil {
		return err
	}
	return migration.NewRunner(db, subFS).ValidateVersion()
}

// checkLedgerDuplicates scans for (habit_id, day) pairs appearing more than
// once. The UNIQUE constraint should make this impossible; finding one means
// the database was modified out-of-band.
func checkLedgerDuplicates(ctx *cli.Context) error {
	db, _, err := storeDB(ctx)
	if err != nil {
		return err
	}

	var count int
	row := db.QueryRow(`
		SELECT count(*) FROM (
			SELECT habit_id, day FROM completions
			GROUP BY habit_id, day
			HAVING count(*) > 1
		) dupes`)
	if err := row.Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("%d duplicate completion day(s) found", count)
	}
	return nil
}

// checkSingleWriter looks for other habitbot processes. The store assumes a
// single process; a second writer is a misconfiguration.
func checkSingleWriter() error {
	procs, err := ps.Processes()
	if err != nil {
		return fmt.Errorf("failed to list processes: %w", err)
	}

	self := os.Getpid()
	for _, p := range procs {
		if p.Pid() == self {
			continue
		}
		name := strings.TrimSuffix(filepath.Base(p.Executable()), ".exe")
		if name == constants.AppName {
			return fmt.Errorf("another habitbot process is running (pid %d)", p.Pid())
		}
	}
	return nil
}

func storeDB(ctx *cli.Context) (*sql.DB, string, error) {
	switch s := ctx.Store.(type) {
	case *storage.SQLiteStore:
		return s.GetDB(), "sqlite", nil
	case *storage.PostgresStore:
		return s.GetDB(), "postgres", nil
	default:
		return nil, "", fmt.Errorf("store has no SQL backend")
	}
}
