package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/lib/pq"
	"github.com/spf13/cobra"

	"github.com/iReady/iReady-Backend/internal/placement"
	"github.com/iReady/iReady-Backend/internal/poi"
)

type importOptions struct {
	file        string
	dsn         string
	dryRun      bool
	confirm     bool
	advisoryKey int64
}

func newImportPOIsCmd() *cobra.Command {
	var opts importOptions
	cmd := &cobra.Command{
		Use:   "import-pois",
		Short: "Replace relief.pois with the contents of a POI JSON file",
		Long: `Loads a navotas_pois.json style file and replaces every row of
relief.pois in a single transaction. File order is kept in the position
column so markers anchor the same way as with POI_SOURCE=file.

Example:
  ireadyctl import-pois --file server/data/navotas_pois.json --dry-run
  ireadyctl import-pois --file server/data/navotas_pois.json --confirm`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImportPOIs(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}
	cmd.Flags().StringVar(&opts.file, "file", "", "POI JSON file (required)")
	cmd.Flags().StringVar(&opts.dsn, "dsn", os.Getenv("DATABASE_URL"), "Postgres DSN (default: env DATABASE_URL)")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Parse and validate only; no DB writes")
	cmd.Flags().BoolVar(&opts.confirm, "confirm", false, "Required to perform the destructive replace")
	cmd.Flags().Int64Var(&opts.advisoryKey, "advisory-lock", 0, "Optional Postgres advisory lock key. 0 = disabled")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func runImportPOIs(ctx context.Context, out io.Writer, opts importOptions) error {
	store, err := poi.LoadFile(opts.file)
	if err != nil {
		return err
	}
	pois, err := store.All(ctx)
	if err != nil {
		return err
	}
	if err := validatePOIs(pois); err != nil {
		return fmt.Errorf("POI validation failed: %w", err)
	}
	fmt.Fprintf(out, "Loaded %d POIs from %s\n", len(pois), opts.file)

	if opts.dryRun {
		printImportPlan(out, pois)
		fmt.Fprintln(out, "Dry run complete. No changes made.")
		return nil
	}
	if !opts.confirm {
		return errors.New("refusing to run without --confirm; add --dry-run to preview")
	}
	if opts.dsn == "" {
		return errors.New("--dsn not provided and DATABASE_URL not set")
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	db, err := sql.Open("pgx", opts.dsn)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}

	if err := ensurePOITable(ctx, db); err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback() // no-op after commit
	}()

	if opts.advisoryKey != 0 {
		if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, opts.advisoryKey); err != nil {
			return fmt.Errorf("advisory lock: %w", err)
		}
	}

	before, err := countPOIs(ctx, tx)
	if err != nil {
		return fmt.Errorf("pre-count: %w", err)
	}
	fmt.Fprintf(out, "Before: pois=%d\n", before)

	if _, err := tx.ExecContext(ctx, `DELETE FROM relief.pois`); err != nil {
		return fmt.Errorf("delete relief.pois: %w", err)
	}
	if err := insertPOIs(ctx, tx, pois); err != nil {
		return err
	}

	after, err := countPOIs(ctx, tx)
	if err != nil {
		return fmt.Errorf("post-count: %w", err)
	}
	fmt.Fprintf(out, "After:  pois=%d\n", after)
	if after != int64(len(pois)) {
		return fmt.Errorf("sanity check failed: inserted %d rows, file has %d", after, len(pois))
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	fmt.Fprintln(out, "Import complete")
	return nil
}

func validatePOIs(pois []placement.POI) error {
	if len(pois) == 0 {
		return errors.New("file has no usable POIs")
	}
	seen := make(map[string]struct{}, len(pois))
	for i, p := range pois {
		if p.Name == "" {
			return fmt.Errorf("record %d (id %s): name is empty", i+1, p.ID)
		}
		if _, dup := seen[p.ID]; dup {
			return fmt.Errorf("record %d: duplicate id %q", i+1, p.ID)
		}
		seen[p.ID] = struct{}{}
	}
	return nil
}

func printImportPlan(out io.Writer, pois []placement.POI) {
	water := 0
	for _, p := range pois {
		if placement.IsWaterPOI(p, placement.DefaultWaterKeywords) {
			water++
		}
	}
	fmt.Fprintln(out, "Plan preview:")
	fmt.Fprintf(out, "  POIs to insert: %d\n", len(pois))
	fmt.Fprintf(out, "  Water POIs (never used as anchors): %d\n", water)
	fmt.Fprintln(out, "  Tables affected (destructive): relief.pois")
}

// ensurePOITable matches the columns the server migrates for StoredPOI.
func ensurePOITable(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE SCHEMA IF NOT EXISTS "relief"`,
		`CREATE TABLE IF NOT EXISTS relief.pois (
			id text PRIMARY KEY,
			position bigint NOT NULL,
			name text NOT NULL,
			lat decimal NOT NULL,
			lon decimal NOT NULL,
			keywords text[],
			created_at timestamptz
		)`,
	}
	for _, q := range stmts {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("ensure relief.pois: %w", err)
		}
	}
	return nil
}

func countPOIs(ctx context.Context, tx *sql.Tx) (int64, error) {
	var n int64
	err := tx.QueryRowContext(ctx, `SELECT count(*) FROM relief.pois`).Scan(&n)
	return n, err
}

func insertPOIs(ctx context.Context, tx *sql.Tx, pois []placement.POI) error {
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO relief.pois (id, position, name, lat, lon, keywords, created_at) VALUES ($1,$2,$3,$4,$5,$6,$7)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	now := time.Now()
	for i, p := range pois {
		row := poi.FromPOI(p, i)
		if _, err := stmt.ExecContext(ctx, row.ID, row.Position, row.Name, row.Lat, row.Lon, pq.StringArray(row.Keywords), now); err != nil {
			return fmt.Errorf("insert POI %q: %w", row.ID, err)
		}
	}
	return nil
}
