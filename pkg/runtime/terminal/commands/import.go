package commands

import (
	"fmt"
	"io"

	"github.com/de-tools/queue-atlas/pkg/models/domain"
	"github.com/de-tools/queue-atlas/pkg/services/fetch"
	"github.com/de-tools/queue-atlas/pkg/services/workflow"
	"github.com/de-tools/queue-atlas/pkg/store/duckdb"
	duckdbmetrics "github.com/de-tools/queue-atlas/pkg/store/duckdb/metrics"
	"github.com/spf13/cobra"
)

type ImportCmd struct {
	globals    *Globals
	input      string
	department string
	out        io.Writer
}

// NewImportCmd loads a history payload file into the local store so that
// `fetch --source store` can report on it.
func NewImportCmd(globals *Globals, out io.Writer) *cobra.Command {
	ic := &ImportCmd{globals: globals, out: out}
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import a history payload into the local store",
		RunE:  ic.run,
	}

	cmd.Flags().StringVar(&ic.input, "input", "", "Path to a JSON history payload")
	cmd.Flags().StringVar(&ic.department, "department", "", "Department id to store the history under")

	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("department")

	return cmd
}

func (ic *ImportCmd) run(cmd *cobra.Command, _ []string) error {
	ds, err := readPayload(ic.input)
	if err != nil {
		return err
	}
	settings, err := ic.globals.Settings()
	if err != nil {
		return err
	}

	db, err := duckdb.NewDB(duckdb.Settings{DbPath: settings.Store.Path})
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer db.Close()

	store, err := duckdbmetrics.NewStore(db)
	if err != nil {
		return err
	}

	runner := workflow.NewRunner(domain.Department{ID: ic.department}, workflow.Dependencies{
		DB:     db,
		Source: fetch.StaticSource{Dataset: ds},
		Store:  store,
	}, workflow.RunnerConfig{})
	days, err := runner.SyncOnce(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to import history: %w", err)
	}

	_, err = fmt.Fprintf(ic.out, "imported %d days for %s into %s\n", days, ic.department, settings.Store.Path)
	return err
}
