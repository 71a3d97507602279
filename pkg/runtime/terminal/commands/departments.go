package commands

import (
	"fmt"
	"io"

	"github.com/de-tools/queue-atlas/pkg/store/duckdb"
	duckdbmetrics "github.com/de-tools/queue-atlas/pkg/store/duckdb/metrics"
	"github.com/spf13/cobra"
)

type DepartmentsCmd struct {
	globals *Globals
	stored  bool
	out     io.Writer
}

func NewDepartmentsCmd(globals *Globals, out io.Writer) *cobra.Command {
	dc := &DepartmentsCmd{globals: globals, out: out}
	cmd := &cobra.Command{
		Use:   "departments",
		Short: "List registered departments",
		RunE:  dc.run,
	}

	cmd.Flags().BoolVar(&dc.stored, "stored", false, "List departments with history in the local store instead")

	return cmd
}

func (dc *DepartmentsCmd) run(cmd *cobra.Command, _ []string) error {
	settings, err := dc.globals.Settings()
	if err != nil {
		return err
	}
	if dc.stored {
		return dc.listStored(cmd, settings.Store.Path)
	}

	registry, err := dc.globals.Registry(settings)
	if err != nil {
		return err
	}
	departments, err := registry.ListDepartments(cmd.Context())
	if err != nil {
		return err
	}
	for _, d := range departments {
		if _, err := fmt.Fprintf(dc.out, "%-20s %-30s %s\n", d.ID, d.Name, d.BaseURL); err != nil {
			return err
		}
	}
	return nil
}

func (dc *DepartmentsCmd) listStored(cmd *cobra.Command, path string) error {
	db, err := duckdb.NewDB(duckdb.Settings{DbPath: path})
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer db.Close()

	store, err := duckdbmetrics.NewStore(db)
	if err != nil {
		return err
	}
	ids, err := store.ListDepartments(cmd.Context())
	if err != nil {
		return err
	}
	for _, id := range ids {
		if _, err := fmt.Fprintln(dc.out, id); err != nil {
			return err
		}
	}
	return nil
}
