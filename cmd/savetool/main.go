// Command savetool inspects and moves save slots between files and the
// configured save store.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// storeFlags override the storage section of the config file.
type storeFlags struct {
	configPath string
	backend    string
	sqlitePath string
	dsn        string
}

func newRootCmd() *cobra.Command {
	var flags storeFlags

	root := &cobra.Command{
		Use:           "savetool",
		Short:         "Inspect and manage hearth save slots",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	pf := root.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "path to hearth.yaml")
	pf.StringVar(&flags.backend, "backend", "", "save backend: sqlite or postgres (default from config)")
	pf.StringVar(&flags.sqlitePath, "sqlite", "", "sqlite save file (default from config)")
	pf.StringVar(&flags.dsn, "dsn", "", "postgres connection string (default from config)")

	root.AddCommand(
		newListCmd(&flags),
		newShowCmd(&flags),
		newExportCmd(&flags),
		newImportCmd(&flags),
		newDeleteCmd(&flags),
		newValidateCmd(),
		newSchemaCmd(),
	)
	return root
}
