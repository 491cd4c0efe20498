package main

import (
	"os"

	"github.com/cuemby/configdb/pkg/format"
	"github.com/spf13/cobra"
)

var exportAll bool

var exportCmd = &cobra.Command{
	Use:   "export [store]",
	Short: "Stream a store's (or every store's) current value to stdout as JSON",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().BoolVar(&exportAll, "all", false, "export every store, keyed by name")
}

func runExport(cmd *cobra.Command, args []string) error {
	db, err := openDatabase(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	if exportAll {
		_, err := db.ExportAllTo(os.Stdout)
		return err
	}

	if len(args) != 1 {
		return cmd.Usage()
	}

	_, err = db.ExportStoreTo(args[0], os.Stdout, format.Options{Pretty: true, RootStyle: format.RootHidden})
	return err
}
