package main

import (
	"os"

	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <store> <file>",
	Short: "Load values named in a JSON file into a store, keeping values the file omits",
	Args:  cobra.ExactArgs(2),
	RunE:  runImport,
}

func runImport(cmd *cobra.Command, args []string) error {
	storeName, path := args[0], args[1]

	db, err := openDatabase(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return db.ImportStoreFrom(storeName, f)
}
