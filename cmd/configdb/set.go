package main

import (
	"fmt"

	"github.com/cuemby/configdb/pkg/object"
	"github.com/spf13/cobra"
)

var setCmd = &cobra.Command{
	Use:   "set <store> <pointer> <value>",
	Short: "Set a property's value from its text representation and commit",
	Args:  cobra.ExactArgs(3),
	RunE:  runSet,
}

func runSet(cmd *cobra.Command, args []string) error {
	storeName, pointer, value := args[0], args[1], args[2]

	db, err := openDatabase(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	u, err := db.OpenStoreForUpdate(storeName)
	if err != nil {
		return err
	}
	defer u.Release()

	_, prop, isProp, err := object.Resolve(u.Root(), pointer)
	if err != nil {
		return fmt.Errorf("resolving %q: %w", pointer, err)
	}
	if !isProp {
		return fmt.Errorf("%q names an object, not a property", pointer)
	}
	if !prop.SetFromText(value) {
		return fmt.Errorf("%q is not a valid value for %q", value, pointer)
	}

	u.Store().MarkDirty()
	return nil
}
