package main

import (
	"fmt"
	"os"

	"github.com/cuemby/configdb/pkg/format"
	"github.com/cuemby/configdb/pkg/format/jsontree"
	"github.com/cuemby/configdb/pkg/object"
	"github.com/spf13/cobra"
)

var getCmd = &cobra.Command{
	Use:   "get <store> <pointer>",
	Short: "Resolve a Pointer path and print its value",
	Args:  cobra.ExactArgs(2),
	RunE:  runGet,
}

func runGet(cmd *cobra.Command, args []string) error {
	storeName, pointer := args[0], args[1]

	db, err := openDatabase(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	ref, err := db.OpenStore(storeName)
	if err != nil {
		return err
	}
	defer ref.Release()

	obj, prop, isProp, err := object.Resolve(ref.Root(), pointer)
	if err != nil {
		return fmt.Errorf("resolving %q: %w", pointer, err)
	}

	if isProp {
		text, ok := prop.JSONValue()
		if !ok {
			return fmt.Errorf("%q has no renderable value", pointer)
		}
		fmt.Println(text)
		return nil
	}

	_, err = jsontree.WriteCursor(os.Stdout, obj, format.Options{Pretty: true, RootStyle: format.RootHidden})
	if err != nil {
		return err
	}
	fmt.Println()
	return nil
}
