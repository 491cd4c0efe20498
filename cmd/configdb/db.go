package main

import (
	"fmt"

	"github.com/cuemby/configdb/pkg/cache"
	"github.com/cuemby/configdb/pkg/format"
	"github.com/cuemby/configdb/pkg/format/boltfmt"
	"github.com/cuemby/configdb/pkg/format/jsontree"
	"github.com/cuemby/configdb/pkg/schemaload"
	"github.com/spf13/cobra"
)

// openDatabase loads the schema named by --schema and opens a cache
// Database backed by the storage named by --format, rooted at --db-path.
// Callers must db.Close() when done.
func openDatabase(cmd *cobra.Command) (*cache.Database, error) {
	schemaPath, _ := cmd.Flags().GetString("schema")
	dbPath, _ := cmd.Flags().GetString("db-path")
	formatName, _ := cmd.Flags().GetString("format")

	sch, err := schemaload.LoadFile(schemaPath)
	if err != nil {
		return nil, err
	}

	f, err := openFormat(formatName, dbPath)
	if err != nil {
		return nil, err
	}

	return cache.Open(sch, f), nil
}

func openFormat(name, path string) (format.Format, error) {
	switch name {
	case "jsontree", "":
		return jsontree.New(path), nil
	case "bolt":
		return boltfmt.Open(path)
	default:
		return nil, fmt.Errorf("unknown format %q (want jsontree or bolt)", name)
	}
}
