// Command configdb is a small operator CLI over a schema-driven
// configuration database: point it at a schema file and a database
// directory and it can read, write, export, and import stores without
// embedding configdb in a host program.
package main

import (
	"fmt"
	"os"

	"github.com/cuemby/configdb/pkg/log"
	"github.com/spf13/cobra"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Use:     "configdb",
	Short:   "Operate on a schema-driven configuration database",
	Long:    "configdb reads and writes stores in an embedded configuration database from the command line, using the same schema, cache, and format machinery an embedding program would.",
	Version: version,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.Bool("log-json", false, "emit logs as JSON")
	flags.String("db-path", ".", "database directory (jsontree format) or file (bolt format)")
	flags.String("schema", "schema.yaml", "path to the YAML schema document")
	flags.String("format", "jsontree", "storage format: jsontree or bolt")

	cobra.OnInitialize(initLogging)

	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(setCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(statCmd)
}

func initLogging() {
	level, _ := rootCmd.PersistentFlags().GetString("log-level")
	jsonOut, _ := rootCmd.PersistentFlags().GetBool("log-json")

	var lvl log.Level
	switch level {
	case "debug":
		lvl = log.DebugLevel
	case "warn":
		lvl = log.WarnLevel
	case "error":
		lvl = log.ErrorLevel
	default:
		lvl = log.InfoLevel
	}

	log.Init(log.Config{Level: lvl, JSONOutput: jsonOut, Output: os.Stderr})
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
