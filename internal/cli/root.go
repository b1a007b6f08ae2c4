package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "dbseed",
	Short: "Load fixture files into a database",
	Long: `dbseed reads fixture records from JSON, YAML and tengo script files and
inserts them, in order, into PostgreSQL, MySQL, SQLite or MongoDB.

Each fixture names a table and the row to insert:

  [{"table": "users", "data": {"id": 1, "first": "john"}}]

Files are read in the order given; glob patterns expand in lexical order.
Inserts stop at the first failure. Nothing is rolled back.

Exit Codes:
  0  - Success
  1  - General error
  2  - CLI usage error (invalid arguments or flags)
  3  - Panic or unexpected system error
  10 - Invalid argument, configuration or encoding
  11 - Database connection failed
  12 - Unsupported fixture file type
  13 - The database rejected an insert
  14 - A source matched no files
  15 - A fixture file could not be parsed`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		printVersionInfo(os.Stdout)
		return nil
	}
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output for all commands")
}

// getVerboseFlag safely retrieves the verbose flag value
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to get verbose flag: %v\n", err)
		return false
	}
	return verbose
}
