// Command dbseed loads fixture files into a database.
package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/vvka-141/dbseed/internal/cli"
	"github.com/vvka-141/dbseed/pkg/dbseed"
)

// envTestPanic forces a panic so tests can assert the crash exit code.
const envTestPanic = "DBSEED_TEST_PANIC"

func main() {
	os.Exit(run())
}

func run() (code int) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "dbseed crashed: %v\n%s\n", r, debug.Stack())
			code = dbseed.ExitPanic
		}
	}()

	if os.Getenv(envTestPanic) == "1" {
		panic("intentional test panic")
	}

	return dbseed.ExitCodeForError(cli.Execute())
}
