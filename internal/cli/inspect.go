package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vvka-141/dbseed/internal/logging"
	"github.com/vvka-141/dbseed/internal/services"
	"github.com/vvka-141/dbseed/pkg/dbseed"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [sources...]",
	Short: "Show the fixtures that would be loaded",
	Long: `Inspect reads fixture files exactly like load does and prints, per file,
how many fixtures target each table. No database connection is opened.

With --watch, the report is printed again whenever a matching file changes.

Examples:
  dbseed inspect fixtures/**/*.json
  dbseed inspect --watch`,
	Args:              cobra.ArbitraryArgs,
	ValidArgsFunction: completeFixtureFiles,
	RunE:              runInspect,
}

type inspectFlagValues struct {
	sourceFlags
	watch bool
}

var inspectFlags inspectFlagValues

func init() {
	rootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().StringVar(&inspectFlags.encoding, "encoding", "",
		"Text encoding of fixture files (default utf-8)")
	inspectCmd.Flags().StringVar(&inspectFlags.configPath, "config", "",
		"Project file (default: ./dbseed.yaml when present)")
	inspectCmd.Flags().StringSliceVar(&inspectFlags.envFiles, "env-file", nil,
		"Load environment variables from .env files")
	inspectCmd.Flags().BoolVarP(&inspectFlags.watch, "watch", "w", false,
		"Re-read and print the report when fixture files change")

	_ = inspectCmd.RegisterFlagCompletionFunc("encoding", completeEncodings)
}

func runInspect(cmd *cobra.Command, args []string) error {
	verbose := getVerboseFlag(cmd)

	cfg := dbseed.SeedConfig{Sources: args, Verbose: verbose}
	if err := resolveSources(inspectFlags.sourceFlags, &cfg, verbose); err != nil {
		return err
	}
	if len(cfg.Sources) == 0 {
		return fmt.Errorf("requires at least 1 fixture source\n\nUsage: %s", cmd.UseLine())
	}

	logger := logging.NewConsoleLogger(verbose)
	inspector := services.NewSeedService(services.StoreConnectorFactory, logger)

	out := cmd.OutOrStdout()
	st := newStyles(out == os.Stdout && useColor(os.Stdout))

	report := func() error {
		inspection, err := inspector.Inspect(cfg)
		if err != nil {
			return err
		}
		renderInspection(out, inspection, st)
		return nil
	}

	if !inspectFlags.watch {
		return report()
	}

	if err := report(); err != nil {
		fmt.Fprintln(out, st.Error.Render("error: "+err.Error()))
	}

	watcher, err := newSourceWatcher(cfg.Sources, logger)
	if err != nil {
		return err
	}
	defer watcher.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintln(out, st.Muted.Render("Watching for changes. Press Ctrl+C to stop."))
	return watcher.Run(ctx, func() {
		fmt.Fprintln(out, st.Muted.Render(time.Now().Format("15:04:05")+" change detected"))
		if err := report(); err != nil {
			fmt.Fprintln(out, st.Error.Render("error: "+err.Error()))
		}
	})
}

// renderInspection prints one block per file followed by table totals.
func renderInspection(w io.Writer, inspection *services.Inspection, st styles) {
	width := 0
	for _, tc := range inspection.TableCounts() {
		if len(tc.Table) > width {
			width = len(tc.Table)
		}
	}
	tableStyle := st.Table.Width(width + 2)

	writeCounts := func(counts []services.TableCount) {
		for _, tc := range counts {
			fmt.Fprintf(w, "  %s%s\n", tableStyle.Render(tc.Table), st.Count.Render(fmt.Sprint(tc.Count)))
		}
	}

	for _, file := range inspection.Files {
		fmt.Fprintf(w, "%s %s\n", st.File.Render(file.Path), st.Muted.Render(pluralize(len(file.Fixtures), "fixture")))
		writeCounts(file.TableCounts())
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, st.Total.Render(fmt.Sprintf("Total: %s in %s",
		pluralize(len(inspection.Fixtures), "fixture"), pluralize(len(inspection.Files), "file"))))
	writeCounts(inspection.TableCounts())
}

func pluralize(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, strings.TrimSuffix(noun, "s"))
}
