package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"
	"unicode/utf8"

	"github.com/chanscout/chanscout/color"
	"github.com/chanscout/chanscout/icon"
	"github.com/chanscout/chanscout/key"
	"github.com/chanscout/chanscout/scan"
	"github.com/chanscout/chanscout/style"
	"github.com/chanscout/chanscout/util"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("output", "o", "", "Directory receiving the playlists")
	lo.Must0(viper.BindPFlag(key.PlaylistOutput, runCmd.Flags().Lookup("output")))

	runCmd.Flags().IntP("workers", "w", 0, "Browser sessions used while warming the cache")
	lo.Must0(viper.BindPFlag(key.ResolverWorkers, runCmd.Flags().Lookup("workers")))

	runCmd.Flags().IntP("timeout", "t", 0, "Per-navigation timeout in seconds")
	lo.Must0(viper.BindPFlag(key.BrowserTimeout, runCmd.Flags().Lookup("timeout")))

	runCmd.Flags().Int("settle", 0, "Seconds to wait after a page loads before reading its requests")
	lo.Must0(viper.BindPFlag(key.BrowserSettle, runCmd.Flags().Lookup("settle")))

	runCmd.Flags().BoolP("publish", "p", false, "Publish the aggregate playlist once written")
	lo.Must0(viper.BindPFlag(key.PublishEnable, runCmd.Flags().Lookup("publish")))

	runCmd.Flags().StringSliceP("filter", "f", []string{}, "Only resolve channels whose name fuzzily matches")
	lo.Must0(viper.BindPFlag(key.CatalogFilter, runCmd.Flags().Lookup("filter")))

	runCmd.Flags().BoolP("json", "j", false, "Print the run report as JSON")

	runCmd.SetOut(os.Stdout)
}

// runCmd performs one discovery pass.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Resolve every channel of the catalog and write the playlists",
	Long: `Load the catalog, discover the base stream template on the first few channels,
resolve every channel from it and atomically replace the output directory.

Interrupting the run keeps whatever was resolved so far.`,
	Example: "  chanscout run --url https://tv.example.com/ --output ./playlist",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if minutes := viper.GetInt(key.RunTimeout); minutes > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, time.Duration(minutes)*time.Minute)
			defer cancel()
		}

		options, err := scanOptions()
		handleErr(err)

		options.Json = lo.Must(cmd.Flags().GetBool("json"))
		options.Out = cmd.OutOrStdout()

		erase := func() {}
		if !options.Json {
			erase = util.PrintErasable(fmt.Sprintf("%s Resolving channels...", icon.Get(icon.Progress)))
		}

		report, err := scan.Run(ctx, options)
		erase()

		if !options.Json {
			printReport(cmd, report)
		}
		handleErr(err)
	},
}

func printReport(cmd *cobra.Command, report *scan.Report) {
	width, _, err := util.TerminalSize()
	if err != nil || width <= 0 {
		width = 80
	}

	for _, c := range report.Channels {
		room := util.Max(width-utf8.RuneCountInString(c.Name)-4, 16)
		cmd.Printf("%s %s %s\n", icon.Get(icon.Channel), c.Name, style.Faint(util.Truncate(c.MediaURL, room)))
	}

	if len(report.Channels) > 0 {
		cmd.Println()
	}

	summary := fmt.Sprintf("resolved %d/%d channels", report.Resolved, report.Attempted)
	switch {
	case report.Resolved == 0:
		cmd.Printf("%s %s, no playlist written\n", style.Fg(color.Red)(icon.Get(icon.Fail)), summary)
	case report.Canceled:
		cmd.Printf("%s %s before the run was interrupted, written to %s\n", style.Fg(color.Yellow)(icon.Get(icon.Warn)), summary, report.Output)
	default:
		cmd.Printf("%s %s, written to %s\n", style.Fg(color.Green)(icon.Get(icon.Success)), summary, report.Output)
	}

	if report.Published {
		cmd.Printf("%s published to %s\n", style.Fg(color.Green)(icon.Get(icon.Publish)), report.PublishedTo)
	}
}
