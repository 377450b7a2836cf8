package cmd

import (
	"encoding/json"
	"os"
	"time"

	"github.com/chanscout/chanscout/color"
	"github.com/chanscout/chanscout/history"
	"github.com/chanscout/chanscout/icon"
	"github.com/chanscout/chanscout/style"
	"github.com/chanscout/chanscout/util"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().BoolP("json", "j", false, "Print the records as JSON")
	historyCmd.Flags().IntP("last", "n", 10, "Number of most recent runs to show, 0 for all")
	historyCmd.Flags().Bool("clear", false, "Remove every record")
	historyCmd.SetOut(os.Stdout)
}

// historyCmd shows the recorded runs.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the most recent discovery runs",
	Run: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("clear")) {
			handleErr(history.Clear())
			cmd.Printf("%s history cleared\n", style.Fg(color.Green)(icon.Get(icon.Success)))
			return
		}

		records, err := history.Get()
		handleErr(err)

		if last := lo.Must(cmd.Flags().GetInt("last")); last > 0 && len(records) > last {
			records = records[len(records)-last:]
		}

		if lo.Must(cmd.Flags().GetBool("json")) {
			handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(records))
			return
		}

		if len(records) == 0 {
			cmd.Println(style.Faint("no runs recorded"))
			return
		}

		for i := len(records) - 1; i >= 0; i-- {
			r := records[i]
			mark := style.Fg(color.Green)(icon.Get(icon.Success))
			switch {
			case r.Error != "" || r.Resolved == 0:
				mark = style.Fg(color.Red)(icon.Get(icon.Fail))
			case r.Canceled:
				mark = style.Fg(color.Yellow)(icon.Get(icon.Warn))
			}

			cmd.Printf("%s %s  %d/%d  %s\n",
				mark,
				style.Bold(r.Started.Local().Format(time.DateTime)),
				r.Resolved,
				r.Attempted,
				style.Faint(r.Duration().Round(time.Second).String()),
			)

			if r.Error != "" {
				cmd.Println("  " + style.Fg(color.Red)(util.Truncate(r.Error, 100)))
			}
		}
	},
}
