package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/chanscout/chanscout/browser"
	"github.com/chanscout/chanscout/catalog"
	"github.com/chanscout/chanscout/color"
	"github.com/chanscout/chanscout/icon"
	"github.com/chanscout/chanscout/scan"
	"github.com/chanscout/chanscout/style"
	"github.com/chanscout/chanscout/util"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.Flags().BoolP("json", "j", false, "Print the entries as JSON")
	catalogCmd.SetOut(os.Stdout)
}

// catalogCmd lists the channel entries without resolving them.
var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List the channels found in the catalog without resolving them",
	Run: func(cmd *cobra.Command, args []string) {
		options, err := scanOptions()
		handleErr(err)

		var session browser.Session
		if len(options.Static) == 0 {
			session, err = browser.Open(cmd.Context(), browserOptions())
			handleErr(err)
			defer util.Ignore(session.Close)
		}

		refs, err := scan.LoadCatalog(cmd.Context(), session, options)
		handleErr(err)

		if options.Dedupe {
			refs = catalog.Dedupe(refs)
		}
		if filter, ok := options.Filter.Get(); ok {
			refs = filter(refs)
		}

		if lo.Must(cmd.Flags().GetBool("json")) {
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			handleErr(encoder.Encode(refs))
			return
		}

		for _, r := range refs {
			cmd.Printf("%s %s %s\n", icon.Get(icon.Channel), style.Bold(r.Name), style.Faint(fmt.Sprintf("(%s)", r.ID)))
			cmd.Println("  " + style.Fg(color.Blue)(r.PageURL))
		}

		cmd.Printf("\n%s\n", style.Faint(util.Quantify(len(refs), "channel", "channels")))
	},
}
