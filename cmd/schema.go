package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/chanscout/chanscout/channel"
	"github.com/chanscout/chanscout/history"
	"github.com/chanscout/chanscout/scan"
	"github.com/invopop/jsonschema"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(schemaCmd)

	schemaCmd.Flags().BoolP("catalog", "c", false, "Generate the schema of the catalog entries instead")
	schemaCmd.Flags().BoolP("history", "H", false, "Generate the schema of the history records instead")
	schemaCmd.MarkFlagsMutuallyExclusive("catalog", "history")
}

// schemaCmd prints the JSON schema of the structured outputs.
var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Generate the JSON schema of the run report",
	Run: func(cmd *cobra.Command, args []string) {
		reflector := new(jsonschema.Reflector)
		reflector.Anonymous = true
		reflector.Namer = func(t reflect.Type) string {
			name := t.Name()
			switch strings.ToLower(name) {
			case "channel", "report", "record", "attempt", "ref":
				return filepath.Base(t.PkgPath()) + "." + name
			}

			return name
		}

		var schema *jsonschema.Schema

		switch {
		case lo.Must(cmd.Flags().GetBool("catalog")):
			schema = reflector.Reflect([]channel.Ref{})
		case lo.Must(cmd.Flags().GetBool("history")):
			schema = reflector.Reflect([]history.Record{})
		default:
			schema = reflector.Reflect(&scan.Report{})
		}

		handleErr(json.NewEncoder(os.Stdout).Encode(schema))
	},
}
