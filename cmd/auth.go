package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/chanscout/chanscout/auth"
	"github.com/chanscout/chanscout/color"
	"github.com/chanscout/chanscout/icon"
	"github.com/chanscout/chanscout/style"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(authSetCmd, authDeleteCmd, authStatusCmd)
}

// authCmd manages the publish token kept in the system keyring.
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the token used to publish playlists",
}

var authSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Store the publish token in the system keyring",
	Run: func(cmd *cobra.Command, args []string) {
		var token string
		handleErr(survey.AskOne(&survey.Password{
			Message: "Publish token:",
		}, &token, survey.WithValidator(survey.Required)))

		handleErr(auth.SetToken(strings.TrimSpace(token)))
		fmt.Printf("%s token stored\n", style.Fg(color.Green)(icon.Get(icon.Success)))
	},
}

var authDeleteCmd = &cobra.Command{
	Use:     "delete",
	Aliases: []string{"remove", "logout"},
	Short:   "Remove the publish token from the system keyring",
	Run: func(cmd *cobra.Command, args []string) {
		handleErr(auth.DeleteToken())
		fmt.Printf("%s token removed\n", style.Fg(color.Green)(icon.Get(icon.Success)))
	},
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report whether a publish token is stored",
	Run: func(cmd *cobra.Command, args []string) {
		_, err := auth.GetToken()
		switch {
		case errors.Is(err, auth.ErrNoToken):
			fmt.Printf("%s no token stored\n", style.Fg(color.Yellow)(icon.Get(icon.Warn)))
		case err != nil:
			handleErr(err)
		default:
			fmt.Printf("%s token stored\n", style.Fg(color.Green)(icon.Get(icon.Success)))
		}
	},
}
