// Package cmd implements the command-line interface for chanscout.
package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/chanscout/chanscout/catalog"
	"github.com/chanscout/chanscout/color"
	"github.com/chanscout/chanscout/constant"
	"github.com/chanscout/chanscout/icon"
	"github.com/chanscout/chanscout/key"
	"github.com/chanscout/chanscout/log"
	"github.com/chanscout/chanscout/style"
	"github.com/chanscout/chanscout/version"
	cc "github.com/ivanpirog/coloredcobra"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print the application version")

	rootCmd.PersistentFlags().StringP("icons", "I", "", "Set the visual icon variant (e.g., nerd, emoji, squares)")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("icons", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return icon.AvailableVariants(), cobra.ShellCompDirectiveDefault
	}))
	lo.Must0(viper.BindPFlag(key.IconsVariant, rootCmd.PersistentFlags().Lookup("icons")))

	rootCmd.PersistentFlags().StringP("url", "u", "", "Catalog page listing the channels")
	lo.Must0(viper.BindPFlag(key.CatalogURL, rootCmd.PersistentFlags().Lookup("url")))

	rootCmd.PersistentFlags().StringP("engine", "e", "", "Browser engine: rod (headless Chromium) or http (no scripts)")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("engine", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{"rod", "http"}, cobra.ShellCompDirectiveNoFileComp
	}))
	lo.Must0(viper.BindPFlag(key.BrowserEngine, rootCmd.PersistentFlags().Lookup("engine")))

	helpFunc := rootCmd.HelpFunc()
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		helpFunc(cmd, args)
		version.Notify(cmd.Context())
	})
}

// rootCmd defines the entry point for chanscout.
var rootCmd = &cobra.Command{
	Use:   constant.Chanscout,
	Short: "Resolve live-stream channels into playable playlists",
	Long: constant.AsciiArtLogo + "\n" +
		style.New().Italic(true).Foreground(color.HiRed).Render("    - Resolve live-stream channels into playable playlists"),
	Run: func(cmd *cobra.Command, args []string) {
		if cmd.Flags().Changed("version") {
			versionCmd.Run(versionCmd, args)
			return
		}

		handleErr(cmd.Help())
	},
}

// Execute initializes child command routing and processes the CLI entry point.
func Execute() {
	if viper.GetBool(key.CliColored) {
		cc.Init(&cc.Config{
			RootCmd:       rootCmd,
			Headings:      cc.HiCyan + cc.Bold + cc.Underline,
			Commands:      cc.HiYellow + cc.Bold,
			Example:       cc.Italic,
			ExecName:      cc.Bold,
			Flags:         cc.Bold,
			FlagsDataType: cc.Italic + cc.HiBlue,
		})
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func handleErr(err error) {
	if err == nil {
		return
	}

	// A missing catalog ends the run cleanly.
	if errors.Is(err, catalog.ErrNotFound) {
		log.Warn(err)
		_, _ = fmt.Fprintf(os.Stderr, "%s %s\n", style.Fg(color.Yellow)(icon.Get(icon.Warn)), strings.Trim(err.Error(), " \n"))
		os.Exit(0)
	}

	log.Error(err)
	_, _ = fmt.Fprintf(os.Stderr, "%s %s\n", icon.Get(icon.Fail), strings.Trim(err.Error(), " \n"))
	os.Exit(1)
}
