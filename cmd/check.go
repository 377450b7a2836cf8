package cmd

import (
	"fmt"
	"os"
	"runtime"

	"github.com/chanscout/chanscout/browser"
	"github.com/chanscout/chanscout/constant"
	"github.com/chanscout/chanscout/icon"
	"github.com/chanscout/chanscout/key"
	"github.com/chanscout/chanscout/style"
	"github.com/charmbracelet/lipgloss"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().Bool("download", false, "Download a browser build when none is installed")
}

// checkCmd reports whether the configured engine can run on this machine.
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check that a browser is available for the rod engine",
	Run: func(cmd *cobra.Command, args []string) {
		if viper.GetString(key.BrowserEngine) != browser.EngineRod {
			cmd.Printf("%s engine %q needs no browser\n", icon.Get(icon.Success), viper.GetString(key.BrowserEngine))
			return
		}

		bin := viper.GetString(key.BrowserBin)
		if bin == "" {
			if found, ok := launcher.LookPath(); ok {
				bin = found
			}
		}

		download, _ := cmd.Flags().GetBool("download")
		if bin == "" && download {
			path, err := browser.ResolveBin("", browserOptions().DownloadDir)
			handleErr(err)
			bin = path
		}

		if bin == "" {
			printMissingBrowser()
			os.Exit(1)
		}

		cmd.Printf("%s browser %s\n", icon.Get(icon.Success), style.Bold(bin))
	},
}

func printMissingBrowser() {
	var installCmd string
	switch runtime.GOOS {
	case constant.Darwin:
		installCmd = "brew install --cask chromium"
	case constant.Linux:
		installCmd = "sudo apt install chromium"
	case constant.Windows:
		installCmd = "scoop install chromium"
	case constant.Android:
		installCmd = "pkg install chromium"
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(style.ErrorColor).
		Padding(1, 2).
		Margin(1, 0)

	title := style.New().Bold(true).Foreground(style.ErrorColor).Render(fmt.Sprintf("%s Error: No Browser", icon.Get(icon.Fail)))
	body := style.New().Foreground(style.TextColor).Render("No Chromium based browser was found and browser.bin is not set.")

	suggestion := fmt.Sprintf("\n\nRun %s to fetch one", style.New().Foreground(style.AccentColor).Bold(true).Render("chanscout check --download"))
	if installCmd != "" {
		suggestion += fmt.Sprintf(", or install it with:\n  %s", style.New().Foreground(style.AccentColor).Bold(true).Render(installCmd))
	}

	fmt.Println(box.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			title,
			"\n",
			body,
			suggestion,
		),
	))
}
