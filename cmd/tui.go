package cmd

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/jeeftor/tether/internal/automata"
	"github.com/jeeftor/tether/internal/logging"
	"github.com/jeeftor/tether/internal/tui"
	"github.com/jeeftor/tether/internal/utils"
)

// tuiCmd opens the interactive script runner
var tuiCmd = &cobra.Command{
	Use:   "tui [script title]",
	Short: "Pick, configure and run scripts interactively",
	Long: `Open the interactive script runner.

Use the arrow keys to pick a script, tab to edit its options and enter to
run it. Press x to cancel a running script and q to quit. Edited options
are saved to the config file on exit.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			utils.ValidationError(fmt.Errorf("tui needs an interactive terminal; use 'tether run' instead"))
		}

		a, err := newApp()
		utils.CheckError(err, "Failed to load scripts")
		if len(args) > 0 {
			utils.CheckError(a.selectByTitle(args[0]), "Failed to select script")
		} else if viper.GetString("script.default") != "" {
			utils.WarnOnError(a.selectByTitle(""), "script.default")
		}

		dirty := false
		a.registry.Shooter.OnChange(func() { dirty = true })

		model := tui.NewRunnerModel(contextManager.GetContext(), a.selector,
			func(hooks automata.Hooks) (automata.Automata, error) {
				ca, _, err := newAutomata(hooks)
				if err != nil {
					return nil, err
				}
				return ca, nil
			})

		// Log output would tear the alternate screen
		restore := logging.Silence()
		_, err = tea.NewProgram(model, tea.WithAltScreen()).Run()
		restore()
		utils.CheckError(err, "TUI failed")

		if dirty {
			path, err := saveConfig()
			utils.CheckError(err, "Failed to save settings")
			logging.SaveFile(path, "script options")
		}
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}
