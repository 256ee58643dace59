package cmd

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/jeeftor/tether/internal/automata"
	"github.com/jeeftor/tether/internal/logging"
	"github.com/jeeftor/tether/internal/plugins"
	"github.com/jeeftor/tether/internal/script"
	"github.com/jeeftor/tether/internal/utils"
	"github.com/jeeftor/tether/internal/validation"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	runCount      int
	runInterval   int
	runDeleteFile bool
)

// runCmd executes one script to completion
var runCmd = &cobra.Command{
	Use:   "run [script title]",
	Short: "Run a capture script",
	Long: `Run a capture script against the camera and wait for it to finish.
The script is chosen by title (case-insensitive) or from script.default.
Press Ctrl-C once to cancel the script; press it again to force exit.

Example:
  tether run "repeat shooter" --count 10 --interval 5
  tether run "single shot" --session ./shoot-2024`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		a, err := newApp()
		utils.CheckError(err, "Failed to load scripts")

		title := strings.Join(args, " ")
		utils.CheckError(a.selectByTitle(title), "Failed to select script")

		result := validation.NewConfigValidator().ValidateRunConfig(currentRunConfig())
		for _, w := range result.Warnings {
			logging.UserWarnf("Warning: %s", w)
		}
		if err := result.Err(); err != nil {
			utils.ValidationError(err)
		}

		if err := runSelected(a); script.IsCancelled(err) {
			utils.FatalErrorWithCode(err, "Script cancelled", utils.ExitCodeCancelled)
		} else {
			utils.CheckError(err, "Script did not complete")
		}
	},
}

// runSelected executes the active script and reports the outcome
func runSelected(a *app) error {
	sc := a.selector.Selected()
	if sc == nil {
		return fmt.Errorf("no script selected")
	}

	var saved atomic.Int32
	ca, camera, err := newAutomata(automata.Hooks{
		CaptureBegin: func() { logging.Capture(viper.GetString("camera.model")) },
		FileAdded: func(path string) {
			saved.Add(1)
			logging.SaveFile(path, "")
		},
	})
	if err != nil {
		return err
	}

	logger := logging.NewContextualLogger("run", "execute").With("script", sc.Title())
	logger.Debug("Starting script",
		"shot_count", a.registry.Shooter.ShotCount(),
		"shot_interval", a.registry.Shooter.ShotInterval(),
		"delete_file", ca.DeleteFile())

	logging.Start(sc.Title())
	start := time.Now()

	task := sc.ExecuteAsync(contextManager.GetContext(), ca)
	release := contextManager.GetResourceManager().Register("cancel "+sc.Title(), func() error {
		task.Cancel()
		<-task.Done()
		return nil
	})
	err = sc.ExecuteFinish(task)
	release()

	logger.Debug("Script finished",
		"state", task.State().String(),
		"duration", time.Since(start),
		"captures", camera.Shots())

	switch {
	case err == nil:
		logging.Complete(fmt.Sprintf("%s (%d saved in %v)", sc.Title(), saved.Load(), time.Since(start).Round(time.Millisecond)))
	case script.IsCancelled(err):
		logging.Cancelled(fmt.Sprintf("%s after %d saved", sc.Title(), saved.Load()))
	default:
		logging.Fail(sc.Title(), err.Error())
	}
	return err
}

func init() {
	runCmd.Flags().IntVarP(&runCount, "count", "n", 0, "repeat shooter: number of shots")
	runCmd.Flags().IntVarP(&runInterval, "interval", "i", 0, "repeat shooter: seconds between shots")
	runCmd.Flags().BoolVar(&runDeleteFile, "delete-file", true, "delete images from the camera after download")

	viper.BindPFlag(plugins.KeyShotCount, runCmd.Flags().Lookup("count"))
	viper.BindPFlag(plugins.KeyShotInterval, runCmd.Flags().Lookup("interval"))
	viper.BindPFlag("camera.delete_file", runCmd.Flags().Lookup("delete-file"))

	rootCmd.AddCommand(runCmd)
}
