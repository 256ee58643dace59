package cmd

import (
	"os"

	"github.com/jeeftor/tether/internal/automata"
	"github.com/jeeftor/tether/internal/constants"
	"github.com/jeeftor/tether/internal/logging"
	"github.com/jeeftor/tether/internal/render"
	"github.com/jeeftor/tether/internal/utils"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	previewCols  int
	previewPlain bool
)

// previewCmd prints a live-view frame to the terminal
var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Show a preview frame from the camera",
	Run: func(cmd *cobra.Command, args []string) {
		ca, _, err := newAutomata(automata.Hooks{})
		utils.CheckError(err, "Failed to open camera")

		logging.Preview(ca.Camera().Model())
		ctx, cancel := contextManager.WithTimeout(constants.GetTimeout("preview"))
		defer cancel()

		img, err := ca.Preview(ctx)
		utils.CheckError(err, "Failed to fetch preview")

		useColor := !previewPlain && term.IsTerminal(int(os.Stdout.Fd()))
		render.RenderImage(img, os.Stdout, previewColumns(), useColor)
	},
}

// previewColumns returns the flag value or fits the terminal width
func previewColumns() int {
	if previewCols > 0 {
		return previewCols
	}
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 && w < constants.DefaultPreviewCols {
		return w
	}
	return constants.DefaultPreviewCols
}

func init() {
	previewCmd.Flags().IntVarP(&previewCols, "cols", "c", 0, "width of the preview in characters")
	previewCmd.Flags().BoolVar(&previewPlain, "plain", false, "ASCII output without colour")
	rootCmd.AddCommand(previewCmd)
}
