package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jeeftor/tether/internal/automata"
	"github.com/jeeftor/tether/internal/styles"
	"github.com/jeeftor/tether/internal/utils"
)

// sessionCmd lists the images downloaded into the session directory
var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "List captured images in the session directory",
	Run: func(cmd *cobra.Command, args []string) {
		session, err := automata.NewSession(GetSessionDir(), viper.GetString("session.pattern"))
		utils.CheckError(err, "Failed to open session")

		files, err := session.Files()
		utils.CheckError(err, "Failed to list session")

		styles.PrintStyledln(os.Stdout, styles.TitleStyle, session.Dir())
		if len(files) == 0 {
			styles.PrintStyledln(os.Stdout, styles.MutedStyle, "No captures yet")
			return
		}

		var total int64
		for _, f := range files {
			info, err := os.Stat(f)
			if err != nil {
				utils.WarnOnError(err, f)
				continue
			}
			total += info.Size()
			fmt.Printf("  %s %s\n",
				styles.ValueStyle.Render(filepath.Base(f)),
				styles.MutedStyle.Render(fmt.Sprintf("%d bytes, %s", info.Size(), info.ModTime().Format("2006-01-02 15:04:05"))))
		}
		styles.PrintStyledln(os.Stdout, styles.InfoStyle, fmt.Sprintf("%d images, %d bytes", len(files), total))
	},
}

func init() {
	rootCmd.AddCommand(sessionCmd)
}
