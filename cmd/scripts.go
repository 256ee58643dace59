package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/jeeftor/tether/internal/styles"
	"github.com/jeeftor/tether/internal/utils"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// scriptsCmd lists the registered scripts
var scriptsCmd = &cobra.Command{
	Use:     "scripts",
	Aliases: []string{"ls"},
	Short:   "List available capture scripts",
	Run: func(cmd *cobra.Command, args []string) {
		a, err := newApp()
		utils.CheckError(err, "Failed to load scripts")

		if !a.selector.HasScripts() {
			styles.PrintStyledln(os.Stdout, styles.MutedStyle, "No scripts registered")
			return
		}

		def := viper.GetString("script.default")
		styles.PrintStyledln(os.Stdout, styles.TitleStyle, "Capture scripts")
		if def != "" {
			styles.PrintStyled(os.Stdout, styles.LabelStyle, "Default: ")
			styles.PrintStyledln(os.Stdout, styles.ValueStyle, def)
		}
		for i, e := range a.selector.Entries() {
			if e.IsSentinel() {
				continue
			}
			marker := "  "
			if def != "" && strings.EqualFold(def, e.Title()) {
				marker = styles.SuccessStyle.Render("* ")
			}
			fmt.Printf("%s%s %s\n", marker,
				styles.KeyStyle.Render(fmt.Sprintf("%d.", i)),
				styles.ValueStyle.Render(e.Title()))
			if s, ok := e.View.(fmt.Stringer); ok {
				fmt.Printf("      %s\n", styles.MutedStyle.Render(s.String()))
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(scriptsCmd)
}
