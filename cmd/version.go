package cmd

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// These variables will be set during the build using ldflags
var (
	buildVersion = "dev"
	buildCommit  = "none"
	buildTime    = "unknown"
)

var shortOutput bool

// GetFormattedBuildTime returns the build time in a readable format
func GetFormattedBuildTime() string {
	if buildTime == "unknown" {
		return buildTime
	}
	if t, err := time.Parse(time.RFC3339, buildTime); err == nil {
		return t.Format("2006-01-02 15:04:05 MST")
	}
	return buildTime
}

// GetDisplayVersion falls back to the module version embedded by go install
func GetDisplayVersion() string {
	if buildVersion != "dev" {
		return buildVersion
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return fmt.Sprintf("dev (%s)", info.Main.Version)
	}
	return "dev"
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		if shortOutput {
			fmt.Println(buildVersion)
			return
		}

		label := color.New(color.FgWhite)
		rows := []struct {
			name  string
			value string
			c     *color.Color
		}{
			{"Version:", GetDisplayVersion(), color.New(color.FgCyan, color.Bold)},
			{"Built:  ", GetFormattedBuildTime(), color.New(color.FgYellow)},
			{"Commit: ", buildCommit, color.New(color.FgGreen)},
			{"OS/Arch:", runtime.GOOS + "/" + runtime.GOARCH, color.New(color.FgMagenta)},
			{"Go:     ", runtime.Version(), color.New(color.FgRed)},
			{"Camera: ", viper.GetString("camera.model"), color.New(color.FgBlue)},
		}
		for _, r := range rows {
			label.Printf("%s ", r.name)
			r.c.Printf("%s\n", r.value)
		}
	},
}

func init() {
	versionCmd.Flags().BoolVarP(&shortOutput, "short", "n", false, "Print only version number")
	rootCmd.AddCommand(versionCmd)
}
