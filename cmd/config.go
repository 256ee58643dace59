package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/jeeftor/tether/internal/logging"
	"github.com/jeeftor/tether/internal/styles"
	"github.com/jeeftor/tether/internal/utils"
	"github.com/jeeftor/tether/internal/validation"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show and change tether settings",
	Long: `Show and change the settings used by tether and its scripts.

Configuration files are searched in this order:
1. ./.tether.yaml (project config)
2. ~/.tether.yaml (user config)
3. /etc/tether/.tether.yaml (system config)

Environment variables (TETHER_*, dots become underscores) override config
file values. Command-line flags override both.`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// configShowCmd prints the merged settings as YAML
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective settings",
	Run: func(cmd *cobra.Command, args []string) {
		out, err := yaml.Marshal(viper.AllSettings())
		utils.CheckError(err, "Failed to render settings")

		if used := viper.ConfigFileUsed(); used != "" {
			styles.PrintStyledln(os.Stdout, styles.MutedStyle, "# "+used)
		} else {
			styles.PrintStyledln(os.Stdout, styles.MutedStyle, "# defaults (no config file)")
		}
		fmt.Print(string(out))
	},
}

// configSetCmd stores one setting in the config file
var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a setting and save it",
	Long: `Change a setting and save it to the config file in use, creating
~/.tether.yaml if there is none.

Examples:
  tether config set plugins.shooter.shot_count 12
  tether config set plugins.shooter.shot_interval 5
  tether config set script.default "Repeat shooter"`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		key := strings.ToLower(args[0])
		viper.Set(key, parseValue(args[1]))

		result := validation.NewConfigValidator().ValidateRunConfig(currentRunConfig())
		if err := result.Err(); err != nil {
			utils.ValidationError(err)
		}

		path, err := saveConfig()
		utils.CheckError(err, "Failed to save settings")
		logging.SaveFile(path, key+"="+args[1])
	},
}

// configPathCmd prints the config file location
var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file in use",
	Run: func(cmd *cobra.Command, args []string) {
		if used := viper.ConfigFileUsed(); used != "" {
			fmt.Println(used)
			return
		}
		fmt.Println(defaultConfigPath())
	},
}

// configValidateCmd checks the effective settings
var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the effective settings",
	Run: func(cmd *cobra.Command, args []string) {
		result := validation.NewConfigValidator().ValidateRunConfig(currentRunConfig())
		for _, w := range result.Warnings {
			logging.UserWarnf("Warning: %s", w)
		}
		for _, e := range result.Errors {
			logging.UserErrorf("%s", e.Error())
		}
		if !result.Valid {
			os.Exit(int(utils.ExitCodeValidation))
		}
		logging.Successf("Configuration is valid")
	},
}

// parseValue turns CLI text into a bool or int where it looks like one
func parseValue(raw string) any {
	if n, err := strconv.Atoi(raw); err == nil {
		return n
	}
	if b, err := strconv.ParseBool(raw); err == nil {
		return b
	}
	return raw
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configValidateCmd)
	rootCmd.AddCommand(configCmd)
}
