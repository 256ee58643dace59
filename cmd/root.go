package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/jeeftor/tether/internal/constants"
	"github.com/jeeftor/tether/internal/logging"
	"github.com/jeeftor/tether/internal/resource"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile    string
	logLevel   string
	sessionDir string

	// Global context and resource management
	contextManager *resource.ContextManager
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tether",
	Short: "Tether runs capture scripts against a tethered camera",
	Long: `Tether drives a tethered camera through pluggable capture scripts
such as the repeat shooter. Scripts are picked from a selector, configured,
and executed asynchronously; captures are downloaded into a session
directory.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if logLevel == "" {
			logLevel = "info"
		}

		logging.InitWithLevel(logLevel)

		logging.Debug("Logging initialized", "level", logLevel)
		logging.Debug("Using session directory", "path", GetSessionDir())
		if used := viper.ConfigFileUsed(); used != "" {
			logging.Debug("Using config file", "path", used)
		}
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if contextManager != nil {
			if err := contextManager.Shutdown(); err != nil {
				logging.Warn("Cleanup reported errors", "error", err)
			}
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig, initResourceManagement)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.tether.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVarP(&sessionDir, "session", "d", "", "directory captures are saved into")

	// Bind flags to Viper
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("session.dir", rootCmd.PersistentFlags().Lookup("session"))
}

// initResourceManagement initializes the global resource management system
func initResourceManagement() {
	if contextManager == nil {
		contextManager = resource.NewContextManager(true)
		contextManager.SetCleanupTimeout(constants.CleanupTimeout)
		logging.Debug("Resource management initialized")
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	// A .env file in the working directory may carry TETHER_* variables;
	// variables already set in the environment win
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Error reading .env file: %v\n", err)
	}

	// TETHER_LOG_LEVEL, TETHER_SESSION_DIR, ...
	viper.SetEnvPrefix("TETHER")
	viper.SetEnvKeyReplacer(envKeyReplacer)
	viper.AutomaticEnv()

	setDefaults(viper.GetViper())

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}

		viper.AddConfigPath("/etc/tether")

		viper.SetConfigType("yaml")
		viper.SetConfigName(".tether")
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Config file was found but another error occurred
			fmt.Fprintf(os.Stderr, "Error reading config file: %v\n", err)
		}
		// It's okay if no config file is found - we'll use defaults and env vars
	}

	if logLevel == "" {
		logLevel = viper.GetString("log_level")
	}
}

// GetSessionDir returns the session directory from flag, env var or config
func GetSessionDir() string {
	if sessionDir != "" {
		return sessionDir
	}
	return viper.GetString("session.dir")
}

// defaultConfigPath is where a new config file is written
func defaultConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".tether.yaml"
	}
	return filepath.Join(home, ".tether.yaml")
}
