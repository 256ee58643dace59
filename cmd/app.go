package cmd

import (
	"fmt"
	"strings"

	"github.com/jeeftor/tether/internal/automata"
	"github.com/jeeftor/tether/internal/constants"
	"github.com/jeeftor/tether/internal/logging"
	"github.com/jeeftor/tether/internal/plugins"
	"github.com/jeeftor/tether/internal/selector"
	"github.com/jeeftor/tether/internal/validation"
	"github.com/spf13/viper"
)

var envKeyReplacer = strings.NewReplacer(".", "_")

// setDefaults installs the default value for every known key
func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")
	v.SetDefault("session.dir", "session")
	v.SetDefault("session.pattern", automata.DefaultPattern)
	v.SetDefault("camera.model", "Simulated Camera")
	v.SetDefault("camera.latency", constants.DefaultCameraLatency)
	v.SetDefault("camera.color", false)
	v.SetDefault("camera.delete_file", true)
	v.SetDefault("script.default", "")
	v.SetDefault(plugins.KeyShotCount, plugins.DefaultShotCount)
	v.SetDefault(plugins.KeyShotInterval, 0)
}

// app bundles the selector with the plugin scripts registered into it
type app struct {
	selector *selector.Selector
	registry *plugins.Registry
}

// newApp creates a selector and activates the built-in plugins
func newApp() (*app, error) {
	sel := selector.New()
	reg := plugins.NewRegistry(viper.GetViper())
	if err := reg.Activate(sel); err != nil {
		return nil, err
	}
	return &app{selector: sel, registry: reg}, nil
}

// selectByTitle activates the named script, falling back to script.default
func (a *app) selectByTitle(title string) error {
	if title == "" {
		title = viper.GetString("script.default")
	}
	if title == "" {
		return fmt.Errorf("no script given: pass a title or set script.default (%w)", selector.ErrScriptNotFound)
	}

	sc, ok := a.selector.Find(title)
	if !ok {
		return fmt.Errorf("%q: %w", title, selector.ErrScriptNotFound)
	}
	if err := a.selector.Select(sc); err != nil {
		return err
	}
	logging.Selected(sc.Title())
	return nil
}

// newAutomata builds the camera automation context from config
func newAutomata(hooks automata.Hooks) (*automata.CameraAutomata, *automata.Simulated, error) {
	session, err := automata.NewSession(GetSessionDir(), viper.GetString("session.pattern"))
	if err != nil {
		return nil, nil, err
	}

	camera := automata.NewSimulated(automata.SimulatedOptions{
		Model:   viper.GetString("camera.model"),
		Latency: viper.GetDuration("camera.latency"),
		Color:   viper.GetBool("camera.color"),
	})

	ca := automata.New(camera, session,
		automata.WithDeleteFile(viper.GetBool("camera.delete_file")),
		automata.WithHooks(hooks))
	return ca, camera, nil
}

// currentRunConfig snapshots the settings a run depends on
func currentRunConfig() validation.RunConfig {
	return validation.RunConfig{
		SessionDir:     GetSessionDir(),
		SessionPattern: viper.GetString("session.pattern"),
		DeleteFile:     viper.GetBool("camera.delete_file"),
		Latency:        viper.GetDuration("camera.latency"),
		ShotCount:      viper.GetInt(plugins.KeyShotCount),
		ShotInterval:   viper.GetInt(plugins.KeyShotInterval),
	}
}

// saveConfig writes the current settings to the config file in use, or
// creates one at the default location
func saveConfig() (string, error) {
	path := viper.ConfigFileUsed()
	if path == "" {
		path = defaultConfigPath()
	}

	err := logging.LogOperation("write config", path, func() error {
		if err := viper.WriteConfigAs(path); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
		return nil
	})
	if err != nil {
		return path, err
	}
	viper.SetConfigFile(path)
	return path, nil
}
