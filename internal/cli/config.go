package cli

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/classmap/classmap/pkg/model"
)

// defaultConfigFile is looked up next to the working directory when no
// --config flag is given. A missing file is not an error.
const defaultConfigFile = "classmap.toml"

// config holds the project-level defaults for the render command.
// Command-line flags override config values.
type config struct {
	// Formats lists the default output formats, e.g. ["mmd", "html"].
	Formats []string `toml:"formats"`

	// Diagrams lists the diagram levels to produce: "class", "package".
	Diagrams []string `toml:"diagrams"`

	// Filter is the visibility mode: "all", "public" or "special".
	Filter string `toml:"filter"`

	// Output is the directory rendered files are written to.
	Output string `toml:"output"`

	// Title is the diagram title, defaults to the facts file base name.
	Title string `toml:"title"`
}

// loadConfig reads a TOML config file. When path is empty the default
// file is tried and an absent file yields the zero config.
func loadConfig(path string) (config, error) {
	var cfg config
	explicit := path != ""
	if !explicit {
		path = defaultConfigFile
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// filterFor maps a visibility mode name to its filter. Unknown modes
// are rejected so typos don't silently render everything.
func filterFor(mode string) (model.VisibilityFilter, error) {
	switch mode {
	case "", "all":
		return model.ShowAll, nil
	case "public":
		return model.PublicOnly, nil
	case "special":
		return model.SpecialAndPublic, nil
	default:
		return nil, fmt.Errorf("unknown filter mode %q (want all, public or special)", mode)
	}
}
