// ABOUTME: Preset configuration for floatkit consumers loaded with koanf from YAML and FLOATKIT_ env vars
// ABOUTME: Layers built-in cell-scaled defaults, the config file and the environment, then converts to overlay.Options

package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/mauromedda/floatkit/pkg/overlay"
)

// EnvPrefix prefixes environment overrides. A double underscore separates
// key segments: FLOATKIT_PRESETS__TOOLTIP__OFFSET=2.
const EnvPrefix = "FLOATKIT_"

// Config holds the tunables of every preset.
type Config struct {
	Margin  int                     `json:"margin" yaml:"margin" koanf:"margin"`
	Presets map[string]PresetConfig `json:"presets" yaml:"presets" koanf:"presets"`
}

// PresetConfig is the file form of one preset.
type PresetConfig struct {
	Placement    string   `json:"placement" yaml:"placement" koanf:"placement"`
	Offset       int      `json:"offset" yaml:"offset" koanf:"offset"`
	Escape       bool     `json:"escape" yaml:"escape" koanf:"escape"`
	OutsideClick bool     `json:"outside_click" yaml:"outside_click" koanf:"outside_click"`
	Scroll       bool     `json:"scroll" yaml:"scroll" koanf:"scroll"`
	Lock         bool     `json:"lock" yaml:"lock" koanf:"lock"`
	OpenDelay    Duration `json:"open_delay" yaml:"open_delay" koanf:"open_delay"`
	CloseDelay   Duration `json:"close_delay" yaml:"close_delay" koanf:"close_delay"`
}

// Duration is a time.Duration written as "300ms" in YAML and JSON.
type Duration time.Duration

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// DefaultConfig returns the built-in presets scaled to terminal cells: a
// one-cell margin and gaps of at most one cell.
func DefaultConfig() *Config {
	cfg := &Config{Margin: 1, Presets: make(map[string]PresetConfig)}
	for _, name := range overlay.PresetNames() {
		o, _ := overlay.Preset(name, nil)
		p := PresetConfig{
			Placement:    o.Placement.String(),
			Offset:       min(o.Offset, 1),
			Escape:       o.DismissOn.Escape,
			OutsideClick: o.DismissOn.OutsideClick,
			Scroll:       o.DismissOn.Scroll,
			Lock:         o.LockFocusAndScroll,
		}
		if name == "tooltip" {
			p.OpenDelay = Duration(overlay.TooltipOpenDelay)
			p.CloseDelay = Duration(overlay.TooltipCloseDelay)
		}
		if name == "dropdown" {
			p.Offset = 0
		}
		cfg.Presets[name] = p
	}
	return cfg
}

// defaults feeds DefaultConfig to koanf so file and env keys merge into it
// per field.
type defaults struct{}

func (defaults) ReadBytes() ([]byte, error) {
	return yamlv3.Marshal(DefaultConfig())
}

func (defaults) Read() (map[string]any, error) {
	return nil, errors.New("defaults provider does not support Read")
}

// envKey maps FLOATKIT_PRESETS__TOOLTIP__OPEN_DELAY to
// presets.tooltip.open_delay.
func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
}

// Load layers the defaults, the YAML file at path (skipped when absent or
// path is empty) and FLOATKIT_ environment variables.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	parser := yaml.Parser()
	if err := k.Load(defaults{}, parser); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), parser); err != nil {
				return nil, fmt.Errorf("loading config file %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("checking config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return &cfg, nil
}

// Save writes cfg to path as YAML.
func (c *Config) Save(path string) error {
	data, err := c.Marshal()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Marshal returns cfg as YAML.
func (c *Config) Marshal() ([]byte, error) {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshaling config: %w", err)
	}
	return data, nil
}

// Names returns the configured preset names in sorted order.
func (c *Config) Names() []string {
	names := make([]string, 0, len(c.Presets))
	for name := range c.Presets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Validate reports every invalid value, joined. The engine would degrade
// them silently; the CLI wants to know.
func (c *Config) Validate() error {
	var errs []error
	if c.Margin < 0 {
		errs = append(errs, fmt.Errorf("margin must be non-negative, got %d", c.Margin))
	}
	for _, name := range c.Names() {
		p := c.Presets[name]
		if _, err := overlay.ParsePlacement(p.Placement); err != nil {
			errs = append(errs, fmt.Errorf("preset %s: %w", name, err))
		}
		if p.Offset < 0 {
			errs = append(errs, fmt.Errorf("preset %s: offset must be non-negative, got %d", name, p.Offset))
		}
		if p.OpenDelay < 0 || p.CloseDelay < 0 {
			errs = append(errs, fmt.Errorf("preset %s: delays must be non-negative", name))
		}
	}
	return errors.Join(errs...)
}

// Options converts the named preset to engine options. Presets missing from
// overlay's built-ins start from PopoverOptions.
func (c *Config) Options(name string, doc overlay.Document) (overlay.Options, error) {
	p, ok := c.Presets[name]
	if !ok {
		return overlay.Options{}, fmt.Errorf("unknown preset %q", name)
	}
	o, err := overlay.Preset(name, doc)
	if err != nil {
		o = overlay.PopoverOptions()
	}
	placement, _ := overlay.ParsePlacement(p.Placement)
	o.Placement = placement
	o.Offset = p.Offset
	o.DismissOn = overlay.DismissOn{Escape: p.Escape, OutsideClick: p.OutsideClick, Scroll: p.Scroll}
	o.LockFocusAndScroll = p.Lock
	if o.Margin != 0 {
		o.Margin = c.Margin
	}
	if p.Lock && o.Document == nil {
		o.Document = doc
	}
	return o, nil
}
