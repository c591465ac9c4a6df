package layout

import (
	"io"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/chartlayout/pkg/errors"
	"github.com/matzehuels/chartlayout/pkg/layout/margin"
	"github.com/matzehuels/chartlayout/pkg/layout/overflow"
	"github.com/matzehuels/chartlayout/pkg/layout/radial"
	"github.com/matzehuels/chartlayout/pkg/layout/text"
	"github.com/matzehuels/chartlayout/pkg/layout/treemap"
)

// Config gathers every tunable threshold of the engine. The zero value of
// any field means "use the default", so a partial TOML file only needs to
// name the constants it changes.
type Config struct {
	Text      text.Metrics    `json:"text" toml:"text"`
	Margin    margin.Config   `json:"margin" toml:"margin"`
	Radial    radial.Config   `json:"radial" toml:"radial"`
	Treemap   treemap.Config  `json:"treemap" toml:"treemap"`
	Cartesian CartesianConfig `json:"cartesian" toml:"cartesian"`

	// ScreenFloor and PrintFloor are the legibility floors of the overflow
	// check for each target.
	ScreenFloor float64 `json:"screen_floor" toml:"screen_floor"`
	PrintFloor  float64 `json:"print_floor" toml:"print_floor"`
}

// CartesianConfig holds the constants of the cartesian builder.
type CartesianConfig struct {
	// GraphBody is the natural plot height of vertical charts, in pixels.
	GraphBody float64 `json:"graph_body" toml:"graph_body"`
	// BarBand is the natural band height of horizontal bars, in font sizes.
	BarBand float64 `json:"bar_band" toml:"bar_band"`
	// BarFill is the share of a category band covered by its bars.
	BarFill float64 `json:"bar_fill" toml:"bar_fill"`
	// CategoryShare caps horizontal bar labels as a share of the width.
	CategoryShare float64 `json:"category_share" toml:"category_share"`
	// PointRadius is the scatter marker radius, in pixels.
	PointRadius float64 `json:"point_radius" toml:"point_radius"`
	// BubbleMin and BubbleMax bound bubble radii, in pixels.
	BubbleMin float64 `json:"bubble_min" toml:"bubble_min"`
	BubbleMax float64 `json:"bubble_max" toml:"bubble_max"`
	// HeroScale is the default hero typography multiplier.
	HeroScale float64 `json:"hero_scale" toml:"hero_scale"`
}

// DefaultConfig returns the constants the engine ships with.
func DefaultConfig() Config {
	return Config{
		Text:    text.DefaultMetrics(),
		Margin:  margin.DefaultConfig(),
		Radial:  radial.DefaultConfig(),
		Treemap: treemap.DefaultConfig(),
		Cartesian: CartesianConfig{
			GraphBody:     240,
			BarBand:       2.4,
			BarFill:       0.7,
			CategoryShare: 0.3,
			PointRadius:   4,
			BubbleMin:     4,
			BubbleMax:     28,
			HeroScale:     1.5,
		},
		ScreenFloor: overflow.ScreenFloor,
		PrintFloor:  overflow.PrintFloor,
	}
}

// withDefaults fills the zero fields owned by this package. Sub-package
// configs default themselves.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	cc, dc := &c.Cartesian, d.Cartesian
	if cc.GraphBody <= 0 {
		cc.GraphBody = dc.GraphBody
	}
	if cc.BarBand <= 0 {
		cc.BarBand = dc.BarBand
	}
	if cc.BarFill <= 0 || cc.BarFill > 1 {
		cc.BarFill = dc.BarFill
	}
	if cc.CategoryShare <= 0 || cc.CategoryShare >= 1 {
		cc.CategoryShare = dc.CategoryShare
	}
	if cc.PointRadius <= 0 {
		cc.PointRadius = dc.PointRadius
	}
	if cc.BubbleMin <= 0 {
		cc.BubbleMin = dc.BubbleMin
	}
	if cc.BubbleMax < cc.BubbleMin {
		cc.BubbleMax = max(dc.BubbleMax, cc.BubbleMin)
	}
	if cc.HeroScale < 1 {
		cc.HeroScale = dc.HeroScale
	}
	if c.ScreenFloor <= 0 {
		c.ScreenFloor = d.ScreenFloor
	}
	if c.PrintFloor <= 0 {
		c.PrintFloor = d.PrintFloor
	}
	return c
}

// LoadConfig reads engine thresholds from a TOML file on top of the
// defaults.
func LoadConfig(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "engine config %s", path)
		}
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "open %s", path)
	}
	defer f.Close()
	return DecodeConfig(f)
}

// DecodeConfig decodes TOML thresholds on top of the defaults. Unknown keys
// are rejected so that typos do not silently fall back to defaults.
func DecodeConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	md, err := toml.NewDecoder(r).Decode(&cfg)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode engine config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, errors.New(errors.ErrCodeInvalidConfig, "unknown engine config key %q", undecoded[0].String())
	}
	return cfg, nil
}
