package treemap

// Config holds the empirically tuned constants of the treemap placement.
// Zero fields take the defaults from DefaultConfig.
type Config struct {
	// MinWidth and MinHeight are the smallest rectangle, in pixels, that may
	// hold an internal label. The hero ignores them.
	MinWidth  float64 `json:"min_width" toml:"min_width"`
	MinHeight float64 `json:"min_height" toml:"min_height"`
	// Padding is the inset of internal labels, in font sizes.
	Padding float64 `json:"padding" toml:"padding"`
	// GutterShare is the share of the width reserved for external labels
	// once any label has to leave its rectangle.
	GutterShare float64 `json:"gutter_share" toml:"gutter_share"`
	// HeroScale is the default hero typography multiplier.
	HeroScale float64 `json:"hero_scale" toml:"hero_scale"`
	// LegRun is the horizontal spider leg length inside the gutter, in
	// font sizes.
	LegRun float64 `json:"leg_run" toml:"leg_run"`
	// ExternalWrapChars caps the wrap budget of gutter labels.
	ExternalWrapChars int `json:"external_wrap_chars" toml:"external_wrap_chars"`
}

const (
	minHeroScale  = 2
	maxHeroScale  = 4.5
	heroScaleStep = 0.5
)

// DefaultConfig returns the constants the engine ships with.
func DefaultConfig() Config {
	return Config{
		MinWidth:          48,
		MinHeight:         28,
		Padding:           0.5,
		GutterShare:       0.22,
		HeroScale:         3,
		LegRun:            1,
		ExternalWrapChars: 16,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.MinWidth <= 0 {
		c.MinWidth = d.MinWidth
	}
	if c.MinHeight <= 0 {
		c.MinHeight = d.MinHeight
	}
	if c.Padding <= 0 {
		c.Padding = d.Padding
	}
	if c.GutterShare <= 0 || c.GutterShare >= 1 {
		c.GutterShare = d.GutterShare
	}
	if c.HeroScale <= 0 {
		c.HeroScale = d.HeroScale
	}
	if c.LegRun <= 0 {
		c.LegRun = d.LegRun
	}
	if c.ExternalWrapChars <= 0 {
		c.ExternalWrapChars = d.ExternalWrapChars
	}
	return c
}
