package radial

// Config holds the empirically tuned constants of the radial resolver. Zero
// fields take the defaults from DefaultConfig.
type Config struct {
	// MinArc is the smallest slice span, in radians, that may hold an
	// internal label.
	MinArc float64 `json:"min_arc" toml:"min_arc"`
	// HiddenShare hides labels of slices whose share of the total is below it.
	HiddenShare float64 `json:"hidden_share" toml:"hidden_share"`
	// LabelRadius places internal pie labels at this fraction of the radius.
	LabelRadius float64 `json:"label_radius" toml:"label_radius"`
	// InternalFill is the usable share of the chord for internal text.
	InternalFill float64 `json:"internal_fill" toml:"internal_fill"`
	// LegOffset is the elbow distance beyond the outer radius, in font sizes.
	LegOffset float64 `json:"leg_offset" toml:"leg_offset"`
	// LegRun is the horizontal run from elbow to label, in font sizes.
	LegRun float64 `json:"leg_run" toml:"leg_run"`
	// ExternalWrapChars is the wrap budget of external labels.
	ExternalWrapChars int `json:"external_wrap_chars" toml:"external_wrap_chars"`
	// Thickness is the default donut ring thickness as a share of the radius.
	Thickness float64 `json:"thickness" toml:"thickness"`
	// HeroScale is the default hero readout multiplier.
	HeroScale float64 `json:"hero_scale" toml:"hero_scale"`
	// Fill is the share of the half plot size used as radius when all labels
	// are internal.
	Fill float64 `json:"fill" toml:"fill"`
}

const (
	minHeroScale = 2
	maxHeroScale = 4.5
	maxInner     = 0.95
)

// DefaultConfig returns the constants the engine ships with.
func DefaultConfig() Config {
	return Config{
		MinArc:            0.35,
		HiddenShare:       0.005,
		LabelRadius:       0.65,
		InternalFill:      0.85,
		LegOffset:         1,
		LegRun:            1.2,
		ExternalWrapChars: 14,
		Thickness:         0.4,
		HeroScale:         3,
		Fill:              0.95,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.MinArc <= 0 {
		c.MinArc = d.MinArc
	}
	if c.HiddenShare <= 0 {
		c.HiddenShare = d.HiddenShare
	}
	if c.LabelRadius <= 0 || c.LabelRadius >= 1 {
		c.LabelRadius = d.LabelRadius
	}
	if c.InternalFill <= 0 || c.InternalFill > 1 {
		c.InternalFill = d.InternalFill
	}
	if c.LegOffset <= 0 {
		c.LegOffset = d.LegOffset
	}
	if c.LegRun <= 0 {
		c.LegRun = d.LegRun
	}
	if c.ExternalWrapChars <= 0 {
		c.ExternalWrapChars = d.ExternalWrapChars
	}
	if c.Thickness <= 0 || c.Thickness > 1 {
		c.Thickness = d.Thickness
	}
	if c.HeroScale <= 0 {
		c.HeroScale = d.HeroScale
	}
	c.HeroScale = min(max(c.HeroScale, minHeroScale), maxHeroScale)
	if c.Fill <= 0 || c.Fill > 1 {
		c.Fill = d.Fill
	}
	return c
}
