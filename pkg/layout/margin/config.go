package margin

// Config holds the tunable constants of the margin rules. Zero fields take
// the defaults from DefaultConfig.
type Config struct {
	// Padding is the fixed outer padding in pixels.
	Padding float64 `json:"padding" toml:"padding"`
	// AxisTitleAllowance is the room reserved for an axis title, in font sizes.
	AxisTitleAllowance float64 `json:"axis_title_allowance" toml:"axis_title_allowance"`
	// TopClearance is the infographic head room, in font sizes.
	TopClearance float64 `json:"top_clearance" toml:"top_clearance"`
	// LabelGap separates axis labels from the plot, in font sizes.
	LabelGap float64 `json:"label_gap" toml:"label_gap"`
	// StaggerFactor: labels stagger when categoryWidth < fontSize*StaggerFactor.
	StaggerFactor float64 `json:"stagger_factor" toml:"stagger_factor"`
	// StaggerMinWidth, when positive, replaces the factor with a fixed
	// pixel threshold.
	StaggerMinWidth float64 `json:"stagger_min_width" toml:"stagger_min_width"`
	// MinBandFactor is the narrowest legible category band, in font sizes.
	MinBandFactor float64 `json:"min_band_factor" toml:"min_band_factor"`
	// MaxMarginShare caps left+right and top+bottom as a share of the container.
	MaxMarginShare float64 `json:"max_margin_share" toml:"max_margin_share"`
	// LegendMaxShare caps the legend band as a share of the container.
	LegendMaxShare float64 `json:"legend_max_share" toml:"legend_max_share"`
}

// DefaultConfig returns the constants the engine ships with.
func DefaultConfig() Config {
	return Config{
		Padding:            12,
		AxisTitleAllowance: 1.8,
		TopClearance:       2,
		LabelGap:           0.5,
		StaggerFactor:      8,
		MinBandFactor:      1.5,
		MaxMarginShare:     0.9,
		LegendMaxShare:     0.3,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Padding <= 0 {
		c.Padding = d.Padding
	}
	if c.AxisTitleAllowance <= 0 {
		c.AxisTitleAllowance = d.AxisTitleAllowance
	}
	if c.TopClearance <= 0 {
		c.TopClearance = d.TopClearance
	}
	if c.LabelGap <= 0 {
		c.LabelGap = d.LabelGap
	}
	if c.StaggerFactor <= 0 {
		c.StaggerFactor = d.StaggerFactor
	}
	if c.MinBandFactor <= 0 {
		c.MinBandFactor = d.MinBandFactor
	}
	if c.MaxMarginShare <= 0 || c.MaxMarginShare >= 1 {
		c.MaxMarginShare = d.MaxMarginShare
	}
	if c.LegendMaxShare <= 0 || c.LegendMaxShare >= 1 {
		c.LegendMaxShare = d.LegendMaxShare
	}
	return c
}

// WithDefaults returns c with every zero field replaced by its default.
func (c Config) WithDefaults() Config { return c.withDefaults() }
