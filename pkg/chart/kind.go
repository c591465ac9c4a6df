package chart

// Kind identifies a chart type.
type Kind string

const (
	KindBar       Kind = "bar" // horizontal bars, categories on the left axis
	KindColumn    Kind = "column"
	KindLine      Kind = "line"
	KindArea      Kind = "area"
	KindHistogram Kind = "histogram"
	KindMixed     Kind = "mixed" // first series as columns, the rest as lines
	KindScatter   Kind = "scatter"
	KindBubble    Kind = "bubble"
	KindPie       Kind = "pie"
	KindDonut     Kind = "donut"
	KindTreemap   Kind = "treemap"
)

// Family groups chart kinds that share one geometry algorithm.
type Family int

const (
	FamilyCartesian Family = iota
	FamilyRadial
	FamilyArea
)

// Kinds lists every supported chart kind in a stable order.
var Kinds = []Kind{
	KindBar, KindColumn, KindLine, KindArea, KindHistogram, KindMixed,
	KindScatter, KindBubble, KindPie, KindDonut, KindTreemap,
}

// KindNames returns the string form of Kinds.
func KindNames() []string {
	out := make([]string, len(Kinds))
	for i, k := range Kinds {
		out[i] = string(k)
	}
	return out
}

// Family returns the geometry family for k. Unknown kinds fall back to
// cartesian, which degrades to an empty plot.
func (k Kind) Family() Family {
	switch k {
	case KindPie, KindDonut:
		return FamilyRadial
	case KindTreemap:
		return FamilyArea
	default:
		return FamilyCartesian
	}
}

// Horizontal reports whether categories run down the left axis.
func (k Kind) Horizontal() bool { return k == KindBar }

// HasPoints reports whether the kind plots free x/y points rather than
// categories.
func (k Kind) HasPoints() bool { return k == KindScatter || k == KindBubble }

// Mode selects the margin and scaling rules.
type Mode string

const (
	// ModeClassic uses fixed paddings and only shrinks content that would
	// otherwise overflow.
	ModeClassic Mode = "classic"
	// ModeInfographic always scales content to fill the available height.
	ModeInfographic Mode = "infographic"
)

// LegendPosition places the legend band relative to the plot.
type LegendPosition string

const (
	LegendNone   LegendPosition = "none"
	LegendTop    LegendPosition = "top"
	LegendRight  LegendPosition = "right"
	LegendBottom LegendPosition = "bottom"
	LegendLeft   LegendPosition = "left"
)

// Target is the medium the layout is computed for.
type Target string

const (
	TargetScreen Target = "screen"
	TargetPrint  Target = "print"
)

// OrDefault returns TargetScreen for an empty target.
func (t Target) OrDefault() Target {
	if t == "" {
		return TargetScreen
	}
	return t
}
