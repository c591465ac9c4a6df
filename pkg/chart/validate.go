package chart

import (
	"strconv"

	"github.com/matzehuels/chartlayout/pkg/errors"
)

var (
	modeNames   = []string{string(ModeClassic), string(ModeInfographic)}
	legendNames = []string{
		string(LegendNone), string(LegendTop), string(LegendRight),
		string(LegendBottom), string(LegendLeft),
	}
	targetNames = []string{string(TargetScreen), string(TargetPrint)}
	effectNames = []string{"none", "glass", "gradient", "shadow"}
)

// Validate checks a spec decoded from user input. It does not require
// series lengths to match the labels: the engine reads missing values as 0.
func (s Spec) Validate() error {
	if err := errors.ValidateEnum(errors.ErrCodeInvalidKind, "kind", string(s.Kind), KindNames(), false); err != nil {
		return err
	}
	st := s.Style
	if err := errors.ValidateEnum(errors.ErrCodeInvalidMode, "mode", string(st.Mode), modeNames, true); err != nil {
		return err
	}
	if err := errors.ValidateEnum(errors.ErrCodeInvalidLegend, "legend", string(st.Legend), legendNames, true); err != nil {
		return err
	}
	if err := errors.ValidateEnum(errors.ErrCodeInvalidInput, "effect", st.Effect, effectNames, true); err != nil {
		return err
	}
	if err := errors.ValidateFontSize(st.FontSize); err != nil {
		return err
	}
	if err := errors.ValidateIndex("hero", st.Hero, s.Data.Count()); err != nil {
		return err
	}
	if err := errors.ValidateFinite("donut_thickness", st.DonutThickness); err != nil {
		return err
	}
	if err := errors.ValidateFinite("hero_scale", st.HeroScale); err != nil {
		return err
	}
	if err := errors.ValidateFinite("inner_radii", st.InnerRadii...); err != nil {
		return err
	}
	for _, series := range s.Data.Series {
		if err := errors.ValidateFinite("series "+strconv.Quote(series.Name), series.Values...); err != nil {
			return err
		}
	}
	if st.DonutThickness < 0 || st.DonutThickness > 1 {
		return errors.New(errors.ErrCodeInvalidInput, "donut_thickness %g out of range [0, 1]", st.DonutThickness)
	}
	if st.HeroScale != 0 && (st.HeroScale < 1 || st.HeroScale > 6) {
		return errors.New(errors.ErrCodeInvalidInput, "hero_scale %g out of range [1, 6]", st.HeroScale)
	}
	if d := st.Format.Decimals; d != nil && (*d < 0 || *d > 10) {
		return errors.New(errors.ErrCodeInvalidFormat, "decimals %d out of range [0, 10]", *d)
	}
	for _, l := range s.Data.Labels {
		if err := errors.ValidateLabel(l); err != nil {
			return err
		}
	}
	switch {
	case s.Kind == KindScatter && len(s.Data.Series) < 2:
		return errors.New(errors.ErrCodeInvalidInput, "scatter charts need an x and a y series")
	case s.Kind == KindBubble && len(s.Data.Series) < 3:
		return errors.New(errors.ErrCodeInvalidInput, "bubble charts need x, y and size series")
	}
	return nil
}

// ValidateTarget checks a target name; empty means screen.
func ValidateTarget(t string) error {
	return errors.ValidateEnum(errors.ErrCodeInvalidTarget, "target", t, targetNames, true)
}
