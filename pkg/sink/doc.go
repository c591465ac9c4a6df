// Package sink paints a computed [layout.ComputedLayout] into output
// formats.
//
// # Overview
//
// The layout engine decides every position; a sink only draws. This package
// provides a reference painter:
//
//   - SVG: a wireframe of the layout (zones, shapes, labels, spider legs)
//   - JSON: the layout itself, for external painters
//   - PDF: print-ready output (requires rsvg-convert)
//   - PNG: raster output (requires rsvg-convert)
//
// # SVG Output
//
// [RenderSVG] draws what the layout holds and nothing else. Hidden labels
// are left out unless [WithDebug] is given, which also outlines the plot
// and legend zones and marks value labels that overflow their bar.
//
//	svg := sink.RenderSVG(l,
//	    sink.WithEffect(sink.EffectGlass),
//	    sink.WithInstance(3),
//	)
//
// # Effects
//
// Visual effects are descriptors ([Effect]) resolved into SVG <defs>. An
// effect's id is derived from its kind, colour and the render instance
// index, so the same chart rendered twice yields byte-identical output and
// several charts on one page never share ids.
//
// # PDF and PNG Output
//
// [RenderPDF] and [RenderPNG] render SVG first and convert it with [ToPDF]
// and [ToPNG]:
//
//	pdf, err := sink.RenderPDF(l, sink.WithPDFSVGOptions(opts...))
//	png, err := sink.RenderPNG(l, sink.WithScale(2))
//
// These require librsvg to be installed:
//   - macOS: brew install librsvg
//   - Linux: apt install librsvg2-bin
package sink
