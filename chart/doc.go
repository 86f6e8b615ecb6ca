// Package chart draws bar and line charts of labeled, non-negative values
// onto a 2D drawing surface.
//
// [Render] is the entry point. It scales the surface by the device pixel
// ratio, clears it, computes a value axis rounded up to the next multiple of
// ten and draws either bars or a line with a filled area beneath it. Series
// that cannot be drawn (empty, or a single point for a line chart) are
// reported as [ErrRenderSkipped] and leave the surface untouched.
//
// Colors come from a [Theme] as CSS hsl() strings. Translucent variants are
// derived by rewriting the notation with [WithAlpha].
//
// [Raster] is the bundled surface: an anti-aliased *image.RGBA canvas that
// can be encoded as PNG. [Recorder] captures drawing calls for inspection.
package chart
