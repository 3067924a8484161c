// Package boothfx is the interactive core of a photo booth built on
// [Ebitengine].
//
// It provides a pointer-reactive decorative backdrop and the capture path
// that turns camera frames into shareable stills and strips.
//
// # Quick start
//
// The simplest way to get started is [Run], which creates a window and game
// loop for a [Backdrop]:
//
//	b := boothfx.NewBackdrop(nil)
//	defer b.Close()
//	boothfx.Run(b, boothfx.RunConfig{
//		Title: "Booth", Width: 1280, Height: 720,
//	})
//
// For full control, implement [ebiten.Game] yourself and call
// [Backdrop.Update] and [Backdrop.Draw] from your own loop.
//
// # Backdrop
//
// A [PointerSampler] smooths raw pointer positions and derives a decaying
// velocity. Each frame the [Simulator] moves every [DecorativeLayer] toward
// a target offset computed from proximity, repulsion, swirl and wake terms,
// using the constants of the active [InteractionProfile]. A
// [TierClassifier] buckets the viewport width into small, medium and wide
// tiers that select each layer's placement. The [WaveRenderer] draws the
// procedural line field behind the layers and eases between light and dark
// palettes.
//
// Environment changes arrive through [Input]. Registrations return a
// [CallbackHandle]; call Remove on it, or collect handles in
// [Subscriptions], to unsubscribe.
//
// # Capture
//
// A [Negotiator] acquires a camera through a [MediaDevices] implementation
// by walking an ordered list of [ConstraintPreset] values built by
// [BuildPresets]. Failures are reported as [*CaptureError] carrying a
// [CaptureErrorKind]. The [Compositor] center-crops the live frame to a
// target aspect ratio, optionally mirrors it, and encodes a JPEG data URL.
// [StripComposer] loads finished stills concurrently and lays them out on a
// [Layout] grid.
//
// The gstcam subpackage implements [MediaDevices] on top of GStreamer.
//
// # Logging
//
// Diagnostics go through [log/slog]. The package logs nothing until
// [SetLogger] is called.
//
// [Ebitengine]: https://ebitengine.org
package boothfx
