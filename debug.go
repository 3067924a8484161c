package boothfx

import "time"

// frameStats holds timing for one Update or Draw. Only populated when debug
// mode is on.
type frameStats struct {
	phase   string
	elapsed time.Duration
	frame   uint64
	layers  int
	lines   int
}

// debugLog reports frame timings at debug level.
func (b *Backdrop) debugLog(stats frameStats) {
	log := Logger()
	if stats.phase == "draw" {
		log.Debug("frame draw",
			"frame", stats.frame, "elapsed", stats.elapsed,
			"layers", stats.layers, "wave_lines", stats.lines,
			"tier", b.classifier.Tier().String(), "blend", b.wave.Blend())
		return
	}
	log.Debug("frame update",
		"frame", stats.frame, "elapsed", stats.elapsed,
		"pointer_active", b.sampler.Active(), "motion", b.motionEnabled())
	if stats.elapsed > slowFrameThreshold {
		log.Warn("slow frame", "phase", stats.phase, "frame", stats.frame, "elapsed", stats.elapsed)
	}
}

// slowFrameThreshold is one 60 Hz frame.
const slowFrameThreshold = 16 * time.Millisecond
