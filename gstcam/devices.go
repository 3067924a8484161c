// Package gstcam opens Video4Linux cameras through GStreamer and exposes them
// as boothfx media streams.
//
// Pipeline structure:
//
//	v4l2src → videoconvert → videoscale → videorate → capsfilter → appsink
//
// The capsfilter pins the RGBA output format and carries the preset's ideal
// size and frame rate. A device that cannot satisfy them fails caps
// negotiation, which is reported as boothfx.KindConstraintUnsatisfiable.
package gstcam

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/tinyzimmer/go-gst/gst"
	"github.com/tinyzimmer/go-gst/gst/app"

	"github.com/phanxgames/boothfx"
)

// DefaultDevicePath is the camera opened when Devices.DevicePath is empty.
const DefaultDevicePath = "/dev/video0"

// busPoll bounds a single bus read while waiting for the pipeline to start.
const busPoll = 50 * time.Millisecond

var initOnce sync.Once

// Devices implements boothfx.MediaDevices for a single V4L2 device.
type Devices struct {
	DevicePath string
	// StartTimeout caps how long GetUserMedia waits for PLAYING when ctx
	// carries no deadline.
	StartTimeout time.Duration
}

// New returns Devices for the camera at path.
func New(path string) *Devices {
	return &Devices{DevicePath: path, StartTimeout: 5 * time.Second}
}

// GetUserMedia builds a pipeline for p, starts it and waits until it reaches
// PLAYING or reports an error. Errors are *boothfx.CaptureError values.
func (d *Devices) GetUserMedia(ctx context.Context, p boothfx.ConstraintPreset) (boothfx.MediaStream, error) {
	initOnce.Do(func() { gst.Init(nil) })

	path := d.DevicePath
	if path == "" {
		path = DefaultDevicePath
	}
	els, err := buildPipeline(path, p)
	if err != nil {
		return nil, captureError(err.Error(), err)
	}
	s := newStream(path, p, els)

	if err := els.pipeline.SetState(gst.StatePlaying); err != nil {
		s.Stop()
		return nil, captureError(err.Error(), err)
	}

	wait := ctx
	if _, ok := ctx.Deadline(); !ok && d.StartTimeout > 0 {
		var cancel context.CancelFunc
		wait, cancel = context.WithTimeout(ctx, d.StartTimeout)
		defer cancel()
	}
	if err := waitPlaying(wait, els.pipeline); err != nil {
		s.Stop()
		return nil, err
	}
	boothfx.Logger().Debug("gstcam: pipeline playing", "device", path, "preset", p.Name)

	s.startMonitor()
	return s, nil
}

// pipelineElements holds references needed after construction.
type pipelineElements struct {
	pipeline *gst.Pipeline
	sink     *app.Sink
}

func buildPipeline(path string, p boothfx.ConstraintPreset) (*pipelineElements, error) {
	pipeline, err := gst.NewPipeline("")
	if err != nil {
		return nil, fmt.Errorf("failed to create pipeline: %w", err)
	}

	src, err := gst.NewElement("v4l2src")
	if err != nil {
		return nil, fmt.Errorf("failed to create v4l2src: %w", err)
	}
	src.SetProperty("device", path)

	var chain []*gst.Element
	chain = append(chain, src)
	for _, name := range []string{"videoconvert", "videoscale", "videorate"} {
		el, err := gst.NewElement(name)
		if err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", name, err)
		}
		chain = append(chain, el)
	}

	capsfilter, err := gst.NewElement("capsfilter")
	if err != nil {
		return nil, fmt.Errorf("failed to create capsfilter: %w", err)
	}
	capsfilter.SetProperty("caps", gst.NewCapsFromString(capsFor(p)))
	chain = append(chain, capsfilter)

	sink, err := app.NewAppSink()
	if err != nil {
		return nil, fmt.Errorf("failed to create appsink: %w", err)
	}
	sink.SetProperty("sync", false)
	sink.SetProperty("max-buffers", 1)
	sink.SetProperty("drop", true)
	chain = append(chain, sink.Element)

	if err := pipeline.AddMany(chain...); err != nil {
		return nil, fmt.Errorf("failed to add elements: %w", err)
	}
	if err := gst.ElementLinkMany(chain...); err != nil {
		return nil, fmt.Errorf("failed to link pipeline elements: %w", err)
	}
	return &pipelineElements{pipeline: pipeline, sink: sink}, nil
}

// capsFor renders the caps string for a preset. Width, height and frame rate
// are only pinned when the preset names them.
func capsFor(p boothfx.ConstraintPreset) string {
	var b strings.Builder
	b.WriteString("video/x-raw,format=RGBA")
	if p.Width > 0 && p.Height > 0 {
		fmt.Fprintf(&b, ",width=%d,height=%d", p.Width, p.Height)
	}
	if p.FrameRate > 0 {
		num, den := framerateFraction(p.FrameRate)
		fmt.Fprintf(&b, ",framerate=%d/%d", num, den)
	}
	return b.String()
}

// framerateFraction converts fps to a GStreamer fraction. Fractional rates
// keep three decimals.
func framerateFraction(fps float64) (int, int) {
	if fps == math.Trunc(fps) {
		return int(fps), 1
	}
	return int(math.Round(fps * 1000)), 1000
}

// waitPlaying drains the bus until the pipeline reaches PLAYING, reports an
// error, or ctx ends.
func waitPlaying(ctx context.Context, pipeline *gst.Pipeline) error {
	bus := pipeline.GetPipelineBus()
	for {
		select {
		case <-ctx.Done():
			return &boothfx.CaptureError{
				Kind:    boothfx.KindConstraintUnsatisfiable,
				Message: "timed out waiting for device to start",
				Err:     ctx.Err(),
			}
		default:
		}
		msg := bus.TimedPop(busPoll)
		if msg == nil {
			continue
		}
		switch msg.Type() {
		case gst.MessageError:
			gerr := msg.ParseError()
			return classifyGError(gerr)
		case gst.MessageEOS:
			return &boothfx.CaptureError{Kind: boothfx.KindDeviceBusy, Message: "device ended stream during start"}
		case gst.MessageStateChanged:
			if msg.Source() != pipeline.GetName() {
				continue
			}
			if _, next := msg.ParseStateChanged(); next == gst.StatePlaying {
				return nil
			}
		}
	}
}

// classifyGError maps a GStreamer error to a capture error. The debug string
// usually carries the errno text from the driver, so both are searched.
func classifyGError(gerr *gst.GError) error {
	if gerr == nil {
		return &boothfx.CaptureError{Kind: boothfx.KindUnknown, Message: "pipeline error"}
	}
	return captureError(gerr.Error()+" "+gerr.DebugString(), gerr)
}

func captureError(text string, err error) *boothfx.CaptureError {
	return &boothfx.CaptureError{
		Kind:    boothfx.ClassifyCaptureError(text),
		Message: err.Error(),
		Err:     err,
	}
}

var _ boothfx.MediaDevices = (*Devices)(nil)
