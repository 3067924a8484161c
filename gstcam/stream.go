package gstcam

import (
	"image"
	"sync"

	"github.com/tinyzimmer/go-gst/gst"
	"github.com/tinyzimmer/go-gst/gst/app"

	"github.com/phanxgames/boothfx"
)

// Stream is a running capture pipeline. It keeps only the most recent frame.
type Stream struct {
	device string
	preset boothfx.ConstraintPreset
	els    *pipelineElements

	mu      sync.Mutex
	latest  *image.RGBA
	width   int
	height  int
	frames  uint64
	stopped bool

	stopOnce sync.Once
	done     chan struct{}
}

func newStream(device string, p boothfx.ConstraintPreset, els *pipelineElements) *Stream {
	s := &Stream{device: device, preset: p, els: els, done: make(chan struct{})}
	els.sink.SetCallbacks(&app.SinkCallbacks{
		NewSampleFunc: s.onSample,
	})
	return s
}

// Settings reports the delivered frame size. Dimensions are zero until the
// first frame arrives.
func (s *Stream) Settings() boothfx.TrackSettings {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := boothfx.TrackSettings{
		DeviceID:   s.device,
		FrameRate:  s.preset.FrameRate,
		FacingMode: s.preset.FacingMode,
	}
	if s.stopped || s.latest == nil {
		return t
	}
	t.Width, t.Height = s.width, s.height
	if s.height > 0 {
		t.AspectRatio = float64(s.width) / float64(s.height)
	}
	return t
}

// Frame returns the most recent frame.
func (s *Stream) Frame() (image.Image, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped || s.latest == nil {
		return nil, false
	}
	return s.latest, true
}

// Frames returns how many samples have been received.
func (s *Stream) Frames() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frames
}

// Stop tears the pipeline down. Safe to call more than once.
func (s *Stream) Stop() {
	s.stopOnce.Do(func() {
		close(s.done)
		s.mu.Lock()
		s.stopped = true
		s.latest = nil
		s.mu.Unlock()
		if err := s.els.pipeline.SetState(gst.StateNull); err != nil {
			boothfx.Logger().Warn("gstcam: failed to stop pipeline", "device", s.device, "error", err)
		}
	})
}

// onSample copies the sample into a fresh RGBA image. GStreamer reuses the
// buffer once the callback returns.
func (s *Stream) onSample(sink *app.Sink) gst.FlowReturn {
	sample := sink.PullSample()
	if sample == nil {
		return gst.FlowOK
	}
	buffer := sample.GetBuffer()
	if buffer == nil {
		return gst.FlowOK
	}
	w, h := sampleSize(sample)
	if w <= 0 || h <= 0 {
		return gst.FlowOK
	}

	mapInfo := buffer.Map(gst.MapRead)
	data := mapInfo.Bytes()
	img, ok := rgbaFromBytes(data, w, h)
	buffer.Unmap()
	if !ok {
		boothfx.Logger().Debug("gstcam: short buffer", "device", s.device, "bytes", len(data), "width", w, "height", h)
		return gst.FlowOK
	}

	s.mu.Lock()
	if !s.stopped {
		s.latest = img
		s.width, s.height = w, h
		s.frames++
	}
	s.mu.Unlock()
	return gst.FlowOK
}

// sampleSize reads the negotiated width and height from the sample caps.
func sampleSize(sample *gst.Sample) (int, int) {
	caps := sample.GetCaps()
	if caps == nil || caps.GetSize() == 0 {
		return 0, 0
	}
	st := caps.GetStructureAt(0)
	return structInt(st, "width"), structInt(st, "height")
}

func structInt(st *gst.Structure, key string) int {
	if st == nil {
		return 0
	}
	v, err := st.GetValue(key)
	if err != nil {
		return 0
	}
	switch n := v.(type) {
	case int:
		return n
	case int32:
		return int(n)
	case int64:
		return int(n)
	case uint:
		return int(n)
	case uint32:
		return int(n)
	}
	return 0
}

// rgbaFromBytes copies tightly packed or row-padded RGBA bytes into an image.
func rgbaFromBytes(data []byte, w, h int) (*image.RGBA, bool) {
	row := w * 4
	if h == 0 || len(data) < row*h {
		return nil, false
	}
	stride := len(data) / h
	if stride < row {
		return nil, false
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		copy(img.Pix[y*img.Stride:y*img.Stride+row], data[y*stride:y*stride+row])
	}
	return img, true
}

// startMonitor watches the bus after start-up. A runtime error stops the
// stream so Frame reports no data instead of a stale image.
func (s *Stream) startMonitor() {
	bus := s.els.pipeline.GetPipelineBus()
	go func() {
		for {
			select {
			case <-s.done:
				return
			default:
			}
			msg := bus.TimedPop(busPoll)
			if msg == nil {
				continue
			}
			switch msg.Type() {
			case gst.MessageError:
				err := classifyGError(msg.ParseError())
				boothfx.Logger().Error("gstcam: pipeline error", "device", s.device, "error", err)
				s.Stop()
				return
			case gst.MessageEOS:
				boothfx.Logger().Info("gstcam: end of stream", "device", s.device, "frames", s.Frames())
				s.Stop()
				return
			}
		}
	}()
}

var _ boothfx.MediaStream = (*Stream)(nil)
