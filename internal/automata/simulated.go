package automata

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"io"
	"sync"
	"time"

	"github.com/spakin/netpbm"

	"github.com/jeeftor/tether/internal/logging"
)

// SimulatedOptions configures a Simulated camera
type SimulatedOptions struct {
	Model   string
	Width   int
	Height  int
	Latency time.Duration
	Color   bool // PPM frames instead of PGM

	// FailCapture, when set, is consulted before each shot with the
	// 1-based shot number; a non-nil error fails that capture.
	FailCapture func(shot int) error
}

// Simulated is an in-memory camera that renders gradient test frames
type Simulated struct {
	opts SimulatedOptions

	mu    sync.Mutex
	shots int
	card  map[string]*File
}

var _ Camera = (*Simulated)(nil)

// NewSimulated creates a simulated camera with defaults filled in
func NewSimulated(opts SimulatedOptions) *Simulated {
	if opts.Model == "" {
		opts.Model = "Simulated Camera"
	}
	if opts.Width <= 0 {
		opts.Width = 160
	}
	if opts.Height <= 0 {
		opts.Height = 120
	}
	return &Simulated{opts: opts, card: make(map[string]*File)}
}

// Model returns the camera model name
func (s *Simulated) Model() string {
	return s.opts.Model
}

// Shots returns the number of successful captures so far
func (s *Simulated) Shots() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shots
}

// OnCard returns the number of files still held on the camera
func (s *Simulated) OnCard() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.card)
}

// CaptureImage waits for the configured latency then stores a new frame
func (s *Simulated) CaptureImage(ctx context.Context) (*File, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	shot := s.shots + 1
	if s.opts.FailCapture != nil {
		if err := s.opts.FailCapture(shot); err != nil {
			return nil, err
		}
	}

	data, ext, err := s.encode(s.render(shot))
	if err != nil {
		return nil, err
	}

	s.shots = shot
	logging.Trace("Simulated exposure", "shot", shot, "bytes", len(data))
	f := &File{
		Name:       fmt.Sprintf("IMG_%04d.%s", shot, ext),
		Ext:        ext,
		Data:       data,
		CapturedAt: time.Now(),
	}
	s.card[f.Name] = f
	return f, nil
}

// Download copies a file from the card to w
func (s *Simulated) Download(ctx context.Context, f *File, w io.Writer) error {
	s.mu.Lock()
	stored, ok := s.card[f.Name]
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("file %s not found on camera", f.Name)
	}

	_, err := w.Write(stored.Data)
	return err
}

// Delete removes a file from the card
func (s *Simulated) Delete(ctx context.Context, f *File) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.card[f.Name]; !ok {
		return fmt.Errorf("file %s not found on camera", f.Name)
	}
	delete(s.card, f.Name)
	return nil
}

// Preview renders a frame without storing it
func (s *Simulated) Preview(ctx context.Context) (image.Image, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.render(s.shots + 1), nil
}

func (s *Simulated) wait(ctx context.Context) error {
	if s.opts.Latency <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(s.opts.Latency)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// render draws a diagonal gradient shifted by the shot number
func (s *Simulated) render(shot int) image.Image {
	rect := image.Rect(0, 0, s.opts.Width, s.opts.Height)
	offset := shot * 16

	if s.opts.Color {
		img := image.NewRGBA(rect)
		for y := 0; y < s.opts.Height; y++ {
			for x := 0; x < s.opts.Width; x++ {
				img.Set(x, y, color.RGBA{
					R: uint8((x + offset) & 0xff),
					G: uint8((y + offset) & 0xff),
					B: uint8((x + y) & 0xff),
					A: 0xff,
				})
			}
		}
		return img
	}

	img := image.NewGray(rect)
	for y := 0; y < s.opts.Height; y++ {
		for x := 0; x < s.opts.Width; x++ {
			img.SetGray(x, y, color.Gray{Y: uint8((x + y + offset) & 0xff)})
		}
	}
	return img
}

func (s *Simulated) encode(img image.Image) ([]byte, string, error) {
	format, ext := netpbm.PGM, "pgm"
	if s.opts.Color {
		format, ext = netpbm.PPM, "ppm"
	}

	var buf bytes.Buffer
	err := netpbm.Encode(&buf, img, &netpbm.EncodeOptions{
		Format:   format,
		MaxValue: 255,
		Comments: []string{s.opts.Model},
	})
	if err != nil {
		return nil, "", fmt.Errorf("failed to encode frame: %w", err)
	}
	return buf.Bytes(), ext, nil
}
