// Package automata drives a camera through capture and preview on behalf
// of scripts, storing downloaded images in a session directory.
package automata

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/jeeftor/tether/internal/filesystem"
	"github.com/jeeftor/tether/internal/logging"
)

// Automata is the camera automation context handed to scripts
type Automata interface {
	Capture(ctx context.Context) error
	Preview(ctx context.Context) (image.Image, error)
}

// Hooks are called synchronously around captures. Any of them may be nil.
type Hooks struct {
	CaptureBegin func()
	CaptureEnd   func()
	FileAdded    func(path string)
}

// Option configures a CameraAutomata
type Option func(*CameraAutomata)

// WithDeleteFile removes images from the camera once they are handled
func WithDeleteFile(deleteFile bool) Option {
	return func(ca *CameraAutomata) {
		ca.deleteFile = deleteFile
	}
}

// WithHooks installs capture hooks
func WithHooks(h Hooks) Option {
	return func(ca *CameraAutomata) {
		ca.hooks = h
	}
}

// CameraAutomata implements Automata on top of a Camera driver
type CameraAutomata struct {
	camera     Camera
	session    *Session
	deleteFile bool
	hooks      Hooks

	// The camera handles one operation at a time
	mu sync.Mutex
}

var _ Automata = (*CameraAutomata)(nil)

// New creates an automata for camera saving into session
func New(camera Camera, session *Session, opts ...Option) *CameraAutomata {
	ca := &CameraAutomata{
		camera:  camera,
		session: session,
	}
	for _, opt := range opts {
		opt(ca)
	}
	return ca
}

// Camera returns the underlying driver
func (ca *CameraAutomata) Camera() Camera {
	return ca.camera
}

// Session returns the session captures are saved to
func (ca *CameraAutomata) Session() *Session {
	return ca.session
}

// DeleteFile reports whether images are removed from the camera
func (ca *CameraAutomata) DeleteFile() bool {
	return ca.deleteFile
}

// Capture fires the shutter and downloads the result into the session.
// If ctx is cancelled once the shutter has fired, the image is discarded
// and the cancellation is returned.
func (ca *CameraAutomata) Capture(ctx context.Context) error {
	if ca.camera == nil {
		return fmt.Errorf("no camera attached")
	}

	ca.mu.Lock()
	defer ca.mu.Unlock()

	logger := logging.NewContextualLogger("automata", "capture").With("camera", ca.camera.Model())
	start := time.Now()

	ca.fire(ca.hooks.CaptureBegin)
	file, err := ca.camera.CaptureImage(ctx)
	ca.fire(ca.hooks.CaptureEnd)
	if err != nil {
		return fmt.Errorf("capture failed: %w", err)
	}
	logger.Debug("Shutter released", "file", file.Name)

	// Download and delete are not interrupted once the image exists
	bg := context.WithoutCancel(ctx)

	if ctx.Err() != nil {
		if ca.deleteFile {
			if derr := ca.camera.Delete(bg, file); derr != nil {
				logger.Warn("Failed to delete discarded capture", "file", file.Name, "error", derr)
			}
		}
		logging.Discard(file.Name)
		return fmt.Errorf("capture discarded: %w", ctx.Err())
	}

	if ca.session == nil {
		return fmt.Errorf("no session to store %s", file.Name)
	}

	path, err := ca.download(bg, file)
	if err != nil {
		return err
	}

	if ca.deleteFile {
		if err := ca.camera.Delete(bg, file); err != nil {
			return fmt.Errorf("failed to delete %s from camera: %w", file.Name, err)
		}
	}

	logging.LogCapture(ca.camera.Model(), path, len(file.Data), time.Since(start))
	if ca.hooks.FileAdded != nil {
		ca.hooks.FileAdded(path)
	}
	return nil
}

// download writes file into the session via a temporary file so a
// partial download never appears under its final name
func (ca *CameraAutomata) download(ctx context.Context, file *File) (string, error) {
	path := ca.session.NextFilename(file.Ext)

	tmp, err := filesystem.CreateTempFileInDir(ca.session.Dir(), "download")
	if err != nil {
		return "", fmt.Errorf("failed to create download file: %w", err)
	}
	defer filesystem.SafeRemove(tmp.Name())

	if err := ca.camera.Download(ctx, file, tmp); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to download %s: %w", file.Name, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", file.Name, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("failed to store %s: %w", filepath.Base(path), err)
	}
	return path, nil
}

// Preview fetches a live-view frame
func (ca *CameraAutomata) Preview(ctx context.Context) (image.Image, error) {
	if ca.camera == nil {
		return nil, fmt.Errorf("no camera attached")
	}

	ca.mu.Lock()
	defer ca.mu.Unlock()

	img, err := ca.camera.Preview(ctx)
	if err != nil {
		return nil, fmt.Errorf("preview failed: %w", err)
	}
	return img, nil
}

func (ca *CameraAutomata) fire(hook func()) {
	if hook != nil {
		hook()
	}
}
