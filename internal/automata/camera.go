package automata

import (
	"context"
	"image"
	"io"
	"time"
)

// File is an image held on the camera's storage
type File struct {
	Name       string
	Ext        string
	Data       []byte
	CapturedAt time.Time
}

// Camera is the driver the automata talks to. Implementations must honour
// ctx on CaptureImage and Preview.
type Camera interface {
	Model() string
	CaptureImage(ctx context.Context) (*File, error)
	Download(ctx context.Context, f *File, w io.Writer) error
	Delete(ctx context.Context, f *File) error
	Preview(ctx context.Context) (image.Image, error)
}
