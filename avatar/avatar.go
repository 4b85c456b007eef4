// Package avatar screens uploaded profile pictures and normalises them to a
// fixed size PNG before they are stored on the user record.
package avatar

import (
	"bytes"
	"errors"
	"image"
	_ "image/jpeg"
	"image/png"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"
)

const (
	// MaxUploadSize is the largest accepted upload, in bytes
	MaxUploadSize = 1 << 20
	// MaxPixels caps the decoded canvas of an upload
	MaxPixels = 25_000_000
	// Size is the edge length of a stored avatar
	Size = 250
	// ContentType of every stored avatar
	ContentType = "image/png"
)

var (
	ErrNotAPicture = errors.New("Please upload a picture")
	ErrTooLarge    = errors.New("File too large")
	ErrUndecodable = errors.New("Unable to read picture")
)

var allowedExt = map[string]bool{".jpg": true, ".jpeg": true, ".png": true}

// CheckUpload rejects a file by name and size before any decoding happens
func CheckUpload(filename string, size int64) error {
	if !allowedExt[strings.ToLower(filepath.Ext(filename))] {
		return ErrNotAPicture
	}
	if size > MaxUploadSize {
		return ErrTooLarge
	}
	return nil
}

// Normalize decodes a jpeg or png, crops it to a centered square and scales
// it to Size x Size, returning PNG bytes. Pictures declaring more than
// MaxPixels are refused before their pixels are decoded.
func Normalize(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, ErrUndecodable
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, ErrUndecodable
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, ErrUndecodable
	}
	if int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return nil, ErrTooLarge
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, ErrUndecodable
	}

	dst := image.NewRGBA(image.Rect(0, 0, Size, Size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, centerSquare(src.Bounds()), draw.Src, nil)

	var out bytes.Buffer
	if err := png.Encode(&out, dst); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func centerSquare(b image.Rectangle) image.Rectangle {
	w, h := b.Dx(), b.Dy()
	side := w
	if h < side {
		side = h
	}
	x0 := b.Min.X + (w-side)/2
	y0 := b.Min.Y + (h-side)/2
	return image.Rect(x0, y0, x0+side, y0+side)
}
