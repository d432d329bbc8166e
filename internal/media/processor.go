package media

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"

	_ "image/gif"

	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	DefaultMaxDimension = 3840
	defaultJPEGQuality  = 85
)

type Upload struct {
	Reader      io.Reader
	Size        int64
	FileName    string
	ContentType string
}

type Result struct {
	Bytes       []byte
	ContentType string
	Resized     bool
}

type Processor interface {
	Process(ctx context.Context, upload Upload, maxDimension int) (*Result, error)
}

// ImageProcessor decodes, scales down, and re-encodes uploaded pictures in
// process. WebP and GIF inputs are re-encoded as JPEG since we only need a
// static representation.
type ImageProcessor struct {
	jpegQuality int
}

func NewImageProcessor() *ImageProcessor {
	return &ImageProcessor{jpegQuality: defaultJPEGQuality}
}

func (p *ImageProcessor) Process(ctx context.Context, upload Upload, maxDimension int) (*Result, error) {
	if upload.Reader == nil {
		return nil, fmt.Errorf("media: empty reader")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if maxDimension <= 0 {
		maxDimension = DefaultMaxDimension
	}

	data, err := io.ReadAll(upload.Reader)
	if err != nil {
		return nil, fmt.Errorf("media: read image: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("media: empty image data")
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("media: decode image: %w", err)
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= maxDimension && height <= maxDimension {
		// Already small enough; pass the original through when the encoder
		// would not change the format anyway.
		if format == "jpeg" || format == "png" {
			return &Result{Bytes: data, ContentType: "image/" + format}, nil
		}
		return p.encode(img, format, false)
	}

	scale := float64(maxDimension) / float64(width)
	if height > width {
		scale = float64(maxDimension) / float64(height)
	}
	// Extreme aspect ratios can truncate the short side to zero, which the
	// encoders reject. A single row or column of pixels is still an image.
	dstWidth := int(float64(width) * scale)
	if dstWidth < 1 {
		dstWidth = 1
	}
	dstHeight := int(float64(height) * scale)
	if dstHeight < 1 {
		dstHeight = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, dstWidth, dstHeight))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, xdraw.Over, nil)

	return p.encode(dst, format, true)
}

func (p *ImageProcessor) encode(img image.Image, format string, resized bool) (*Result, error) {
	var buf bytes.Buffer
	switch format {
	case "png":
		if err := png.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("media: encode png: %w", err)
		}
		return &Result{Bytes: buf.Bytes(), ContentType: "image/png", Resized: resized}, nil
	default:
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: p.jpegQuality}); err != nil {
			return nil, fmt.Errorf("media: encode jpeg: %w", err)
		}
		return &Result{Bytes: buf.Bytes(), ContentType: "image/jpeg", Resized: resized}, nil
	}
}

var _ Processor = (*ImageProcessor)(nil)
