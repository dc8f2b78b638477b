package imageproc

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"

	"github.com/disintegration/imaging"
)

// ErrUnsupported is returned when the source bytes are not a decodable image.
var ErrUnsupported = errors.New("unsupported or unrecognized image format")

// Fit modes accepted by Transform.
const (
	FitScaleDown = "scale-down"
	FitContain   = "contain"
	FitCover     = "cover"
	FitCrop      = "crop"
	FitPad       = "pad"
)

// Options describes a resized rendition of a stored image.
type Options struct {
	Fit    string
	Width  int
	Height int
}

// ValidFit reports whether fit names a known fit mode. The empty string selects scale-down.
func ValidFit(fit string) bool {
	switch fit {
	case "", FitScaleDown, FitContain, FitCover, FitCrop, FitPad:
		return true
	}
	return false
}

// Info is what Probe learns about an uploaded file.
type Info struct {
	Format string
	Width  int
	Height int
}

// DetectFormat inspects the raw bytes and returns the image format:
// "jpeg", "png", "gif", "webp", or "" if unknown.
func DetectFormat(data []byte) string {
	// JPEG: starts with FF D8 FF
	if len(data) >= 3 && data[0] == 0xFF && data[1] == 0xD8 && data[2] == 0xFF {
		return "jpeg"
	}
	// PNG: starts with 89 50 4E 47 0D 0A 1A 0A
	if len(data) >= 8 && bytes.Equal(data[:8], []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}) {
		return "png"
	}
	// GIF: starts with GIF87a or GIF89a
	if len(data) >= 6 && data[0] == 'G' && data[1] == 'I' && data[2] == 'F' {
		return "gif"
	}
	// WebP: starts with RIFF....WEBP
	if len(data) >= 12 && string(data[0:4]) == "RIFF" && string(data[8:12]) == "WEBP" {
		return "webp"
	}
	return ""
}

// IsSVG checks whether the data appears to be SVG content by looking for
// an <svg marker in the first 512 bytes.
func IsSVG(data []byte) bool {
	limit := 512
	if len(data) < limit {
		limit = len(data)
	}
	return bytes.Contains(data[:limit], []byte("<svg"))
}

// Probe sniffs the format of r and, for raster formats the standard decoders
// understand, its dimensions. Unknown content yields a zero Info and no error;
// only read failures are reported.
func Probe(r io.Reader) (Info, error) {
	head := make([]byte, 512)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return Info{}, fmt.Errorf("reading header: %w", err)
	}
	head = head[:n]

	if IsSVG(head) {
		return Info{Format: "svg"}, nil
	}

	info := Info{Format: DetectFormat(head)}
	switch info.Format {
	case "jpeg", "png", "gif":
		cfg, _, err := image.DecodeConfig(io.MultiReader(bytes.NewReader(head), r))
		if err == nil {
			info.Width, info.Height = cfg.Width, cfg.Height
		}
	}
	return info, nil
}

// Transform applies opts to the source image data and returns the processed
// image bytes and the output format (e.g., "jpeg", "png"). GIF, SVG and WebP
// are returned unchanged.
func Transform(src io.Reader, opts Options) ([]byte, string, error) {
	data, err := io.ReadAll(src)
	if err != nil {
		return nil, "", fmt.Errorf("reading source: %w", err)
	}

	if IsSVG(data) {
		return data, "svg", nil
	}

	format := DetectFormat(data)
	switch format {
	case "gif", "webp":
		return data, format, nil
	case "":
		return nil, "", ErrUnsupported
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, "", fmt.Errorf("decoding image: %w: %v", ErrUnsupported, err)
	}

	img = applyFit(img, opts)

	out, err := encodeImage(img, format)
	if err != nil {
		return nil, "", fmt.Errorf("encoding image: %w", err)
	}
	return out, format, nil
}

// applyFit applies the requested fit mode transformation to the image.
func applyFit(img image.Image, opts Options) image.Image {
	origW := img.Bounds().Dx()
	origH := img.Bounds().Dy()

	targetW := opts.Width
	targetH := opts.Height

	// If width or height is 0, use the original dimension.
	if targetW == 0 {
		targetW = origW
	}
	if targetH == 0 {
		targetH = origH
	}

	switch opts.Fit {
	case FitContain:
		return fitContain(img, targetW, targetH)
	case FitCover:
		return imaging.Fill(img, targetW, targetH, imaging.Center, imaging.Lanczos)
	case FitCrop:
		return imaging.CropCenter(img, targetW, targetH)
	case FitPad:
		fitted := imaging.Fit(img, targetW, targetH, imaging.Lanczos)
		return imaging.PasteCenter(imaging.New(targetW, targetH, image.White), fitted)
	default:
		// scale-down: only shrinks, never enlarges.
		if origW <= targetW && origH <= targetH {
			return img
		}
		return imaging.Fit(img, targetW, targetH, imaging.Lanczos)
	}
}

// fitContain resizes to fit within width x height, preserving aspect ratio.
// Can enlarge (unlike scale-down).
func fitContain(img image.Image, targetW, targetH int) image.Image {
	origW := img.Bounds().Dx()
	origH := img.Bounds().Dy()

	scale := float64(targetW) / float64(origW)
	if s := float64(targetH) / float64(origH); s < scale {
		scale = s
	}

	newW := max(int(float64(origW)*scale+0.5), 1)
	newH := max(int(float64(origH)*scale+0.5), 1)

	return imaging.Resize(img, newW, newH, imaging.Lanczos)
}

// encodeImage encodes an image to the specified format and returns the bytes.
func encodeImage(img image.Image, format string) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	switch format {
	case "jpeg":
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85})
	case "png":
		err = png.Encode(&buf, img)
	case "gif":
		err = gif.Encode(&buf, img, nil)
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ContentType maps an image format string to its MIME type.
func ContentType(format string) string {
	switch format {
	case "jpeg":
		return "image/jpeg"
	case "png":
		return "image/png"
	case "gif":
		return "image/gif"
	case "webp":
		return "image/webp"
	case "svg":
		return "image/svg+xml"
	default:
		return "application/octet-stream"
	}
}
