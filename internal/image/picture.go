// Package image provides image decoding, data URLs, resampling and compositing
// for the crop and editor sessions.
package image

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	_ "image/gif"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrUnsupported is returned for data that is not a decodable image.
var ErrUnsupported = errors.New("unsupported image data")

// Picture is a decoded image together with its encoded form. Src is a data
// URL, which is how pictures are stored in serialized documents.
type Picture struct {
	Src    string      // data:image/<format>;base64,...
	Format string      // Decoder name: jpeg, png, tiff, ...
	Width  int         // Natural width in pixels
	Height int         // Natural height in pixels
	DPI    float64     // From TIFF metadata, 0 if unknown
	Image  image.Image // Decoded pixels
}

// Decode decodes encoded image bytes. The original bytes are kept as the
// picture's data URL, so nothing is re-encoded.
func Decode(data []byte) (*Picture, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupported, err)
	}

	pic := &Picture{
		Src:    dataURL(format, data),
		Format: format,
		Width:  img.Bounds().Dx(),
		Height: img.Bounds().Dy(),
		Image:  img,
	}
	if format == "tiff" {
		if dpi, err := extractTIFFDPI(bytes.NewReader(data)); err == nil {
			pic.DPI = dpi
		}
	}
	return pic, nil
}

// LoadFile reads and decodes an image file.
func LoadFile(path string) (*Picture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	pic, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", filepath.Base(path), err)
	}
	return pic, nil
}

// FromDataURL decodes a picture stored as a data URL.
func FromDataURL(src string) (*Picture, error) {
	data, err := parseDataURL(src)
	if err != nil {
		return nil, err
	}
	return Decode(data)
}

// Encode wraps img as a picture, encoding it as JPEG when quality is in 1..100
// and as PNG otherwise.
func Encode(img image.Image, quality int) (*Picture, error) {
	var buf bytes.Buffer
	format := "png"
	if quality > 0 && quality <= 100 {
		format = "jpeg"
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
			return nil, fmt.Errorf("failed to encode jpeg: %w", err)
		}
	} else if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode png: %w", err)
	}

	return &Picture{
		Src:    dataURL(format, buf.Bytes()),
		Format: format,
		Width:  img.Bounds().Dx(),
		Height: img.Bounds().Dy(),
		Image:  img,
	}, nil
}

// Bytes returns the encoded bytes behind the data URL.
func (p *Picture) Bytes() ([]byte, error) {
	return parseDataURL(p.Src)
}

// WriteTo writes the encoded bytes to w.
func (p *Picture) WriteTo(w io.Writer) (int64, error) {
	data, err := p.Bytes()
	if err != nil {
		return 0, err
	}
	n, err := w.Write(data)
	return int64(n), err
}

// Aspect returns width/height.
func (p *Picture) Aspect() float64 {
	if p.Height == 0 {
		return 0
	}
	return float64(p.Width) / float64(p.Height)
}

func mimeType(format string) string {
	if format == "" {
		return "application/octet-stream"
	}
	return "image/" + format
}

func dataURL(format string, data []byte) string {
	return "data:" + mimeType(format) + ";base64," + base64.StdEncoding.EncodeToString(data)
}

func parseDataURL(src string) ([]byte, error) {
	rest, ok := strings.CutPrefix(src, "data:")
	if !ok {
		return nil, fmt.Errorf("%w: not a data URL", ErrUnsupported)
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, fmt.Errorf("%w: malformed data URL", ErrUnsupported)
	}
	if !strings.HasSuffix(meta, ";base64") {
		return nil, fmt.Errorf("%w: data URL is not base64", ErrUnsupported)
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupported, err)
	}
	return data, nil
}

// extractTIFFDPI reads the resolution tags of the first IFD.
func extractTIFFDPI(r io.ReadSeeker) (float64, error) {
	header := make([]byte, 8)
	if _, err := io.ReadFull(r, header); err != nil {
		return 0, err
	}

	var byteOrder binary.ByteOrder
	switch {
	case header[0] == 'I' && header[1] == 'I':
		byteOrder = binary.LittleEndian
	case header[0] == 'M' && header[1] == 'M':
		byteOrder = binary.BigEndian
	default:
		return 0, fmt.Errorf("not a valid TIFF file")
	}

	ifdOffset := byteOrder.Uint32(header[4:8])
	if _, err := r.Seek(int64(ifdOffset), io.SeekStart); err != nil {
		return 0, err
	}

	var numEntries uint16
	if err := binary.Read(r, byteOrder, &numEntries); err != nil {
		return 0, err
	}

	var xRes, yRes float64
	var resUnit uint16 = 2 // Inches

	entry := make([]byte, 12)
	for i := uint16(0); i < numEntries; i++ {
		if _, err := io.ReadFull(r, entry); err != nil {
			return 0, err
		}

		tag := byteOrder.Uint16(entry[0:2])
		fieldType := byteOrder.Uint16(entry[2:4])
		valueOffset := byteOrder.Uint32(entry[8:12])

		switch tag {
		case 282: // XResolution
			if fieldType == 5 {
				xRes = readTIFFRational(r, int64(valueOffset), byteOrder)
			}
		case 283: // YResolution
			if fieldType == 5 {
				yRes = readTIFFRational(r, int64(valueOffset), byteOrder)
			}
		case 296: // ResolutionUnit
			if fieldType == 3 {
				resUnit = byteOrder.Uint16(entry[8:10])
			}
		}
	}

	dpi := xRes
	if dpi == 0 {
		dpi = yRes
	}
	if dpi == 0 {
		return 0, fmt.Errorf("no resolution tags found")
	}
	if resUnit == 3 { // Centimeters
		dpi *= 2.54
	}
	return dpi, nil
}

func readTIFFRational(r io.ReadSeeker, offset int64, byteOrder binary.ByteOrder) float64 {
	currentPos, _ := r.Seek(0, io.SeekCurrent)
	defer r.Seek(currentPos, io.SeekStart)

	if _, err := r.Seek(offset, io.SeekStart); err != nil {
		return 0
	}
	var num, denom uint32
	if binary.Read(r, byteOrder, &num) != nil || binary.Read(r, byteOrder, &denom) != nil || denom == 0 {
		return 0
	}
	return float64(num) / float64(denom)
}

// SupportedFormats returns the file extensions the decoder accepts.
func SupportedFormats() []string {
	return []string{".jpg", ".jpeg", ".png", ".gif", ".bmp", ".webp", ".tiff", ".tif"}
}

// IsSupportedFormat checks if the given path has a supported image extension.
func IsSupportedFormat(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, format := range SupportedFormats() {
		if ext == format {
			return true
		}
	}
	return false
}
