package inkboard

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/esimov/inkboard/utils"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// Format is a lossless raster format the board can be saved in.
type Format int

const (
	PNG Format = iota
	BMP
	TIFF
)

func (f Format) String() string {
	switch f {
	case PNG:
		return "png"
	case BMP:
		return "bmp"
	case TIFF:
		return "tiff"
	}
	return "unknown"
}

// sniffLen is the header length needed to recognize an image type.
const sniffLen = 262

// FormatFromPath picks the output format from the file extension.
// A missing extension defaults to PNG; lossy formats are rejected.
func FormatFromPath(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case "", ".png":
		return PNG, nil
	case ".bmp":
		return BMP, nil
	case ".tif", ".tiff":
		return TIFF, nil
	default:
		return PNG, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// Encode writes img to w in the requested lossless format.
func Encode(w io.Writer, img image.Image, format Format) error {
	switch format {
	case PNG:
		enc := png.Encoder{CompressionLevel: png.BestCompression}
		return enc.Encode(w, img)
	case BMP:
		return bmp.Encode(w, img)
	case TIFF:
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	}
	return fmt.Errorf("%w: %v", ErrUnsupportedFormat, format)
}

// Decode reads an image from r and returns it as NRGBA anchored at the origin.
// Anything that is not a decodable image yields ErrDecode.
func Decode(r io.Reader) (*image.NRGBA, error) {
	br := bufio.NewReaderSize(r, sniffLen)
	head, err := br.Peek(sniffLen)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	if ctype := utils.SniffContentType(head); !utils.IsImageType(ctype) {
		return nil, fmt.Errorf("%w: content type %s", ErrDecode, ctype)
	}

	img, err := imaging.Decode(br)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return imaging.Clone(img), nil
}

// Save encodes the canvas into path, the format being chosen from its extension.
// The image is written to a temporary file that replaces path only once fully
// written, so a failed save never truncates an existing drawing.
func Save(c *Canvas, path string) error {
	return writeImage(c.Snapshot(), path)
}

func writeImage(img image.Image, path string) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := Encode(&buf, img, format); err != nil {
		return fmt.Errorf("%w: encoding %s: %w", ErrIO, path, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	return nil
}

// Load decodes the image stored at path into the canvas, resampling it when
// its dimensions differ from the canvas. On error the canvas is left untouched.
func Load(c *Canvas, path string) error {
	img, err := readImage(path)
	if err != nil {
		return err
	}
	c.ResizeCopy(img)
	return nil
}

// LoadFrom is like Load but reads the encoded image from r.
func LoadFrom(c *Canvas, r io.Reader) error {
	img, err := Decode(r)
	if err != nil {
		return err
	}
	c.ResizeCopy(img)
	return nil
}

func readImage(path string) (*image.NRGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %w: %w", ErrIO, ErrNotFound, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	defer f.Close()

	return Decode(f)
}
