// Package imageprep turns image files into the input vectors a digits.Model expects: 28x28
// grayscale, one value in [0, 1] per pixel, row by row.
//
// PNG, JPEG, GIF, BMP, TIFF and WebP files can be read.
package imageprep

import (
	"image"
	"image/draw"
	"math"
	"os"

	"github.com/pkg/errors"

	// image formats, registered for image.Decode
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Size is the width and height images are resized to.
const Size int = 28

const maxValue float64 = 255

// LoadError is returned when an image file cannot be opened or decoded.
type LoadError struct {
	Path string
	Err  error
}

func (err *LoadError) Error() string {
	return "Failed to load " + err.Path + ": " + err.Err.Error()
}

func (err *LoadError) Unwrap() error {
	return err.Err
}

// Process reads the image at path and returns its Size*Size vector. If invert is true, the image
// is tonally inverted before normalizing, so light digits on a dark background and dark digits on
// a light background can both be made to match the training data. Any failure to read the image is
// returned as a *LoadError.
func Process(path string, invert bool) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{path, err}
	}

	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, &LoadError{path, errors.Wrap(err, "couldn't decode image")}
	}

	return Vector(img, invert), nil
}

// Vector converts an already decoded image, exactly as Process does.
func Vector(img image.Image, invert bool) []float64 {
	small := Resize(Gray(img), Size, Size)

	vec := make([]float64, 0, Size*Size)
	for y := 0; y < Size; y++ {
		for _, v := range small.Pix[y*small.Stride : y*small.Stride+Size] {
			if invert {
				v = ^v
			}
			vec = append(vec, float64(v)/maxValue)
		}
	}

	return vec
}

// Gray returns img as 8-bit grayscale, with bounds starting at (0, 0).
func Gray(img image.Image) *image.Gray {
	b := img.Bounds()
	if g, ok := img.(*image.Gray); ok && b.Min == (image.Point{}) {
		return g
	}

	g := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(g, g.Bounds(), img, b.Min, draw.Src)
	return g
}

// span is one source pixel's share of a destination pixel along one axis.
type span struct {
	index  int
	weight float64
}

// areaSpans returns, for each of dst destination pixels, the source pixels that it covers out of
// src and how much of each it covers.
func areaSpans(src, dst int) [][]span {
	scale := float64(src) / float64(dst)
	spans := make([][]span, dst)

	for d := range spans {
		start := float64(d) * scale
		end := start + scale

		for s := int(math.Floor(start)); s < src && float64(s) < end; s++ {
			w := math.Min(end, float64(s+1)) - math.Max(start, float64(s))
			if w > 0 {
				spans[d] = append(spans[d], span{s, w})
			}
		}
	}

	return spans
}

// Resize scales src to w x h by area averaging: each destination pixel is the mean of the source
// area it covers, with partially covered source pixels weighted by the fraction covered. Results
// are rounded to the nearest integer.
func Resize(src *image.Gray, w, h int) *image.Gray {
	sb := src.Bounds()
	dst := image.NewGray(image.Rect(0, 0, w, h))
	if sb.Empty() || w <= 0 || h <= 0 {
		return dst
	}

	xs := areaSpans(sb.Dx(), w)
	ys := areaSpans(sb.Dy(), h)
	area := float64(sb.Dx()) / float64(w) * float64(sb.Dy()) / float64(h)

	for dy, ySpans := range ys {
		for dx, xSpans := range xs {
			var sum float64
			for _, sy := range ySpans {
				row := src.Pix[src.PixOffset(sb.Min.X, sb.Min.Y+sy.index):]
				for _, sx := range xSpans {
					sum += float64(row[sx.index]) * sx.weight * sy.weight
				}
			}

			v := math.Round(sum / area)
			if v > maxValue {
				v = maxValue
			} else if v < 0 {
				v = 0
			}
			dst.Pix[dy*dst.Stride+dx] = uint8(v)
		}
	}

	return dst
}
