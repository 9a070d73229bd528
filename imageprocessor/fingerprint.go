package imageprocessor

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"time"

	"gocv.io/x/gocv"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"exifimage/logging"
	"exifimage/types"
)

// Fingerprint describes the pixels of a stored image
type Fingerprint struct {
	Format         FormatType
	Width          int
	Height         int
	Size           int64
	ModifiedAt     string
	AverageHash    string
	PerceptualHash string
}

// Fingerprinter computes a Fingerprint for a file
type Fingerprinter interface {
	Fingerprint(ctx context.Context, path string) (*Fingerprint, error)
}

// GocvFingerprinter loads images with OpenCV, falling back to the Go image decoders
type GocvFingerprinter struct{}

// NewFingerprinter returns the default Fingerprinter
func NewFingerprinter() *GocvFingerprinter {
	return &GocvFingerprinter{}
}

// Fingerprint implements Fingerprinter. Files that cannot be decoded still get
// format, size and modification time; the hashes stay empty.
func (f *GocvFingerprinter) Fingerprint(ctx context.Context, path string) (*Fingerprint, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	fp := &Fingerprint{
		Format:     GetFileFormat(path),
		Size:       info.Size(),
		ModifiedAt: info.ModTime().Format(time.RFC3339Nano),
	}

	img, err := LoadImage(path)
	if err != nil {
		logging.DebugLog("No pixel data for %s: %v", path, err)
		return fp, nil
	}
	defer img.Close()

	fp.Width = img.Cols()
	fp.Height = img.Rows()

	if fp.AverageHash, err = ComputeAverageHash(img); err != nil {
		logging.LogWarning("Average hash failed for %s: %v", path, err)
	}
	if fp.PerceptualHash, err = ComputePerceptualHash(img); err != nil {
		logging.LogWarning("Perceptual hash failed for %s: %v", path, err)
	}

	return fp, nil
}

// LoadImage reads an image as a BGR Mat
func LoadImage(path string) (gocv.Mat, error) {
	if IsRawFormat(path) {
		return gocv.NewMat(), fmt.Errorf("raw format not decoded: %s", path)
	}

	img := gocv.IMRead(path, gocv.IMReadColor)
	if !img.Empty() {
		return img, nil
	}
	img.Close()

	goImg, err := tryGoImagePackages(path)
	if err != nil {
		return gocv.NewMat(), fmt.Errorf("failed to load image %s: %w", path, err)
	}
	return gocv.ImageToMatRGB(goImg)
}

func tryGoImagePackages(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	return img, err
}

// ApplyTo copies the fingerprint onto a record
func (fp *Fingerprint) ApplyTo(rec *types.ImageRecord) {
	rec.Format = string(fp.Format)
	rec.Width = fp.Width
	rec.Height = fp.Height
	rec.Size = fp.Size
	rec.ModifiedAt = fp.ModifiedAt
	rec.AverageHash = fp.AverageHash
	rec.PerceptualHash = fp.PerceptualHash
}
