package imageprocessor

import (
	"encoding/hex"
	"fmt"
	"image"
	"sort"

	"gocv.io/x/gocv"
)

// ComputeAverageHash calculates an 8x8 average hash and returns it as hex
func ComputeAverageHash(img gocv.Mat) (string, error) {
	if img.Empty() {
		return "", fmt.Errorf("cannot compute hash for empty image")
	}

	gray := grayscale(img, 8)
	defer gray.Close()

	var sum uint64
	for y := 0; y < gray.Rows(); y++ {
		for x := 0; x < gray.Cols(); x++ {
			sum += uint64(gray.GetUCharAt(y, x))
		}
	}
	threshold := float64(sum) / float64(gray.Rows()*gray.Cols())

	bits := make([]bool, 0, 64)
	for y := 0; y < gray.Rows(); y++ {
		for x := 0; x < gray.Cols(); x++ {
			bits = append(bits, float64(gray.GetUCharAt(y, x)) >= threshold)
		}
	}

	return hex.EncodeToString(packBits(bits)), nil
}

// ComputePerceptualHash computes a DCT-based perceptual hash and returns it as hex
func ComputePerceptualHash(img gocv.Mat) (string, error) {
	if img.Empty() {
		return "", fmt.Errorf("cannot compute hash for empty image")
	}

	gray := grayscale(img, 32)
	defer gray.Close()

	floatImg := gocv.NewMat()
	defer floatImg.Close()
	gray.ConvertTo(&floatImg, gocv.MatTypeCV32F)

	dct := gocv.NewMat()
	defer dct.Close()
	gocv.DCT(floatImg, &dct, 0)
	if dct.Empty() {
		return "", fmt.Errorf("dct failed")
	}

	// 8x8 low frequency block
	lowFreq := dct.Region(image.Rect(0, 0, 8, 8))
	defer lowFreq.Close()

	values := make([]float32, 0, 64)
	for y := 0; y < lowFreq.Rows(); y++ {
		for x := 0; x < lowFreq.Cols(); x++ {
			values = append(values, lowFreq.GetFloatAt(y, x))
		}
	}
	median := calculateMedian(values)

	bits := make([]bool, len(values))
	for i, v := range values {
		bits[i] = v >= median
	}

	return hex.EncodeToString(packBits(bits)), nil
}

// grayscale resizes img to size x size and converts it to a single channel
func grayscale(img gocv.Mat, size int) gocv.Mat {
	resized := gocv.NewMat()
	defer resized.Close()
	gocv.Resize(img, &resized, image.Point{X: size, Y: size}, 0, 0, gocv.InterpolationLinear)

	gray := gocv.NewMat()
	if resized.Channels() != 1 {
		gocv.CvtColor(resized, &gray, gocv.ColorBGRToGray)
	} else {
		resized.CopyTo(&gray)
	}
	return gray
}

// packBits packs bits MSB first, padding the last byte with zeros
func packBits(bits []bool) []byte {
	out := make([]byte, (len(bits)+7)/8)
	for i, b := range bits {
		if b {
			out[i/8] |= 1 << (7 - uint(i%8))
		}
	}
	return out
}

func calculateMedian(values []float32) float32 {
	sorted := make([]float32, len(values))
	copy(sorted, values)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	n := len(sorted)
	switch {
	case n == 0:
		return 0
	case n%2 == 0:
		return (sorted[n/2-1] + sorted[n/2]) / 2
	default:
		return sorted[n/2]
	}
}
