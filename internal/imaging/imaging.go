// Package imaging generates thumbnails for stored photos.
package imaging

import (
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"

	"golang.org/x/image/draw"
)

// ThumbDimension is the maximum width or height of a generated thumbnail.
const ThumbDimension = 256

// JPEGQuality is the compression quality for thumbnail output.
const JPEGQuality = 85

// ThumbDirName is the subdirectory of the photo directory that holds
// generated thumbnails.
const ThumbDirName = "thumbs"

// Thumbnail reads the photo at srcPath, downscales it, and writes a JPEG
// thumbnail into the thumbs/ subdirectory of photoDir under the same base
// name (with a .jpg extension). It returns the thumbnail path.
func Thumbnail(photoDir, name string) (string, error) {
	srcPath := filepath.Join(photoDir, name)
	f, err := os.Open(srcPath)
	if err != nil {
		return "", fmt.Errorf("failed to open photo: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return "", fmt.Errorf("failed to decode photo %s: %w", name, err)
	}

	img = downscale(img, ThumbDimension)

	thumbDir := filepath.Join(photoDir, ThumbDirName)
	if err := os.MkdirAll(thumbDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create thumbnail directory: %w", err)
	}

	ext := filepath.Ext(name)
	thumbPath := filepath.Join(thumbDir, name[:len(name)-len(ext)]+".jpg")

	out, err := os.Create(thumbPath)
	if err != nil {
		return "", fmt.Errorf("failed to create thumbnail file: %w", err)
	}
	defer out.Close()

	if err := jpeg.Encode(out, img, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		os.Remove(thumbPath)
		return "", fmt.Errorf("failed to encode thumbnail: %w", err)
	}
	return thumbPath, nil
}

// downscale resizes the image so neither dimension exceeds maxDim,
// preserving aspect ratio. Returns the original image if already within
// bounds.
func downscale(img image.Image, maxDim int) image.Image {
	bounds := img.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()

	if w <= maxDim && h <= maxDim {
		return img
	}

	newW, newH := w, h
	if w > h {
		newW = maxDim
		newH = int(float64(h) * float64(maxDim) / float64(w))
	} else {
		newH = maxDim
		newW = int(float64(w) * float64(maxDim) / float64(h))
	}
	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}
