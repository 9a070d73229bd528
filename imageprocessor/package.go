// Package imageprocessor computes the image fingerprint stored next to the metadata:
// format, dimensions and the average and perceptual hashes.
package imageprocessor
