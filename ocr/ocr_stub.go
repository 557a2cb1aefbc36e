//go:build !ocr

// Package ocr recognizes text on rasterized pages of scanned reports.
//
// This is the stub compiled when the "ocr" build tag is not set; every
// recognition method returns ErrOCRNotEnabled. Rebuild with the tag to
// enable recognition:
//
//	go build -tags ocr
//
// The tagged build requires Tesseract on the system. On macOS:
//
//	brew install tesseract
//
// On Ubuntu/Debian:
//
//	apt-get install tesseract-ocr
package ocr

import "errors"

// ErrOCRNotEnabled is returned when recognition is requested but OCR
// support was not compiled in. Rebuild with -tags ocr to enable it.
var ErrOCRNotEnabled = errors.New("OCR support not enabled; rebuild with -tags ocr")

// PageSegMode mirrors the engine's page segmentation modes so callers can
// name them without the tagged build.
type PageSegMode int

// Page segmentation modes, matching the OCR-enabled implementation.
const (
	PSM_OSD_ONLY               PageSegMode = 0  // orientation and script detection only
	PSM_AUTO_OSD               PageSegMode = 1  // automatic with OSD
	PSM_AUTO_ONLY              PageSegMode = 2  // automatic, no OSD or OCR
	PSM_AUTO                   PageSegMode = 3  // fully automatic (default)
	PSM_SINGLE_COLUMN          PageSegMode = 4  // single column of variable sizes
	PSM_SINGLE_BLOCK_VERT_TEXT PageSegMode = 5  // single block of vertically aligned text
	PSM_SINGLE_BLOCK           PageSegMode = 6  // single uniform block of text
	PSM_SINGLE_LINE            PageSegMode = 7  // single text line
	PSM_SINGLE_WORD            PageSegMode = 8  // single word
	PSM_CIRCLE_WORD            PageSegMode = 9  // single word in a circle
	PSM_SINGLE_CHAR            PageSegMode = 10 // single character
	PSM_SPARSE_TEXT            PageSegMode = 11 // find as much text as possible
	PSM_SPARSE_TEXT_OSD        PageSegMode = 12 // sparse text with OSD
	PSM_RAW_LINE               PageSegMode = 13 // treat image as a single text line
)

// Client is the stub OCR client; recognition calls fail with
// ErrOCRNotEnabled.
type Client struct{}

// New returns ErrOCRNotEnabled. Rebuild with -tags ocr to enable OCR.
func New() (*Client, error) {
	return nil, ErrOCRNotEnabled
}

// Close is a no-op for the stub client and is safe on a nil client.
func (c *Client) Close() error {
	return nil
}

// RecognizeImage returns ErrOCRNotEnabled.
func (c *Client) RecognizeImage(imageData []byte) (string, error) {
	return "", ErrOCRNotEnabled
}

// SetLanguage returns ErrOCRNotEnabled.
func (c *Client) SetLanguage(lang string) error {
	return ErrOCRNotEnabled
}

// SetPageSegMode returns ErrOCRNotEnabled.
func (c *Client) SetPageSegMode(mode PageSegMode) error {
	return ErrOCRNotEnabled
}
