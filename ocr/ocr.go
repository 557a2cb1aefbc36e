//go:build ocr

// Package ocr recognizes text on rasterized pages of scanned reports.
//
// The package wraps the Tesseract engine via gosseract and is compiled in
// only under the "ocr" build tag; the default build ships a stub whose
// methods return ErrOCRNotEnabled. The tagged build requires Tesseract on
// the system. On macOS:
//
//	brew install tesseract
//
// On Ubuntu/Debian:
//
//	apt-get install tesseract-ocr
package ocr

import (
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// Client wraps a Tesseract session.
type Client struct {
	client *gosseract.Client
}

// New creates an OCR client. Close it to release engine resources.
func New() (*Client, error) {
	return &Client{client: gosseract.NewClient()}, nil
}

// Close releases the Tesseract session.
func (c *Client) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// RecognizeImage runs recognition over image bytes and returns the text
// trimmed of surrounding whitespace. TIFF, BMP, and WebP input is
// re-encoded as PNG first; formats the engine reads natively go through
// untouched.
func (c *Client) RecognizeImage(imageData []byte) (string, error) {
	if converted, err := ToPNG(imageData); err == nil {
		imageData = converted
	}

	if err := c.client.SetImageFromBytes(imageData); err != nil {
		return "", fmt.Errorf("setting image: %w", err)
	}
	text, err := c.client.Text()
	if err != nil {
		return "", fmt.Errorf("recognizing text: %w", err)
	}
	return strings.TrimSpace(text), nil
}

// SetLanguage sets the recognition language(s); join several with "+",
// for example "eng+fra". The engine default is "eng".
func (c *Client) SetLanguage(lang string) error {
	return c.client.SetLanguage(lang)
}

// SetPageSegMode sets how the engine segments the page layout. See the
// gosseract.PageSegMode constants.
func (c *Client) SetPageSegMode(mode gosseract.PageSegMode) error {
	return c.client.SetPageSegMode(mode)
}
