//go:build ocr

package ocr

import (
	"bytes"
	"image/png"
	"testing"
)

func TestNew(t *testing.T) {
	client, err := New()
	if err != nil {
		t.Skipf("tesseract not available: %v", err)
	}
	defer client.Close()

	if client == nil {
		t.Error("expected a client")
	}
}

func TestRecognizeImage(t *testing.T) {
	client, err := New()
	if err != nil {
		t.Skipf("tesseract not available: %v", err)
	}
	defer client.Close()

	var buf bytes.Buffer
	if err := png.Encode(&buf, testImage()); err != nil {
		t.Fatalf("encoding png: %v", err)
	}

	// The fixture is a bare rectangle; recognition just has to run, not
	// produce text.
	if _, err := client.RecognizeImage(buf.Bytes()); err != nil {
		t.Errorf("RecognizeImage: %v", err)
	}
}

func TestSetLanguage(t *testing.T) {
	client, err := New()
	if err != nil {
		t.Skipf("tesseract not available: %v", err)
	}
	defer client.Close()

	if err := client.SetLanguage("eng"); err != nil {
		t.Errorf("SetLanguage: %v", err)
	}
}

func TestClose(t *testing.T) {
	client, err := New()
	if err != nil {
		t.Skipf("tesseract not available: %v", err)
	}

	if err := client.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}

	// A second close on a released session must stay safe.
	client.client = nil
	if err := client.Close(); err != nil {
		t.Errorf("Close after release: %v", err)
	}
}
