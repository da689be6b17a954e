package util

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"os"
	"os/exec"
	"strings"

	"github.com/chainguard-dev/clog"
	"github.com/gen2brain/go-fitz"
)

// ParseError reports an input file that could not be decoded.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ExtractStructured reads a JSON document and returns it compacted. Anything
// that is not valid JSON, an empty file included, is a *ParseError.
func ExtractStructured(path string) (json.RawMessage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	var probe any
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, data); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return json.RawMessage(buf.Bytes()), nil
}

// PDFExtractor pulls the text layer out of a PDF. With OCRFallback set, pages
// without text are rendered and passed through tesseract.
type PDFExtractor struct {
	OCRFallback bool
}

// Text never fails. A page that cannot be read leaves a marker in the text and
// a document that cannot be opened yields an error string instead of text.
func (x PDFExtractor) Text(ctx context.Context, path string) string {
	log := clog.FromContext(ctx)

	doc, err := fitz.New(path)
	if err != nil {
		log.Warnf("opening pdf %s: %v", path, err)
		return fmt.Sprintf("Error extracting PDF text: %v", err)
	}
	defer doc.Close()

	ocr := x.OCRFallback
	if ocr {
		if err := checkTesseract(ctx); err != nil {
			log.Warnf("ocr fallback disabled: %v", err)
			ocr = false
		}
	}

	var sb strings.Builder
	for n := 0; n < doc.NumPage(); n++ {
		text, err := doc.Text(n)
		if err != nil {
			fmt.Fprintf(&sb, "[page %d: error extracting text: %v]\n", n+1, err)
			continue
		}
		if ocr && strings.TrimSpace(text) == "" {
			if out, err := ocrPage(ctx, doc, n); err != nil {
				log.Warnf("page %d: %v", n+1, err)
			} else {
				text = out
			}
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}
	return sb.String()
}

func ocrPage(ctx context.Context, doc *fitz.Document, n int) (string, error) {
	img, err := doc.Image(n)
	if err != nil {
		return "", fmt.Errorf("failed to render image: %w", err)
	}

	tmpFile, err := os.CreateTemp("", "page-*.png")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer os.Remove(tmpPath)

	err = png.Encode(tmpFile, image.Image(img))
	tmpFile.Close()
	if err != nil {
		return "", fmt.Errorf("failed to encode PNG: %w", err)
	}

	out, err := exec.CommandContext(ctx, "tesseract", tmpPath, "stdout", "-l", "eng").CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("tesseract error: %w, output: %s", err, out)
	}
	return strings.TrimSpace(string(out)), nil
}

func checkTesseract(ctx context.Context) error {
	out, err := exec.CommandContext(ctx, "tesseract", "-v").CombinedOutput()
	if err != nil {
		return fmt.Errorf("tesseract not found or not executable: %w", err)
	}
	clog.FromContext(ctx).Debugf("tesseract version: %s", strings.SplitN(string(out), "\n", 2)[0])
	return nil
}
