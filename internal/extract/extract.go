package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ledongthuc/pdf"
)

// ErrEmptyDocument is returned when a PDF yields no text at all.
var ErrEmptyDocument = errors.New("document contains no extractable text")

// Text pulls plain text from the PDF at path.
// Library used: github.com/ledongthuc/pdf.
func Text(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("extract text path=%s: %w", path, err)
	}

	text, err := TextFromBytes(ctx, data)
	if err != nil {
		return "", fmt.Errorf("extract text path=%s: %w", path, err)
	}
	return text, nil
}

// TextFromBytes extracts text from an in-memory PDF payload.
func TextFromBytes(ctx context.Context, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	reader := bytes.NewReader(data)
	pdfReader, err := pdf.NewReader(reader, int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	plain, err := pdfReader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}
	if buf.Len() == 0 {
		return "", ErrEmptyDocument
	}
	return buf.String(), nil
}
