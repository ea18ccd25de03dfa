// Copyright (c) 2026 Study Partner. All rights reserved.

// Package pdftext extracts plain text from PDF documents.
//
// Extraction runs once at upload time and the result is persisted alongside
// the document metadata, so AI features never need to re-parse the original
// file.
package pdftext

import (
	"bytes"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/studypartner/api/internal/platform/apperr"
)

// Extractor converts PDF bytes into plain text.
type Extractor interface {
	Extract(payload []byte) (string, error)
}

// PDFExtractor implements [Extractor] with the ledongthuc/pdf reader.
type PDFExtractor struct{}

// NewExtractor returns the production PDF text extractor.
func NewExtractor() *PDFExtractor {
	return &PDFExtractor{}
}

// Extract implements [Extractor].
//
// A structurally broken PDF yields a VALIDATION_ERROR so the upload endpoint
// reports a client problem rather than a server fault. A valid PDF with no
// extractable text (e.g. pure scans) yields an empty string, not an error.
func (e *PDFExtractor) Extract(payload []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(payload), int64(len(payload)))
	if err != nil {
		return "", apperr.ValidationError("File is not a readable PDF document")
	}

	var builder strings.Builder

	pageCount := reader.NumPage()
	for pageIndex := 1; pageIndex <= pageCount; pageIndex++ {
		page := reader.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		pageText, err := page.GetPlainText(nil)
		if err != nil {
			// Skip unreadable pages instead of failing the whole document.
			continue
		}

		builder.WriteString(pageText)
		builder.WriteString("\n")
	}

	text := strings.TrimSpace(builder.String())
	if text == "" && pageCount == 0 {
		return "", apperr.ValidationError("PDF document contains no pages")
	}

	return text, nil
}
