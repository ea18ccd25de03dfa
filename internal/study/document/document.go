// Copyright (c) 2026 Study Partner. All rights reserved.

/*
Package document implements PDF upload and retrieval.

Uploaded files are parsed once at upload time: the plain text is extracted
and stored next to the metadata row so the AI features never have to fetch
and re-parse the PDF. The original bytes live in object storage under a
slugged, collision-free key; the database row is the source of truth for
ownership.
*/
package document

import "time"

// PDFFile is an uploaded document owned by a single user.
type PDFFile struct {
	ID     int64 `json:"id"`
	UserID int64 `json:"user_id"`

	// Filename is the name the user uploaded the document under.
	Filename string `json:"filename"`

	// ObjectKey locates the original bytes in object storage.
	ObjectKey string `json:"-"`

	// ExtractedText is the plain text pulled out of the PDF at upload time.
	// It is large and never serialized to clients.
	ExtractedText string `json:"-"`

	// Summary is the AI-generated summary, if one has been requested.
	Summary *string `json:"summary,omitempty"`

	// SummaryGeneratedAt records when the summary was produced.
	SummaryGeneratedAt *time.Time `json:"summary_generated_at,omitempty"`

	UploadedAt time.Time `json:"uploaded_at"`
}

// HasSummary reports whether an AI summary has been generated for the file.
func (file *PDFFile) HasSummary() bool {
	return file.Summary != nil && *file.Summary != ""
}

// Field identifiers used in validation messages.
const (
	FieldFile = "file"
)
