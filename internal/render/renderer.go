package render

import (
	"context"
	"io"
	"strings"

	"github.com/studyhall/studyhall-lms/internal/metrics"
	"github.com/studyhall/studyhall-lms/internal/storage"
)

// FileKind is the closed set of lecture file types the renderer dispatches
// on, classified from the filename suffix.
type FileKind string

const (
	KindPDF      FileKind = "pdf"
	KindMarkdown FileKind = "markdown"
	KindDocx     FileKind = "docx"
	KindOther    FileKind = "other"
)

func ClassifyFile(name string) FileKind {
	switch {
	case strings.HasSuffix(strings.ToLower(name), ".pdf"):
		return KindPDF
	case strings.HasSuffix(strings.ToLower(name), ".md"),
		strings.HasSuffix(strings.ToLower(name), ".markdown"):
		return KindMarkdown
	case strings.HasSuffix(strings.ToLower(name), ".docx"):
		return KindDocx
	}
	return KindOther
}

// DisplayPayload is always renderable: a file URL for pdf/other kinds, or
// converted HTML (possibly a fallback message) for markdown/docx.
type DisplayPayload struct {
	Kind        FileKind `json:"kind"`
	FileURL     string   `json:"file_url"`
	ContentHTML string   `json:"content_html,omitempty"`
}

// DocxConverter is the external conversion capability for .docx files. It
// may be absent (nil), in which case rendering degrades to the fallback.
type DocxConverter interface {
	ToHTML(r io.Reader) (string, error)
}

const (
	fallbackMarkdown = "<p>Could not load the Markdown document.</p>"
	fallbackDocx     = "<p>Could not convert the DOCX document.</p>"
)

type Renderer struct {
	blobs storage.BlobStore
	docx  DocxConverter
}

func NewRenderer(blobs storage.BlobStore, docx DocxConverter) *Renderer {
	return &Renderer{blobs: blobs, docx: docx}
}

// Render produces a displayable payload for a stored lecture file. It never
// returns an error: conversion failures collapse into a fixed fallback
// message and the rest of the page renders as usual.
func (r *Renderer) Render(ctx context.Context, fileKey string) DisplayPayload {
	p := DisplayPayload{
		Kind:    ClassifyFile(fileKey),
		FileURL: r.blobs.URL(fileKey),
	}
	switch p.Kind {
	case KindMarkdown:
		p.ContentHTML = r.renderMarkdown(fileKey)
	case KindDocx:
		p.ContentHTML = r.renderDocx(fileKey)
	}
	return p
}

func (r *Renderer) renderMarkdown(key string) string {
	rc, err := r.blobs.Get(key)
	if err != nil {
		metrics.RenderFallbacks.Inc()
		return fallbackMarkdown
	}
	defer rc.Close()
	src, err := io.ReadAll(rc)
	if err != nil {
		metrics.RenderFallbacks.Inc()
		return fallbackMarkdown
	}
	html, err := markdownToHTML(src)
	if err != nil {
		metrics.RenderFallbacks.Inc()
		return fallbackMarkdown
	}
	return html
}

func (r *Renderer) renderDocx(key string) string {
	if r.docx == nil {
		metrics.RenderFallbacks.Inc()
		return fallbackDocx
	}
	rc, err := r.blobs.Get(key)
	if err != nil {
		metrics.RenderFallbacks.Inc()
		return fallbackDocx
	}
	defer rc.Close()
	html, err := r.docx.ToHTML(rc)
	if err != nil {
		metrics.RenderFallbacks.Inc()
		return fallbackDocx
	}
	return html
}
