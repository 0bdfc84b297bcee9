package service

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"ideaforge/internal/domain"
	"ideaforge/internal/domain/models"

	"github.com/yuin/goldmark"
)

// ExportFormat names a supported export rendering.
type ExportFormat string

const (
	FormatText     ExportFormat = "text"
	FormatMarkdown ExportFormat = "markdown"
	FormatCSV      ExportFormat = "csv"
	FormatPDF      ExportFormat = "pdf"
)

// Export renders one record in the requested format. Returns the body, its
// content type and a suggested filename. The pdf format produces a
// printable standalone HTML document; turning it into actual PDF bytes is
// the client's print pipeline's job.
func Export(rec *models.ContentRecord, format ExportFormat) ([]byte, string, string, error) {
	base := "content-" + rec.ID
	switch format {
	case FormatText:
		return []byte(renderText(rec)), "text/plain; charset=utf-8", base + ".txt", nil
	case FormatMarkdown:
		return []byte(renderMarkdown(rec)), "text/markdown; charset=utf-8", base + ".md", nil
	case FormatCSV:
		body, err := renderCSV(rec)
		if err != nil {
			return nil, "", "", err
		}
		return body, "text/csv; charset=utf-8", base + ".csv", nil
	case FormatPDF:
		body, err := renderPrintableHTML(rec)
		if err != nil {
			return nil, "", "", err
		}
		return body, "text/html; charset=utf-8", base + ".html", nil
	default:
		return nil, "", "", &domain.ValidationError{Message: fmt.Sprintf("unsupported export format: %s", format)}
	}
}

func renderText(rec *models.ContentRecord) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Topic: %s\n", rec.Topic)
	fmt.Fprintf(&sb, "Model: %s\n", rec.AIModel)
	fmt.Fprintf(&sb, "Created: %s\n\n", rec.CreatedAt.Format("2006-01-02 15:04 MST"))

	writeSection := func(name string, items []string) {
		fmt.Fprintf(&sb, "%s\n%s\n", name, strings.Repeat("-", len(name)))
		for _, item := range items {
			fmt.Fprintf(&sb, "- %s\n", item)
		}
		sb.WriteString("\n")
	}

	writeSection("Titles", rec.Titles)
	fmt.Fprintf(&sb, "Description\n-----------\n%s\n\n", rec.Description)
	writeSection("Tags", rec.Tags)
	writeSection("Thumbnail Ideas", rec.ThumbnailIdeas)
	writeSection("Script Outline", rec.ScriptOutline)
	return sb.String()
}

func renderMarkdown(rec *models.ContentRecord) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", rec.Topic)
	fmt.Fprintf(&sb, "*Generated by %s on %s*\n\n", rec.AIModel, rec.CreatedAt.Format("2006-01-02"))

	sb.WriteString("## Titles\n\n")
	for i, title := range rec.Titles {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, title)
	}

	fmt.Fprintf(&sb, "\n## Description\n\n%s\n", rec.Description)

	sb.WriteString("\n## Tags\n\n")
	for _, tag := range rec.Tags {
		fmt.Fprintf(&sb, "`%s` ", tag)
	}
	sb.WriteString("\n")

	sb.WriteString("\n## Thumbnail Ideas\n\n")
	for _, idea := range rec.ThumbnailIdeas {
		fmt.Fprintf(&sb, "- %s\n", idea)
	}

	sb.WriteString("\n## Script Outline\n\n")
	for i, section := range rec.ScriptOutline {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, section)
	}
	return sb.String()
}

func renderCSV(rec *models.ContentRecord) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"section", "value"}); err != nil {
		return nil, err
	}

	rows := [][]string{{"topic", rec.Topic}, {"model", rec.AIModel}, {"description", rec.Description}}
	for _, title := range rec.Titles {
		rows = append(rows, []string{"title", title})
	}
	for _, tag := range rec.Tags {
		rows = append(rows, []string{"tag", tag})
	}
	for _, idea := range rec.ThumbnailIdeas {
		rows = append(rows, []string{"thumbnail_idea", idea})
	}
	for _, section := range rec.ScriptOutline {
		rows = append(rows, []string{"script_section", section})
	}

	if err := w.WriteAll(rows); err != nil {
		return nil, err
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// renderPrintableHTML converts the markdown rendering into a standalone
// HTML document with print-oriented styling.
func renderPrintableHTML(rec *models.ContentRecord) ([]byte, error) {
	var body bytes.Buffer
	if err := goldmark.Convert([]byte(renderMarkdown(rec)), &body); err != nil {
		return nil, fmt.Errorf("render markdown: %w", err)
	}

	var doc bytes.Buffer
	fmt.Fprintf(&doc, `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
<style>
body { font-family: Georgia, serif; max-width: 48rem; margin: 2rem auto; line-height: 1.5; }
h1 { border-bottom: 2px solid #333; padding-bottom: 0.3rem; }
code { background: #f0f0f0; padding: 0.1rem 0.3rem; border-radius: 3px; }
@media print { body { margin: 0; } }
</style>
</head>
<body>
`, htmlEscape(rec.Topic))
	doc.Write(body.Bytes())
	doc.WriteString("</body>\n</html>\n")
	return doc.Bytes(), nil
}

func htmlEscape(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
	return r.Replace(s)
}
