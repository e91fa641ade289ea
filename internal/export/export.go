// Package export renders patient documents and bundles them into a ZIP.
// Rendering produces HTML from embedded templates; when a wkhtmltopdf binary
// is configured each document is converted to PDF by that external tool,
// otherwise the HTML itself is bundled.
package export

import (
	"archive/zip"
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"os/exec"

	"github.com/sceu/clinic/internal/models"
	"github.com/sceu/clinic/internal/services"
	"github.com/sceu/clinic/pkg/logger"
)

//go:embed templates/*.html
var templateFS embed.FS

// Document names selectable for an export.
const (
	DocFollowUp     = "follow_up"
	DocTraceability = "traceability"
	DocRecords      = "patient_record"
)

// Data is the template context for an export.
type Data struct {
	Patient   *models.Patient
	Product   *models.Product
	Records   []*models.PatientRecord
	Materials *services.MaterialsResult
}

// Exporter renders and bundles patient documents.
type Exporter struct {
	templates       *template.Template
	wkhtmltopdfPath string
}

// New creates an Exporter. wkhtmltopdfPath may be empty; exports then bundle
// rendered HTML instead of PDFs.
func New(wkhtmltopdfPath string) (*Exporter, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse export templates: %w", err)
	}
	return &Exporter{templates: tmpl, wkhtmltopdfPath: wkhtmltopdfPath}, nil
}

// render executes one document template.
func (e *Exporter) render(doc string, data *Data) ([]byte, error) {
	var buf bytes.Buffer
	if err := e.templates.ExecuteTemplate(&buf, doc+".html", data); err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", doc, err)
	}
	return buf.Bytes(), nil
}

// toPDF converts rendered HTML to PDF through the external wkhtmltopdf
// binary, reading HTML from stdin and writing PDF to stdout.
func (e *Exporter) toPDF(ctx context.Context, html []byte) ([]byte, error) {
	cmd := exec.CommandContext(ctx, e.wkhtmltopdfPath,
		"--page-size", "B4",
		"--encoding", "UTF-8",
		"--margin-top", "0",
		"--margin-bottom", "0",
		"--enable-local-file-access",
		"-", "-",
	)
	cmd.Stdin = bytes.NewReader(html)

	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("wkhtmltopdf: %w: %s", err, stderr.String())
	}
	return out.Bytes(), nil
}

// Export renders the requested documents for a patient and returns them as
// a ZIP archive.
func (e *Exporter) Export(ctx context.Context, docs []string, data *Data) ([]byte, error) {
	if len(docs) == 0 {
		return nil, fmt.Errorf("no documents selected")
	}

	ext := ".html"
	if e.wkhtmltopdfPath != "" {
		ext = ".pdf"
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, doc := range docs {
		switch doc {
		case DocFollowUp, DocTraceability, DocRecords:
		default:
			return nil, fmt.Errorf("unknown document %q", doc)
		}

		content, err := e.render(doc, data)
		if err != nil {
			return nil, err
		}
		if e.wkhtmltopdfPath != "" {
			content, err = e.toPDF(ctx, content)
			if err != nil {
				return nil, err
			}
		}

		w, err := zw.Create(doc + ext)
		if err != nil {
			return nil, fmt.Errorf("failed to add %s to archive: %w", doc, err)
		}
		if _, err := w.Write(content); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", doc, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize archive: %w", err)
	}

	logger.Debug("export built", "docs", len(docs), "bytes", buf.Len())
	return buf.Bytes(), nil
}
