package gofpdf

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/SIDIQMUHAMMADTOHA24/karang-taruna-admin/internal/domain/content"
)

type Generator struct{}

func New() *Generator { return &Generator{} }

func (g *Generator) Generate(activities []content.Activity) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Activity Report", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Activity Report")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, fmt.Sprintf("Generated: %s", time.Now().Format("02 Jan 2006 15:04")))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Total activities: %d", len(activities)))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(28, 7, "Date")
	pdf.Cell(70, 7, "Title")
	pdf.Cell(55, 7, "Location")
	pdf.Cell(25, 7, "Image")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 10)
	for _, a := range activities {
		hasImage := "no"
		if a.ImageURL != nil && *a.ImageURL != "" {
			hasImage = "yes"
		}
		pdf.Cell(28, 6, a.EventDate)
		pdf.Cell(70, 6, trim(a.Title, 40))
		pdf.Cell(55, 6, trim(a.Location, 30))
		pdf.Cell(25, 6, hasImage)
		pdf.Ln(6)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func trim(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
