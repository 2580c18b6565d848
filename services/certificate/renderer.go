// Package certificate draws issued certificates as landscape A4 PDFs.
package certificate

import (
	"bytes"
	"coursehub/apperror"
	"fmt"
	"os"
	"time"

	"github.com/go-pdf/fpdf"
)

// Data is everything printed on a certificate.
type Data struct {
	RecipientName     string
	CourseTitle       string
	CertificateNumber string
	IssuedAt          time.Time
	Score             int
	TotalQuestions    int
	Percentage        int
}

// Renderer lays text over an optional background image. Without a template it
// draws a plain double border.
type Renderer struct {
	SiteName     string
	TemplatePath string // PNG or JPEG covering the whole page
	FontPath     string // TTF with the glyphs recipient names need
}

const fontFamily = "certfont"

func renderError(err error) error {
	return &apperror.Error{
		Kind:    apperror.KindTransient,
		Reason:  apperror.ReasonRender,
		Message: "Failed to generate certificate, please try again!",
		Err:     err,
	}
}

// Render returns the PDF bytes. The certificate record is never touched.
func (r Renderer) Render(d Data) ([]byte, error) {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetTitle("Certificate - "+d.CourseTitle, true)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	w, h := pdf.GetPageSize()

	if r.TemplatePath != "" {
		if _, err := os.Stat(r.TemplatePath); err != nil {
			return nil, renderError(err)
		}
		pdf.ImageOptions(r.TemplatePath, 0, 0, w, h, false, fpdf.ImageOptions{ReadDpi: true}, 0, "")
	} else {
		pdf.SetDrawColor(31, 58, 95)
		pdf.SetLineWidth(1.5)
		pdf.Rect(10, 10, w-20, h-20, "D")
		pdf.SetLineWidth(0.5)
		pdf.Rect(14, 14, w-28, h-28, "D")
	}

	family, text := "Helvetica", pdf.UnicodeTranslatorFromDescriptor("")
	if r.FontPath != "" {
		pdf.AddUTF8Font(fontFamily, "", r.FontPath)
		pdf.AddUTF8Font(fontFamily, "B", r.FontPath)
		family, text = fontFamily, func(s string) string { return s }
	}

	centered := func(y float64, style string, size float64, s string) {
		pdf.SetFont(family, style, size)
		pdf.SetXY(0, y)
		pdf.CellFormat(w, size*0.5, text(s), "", 0, "C", false, 0, "")
	}

	pdf.SetTextColor(31, 58, 95)
	if r.TemplatePath == "" {
		centered(40, "B", 30, "Certificate of Completion")
		centered(h/2-20, "", 14, "This certifies that")
	}
	centered(h/2+5, "B", 36, d.RecipientName)
	centered(h/2+20, "", 14, "has successfully completed "+d.CourseTitle)

	pdf.SetFont(family, "", 12)
	pdf.SetXY(w*0.25-40, h-25)
	pdf.CellFormat(80, 6, text("Date: "+d.IssuedAt.Format("January 2, 2006")), "", 0, "C", false, 0, "")
	pdf.SetXY(w*0.75-40, h-25)
	pdf.CellFormat(80, 6, text(fmt.Sprintf("Score: %d%% (%d/%d)", d.Percentage, d.Score, d.TotalQuestions)), "", 0, "C", false, 0, "")

	pdf.SetFont(family, "", 8)
	pdf.SetXY(0, h-14)
	pdf.CellFormat(w, 4, text(r.SiteName+" - "+d.CertificateNumber), "", 0, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, renderError(err)
	}
	return buf.Bytes(), nil
}
