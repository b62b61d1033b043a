// Package certificate renders completion certificates as PDF documents.
package certificate

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/go-pdf/fpdf"

	"safety-training-service/internal/domain"
)

// DateLayout is the day/month/year layout printed on certificates.
const DateLayout = "02/01/2006"

const (
	pageWidth  = 297.0
	pageHeight = 210.0
	margin     = 14.0
)

// Renderer lays certificates out on a landscape A4 page.
type Renderer struct {
	// Location converts the completion time before formatting; UTC when nil.
	Location *time.Location
}

func NewRenderer(loc *time.Location) *Renderer {
	return &Renderer{Location: loc}
}

// FormatDate formats the completion date the way it is printed.
func (r *Renderer) FormatDate(t time.Time) string {
	loc := r.Location
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(DateLayout)
}

// Render writes the certificate PDF to w. Equal certificates render to equal bytes.
func (r *Renderer) Render(w io.Writer, cert domain.Certificate) error {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetCreationDate(cert.CompletedAt)
	pdf.SetModificationDate(cert.CompletedAt)
	pdf.SetCatalogSort(true)
	pdf.SetTitle("Certificate of Completion", true)
	pdf.SetAuthor(cert.Issuer, true)
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetDrawColor(0, 255, 157)
	pdf.SetLineWidth(1.4)
	pdf.Rect(margin, margin, pageWidth-2*margin, pageHeight-2*margin, "D")

	line := func(y float64, size float64, style string, color [3]int, text string) {
		pdf.SetFont("Helvetica", style, size)
		pdf.SetTextColor(color[0], color[1], color[2])
		pdf.SetXY(margin, y)
		pdf.CellFormat(pageWidth-2*margin, size*0.5, tr(text), "", 0, "C", false, 0, "")
	}

	slate := [3]int{30, 41, 59}
	muted := [3]int{100, 116, 139}
	body := [3]int{51, 65, 85}

	line(34, 24, "B", slate, "CERTIFICATE OF COMPLETION")
	line(52, 14, "", muted, cert.Issuer+" certifies that")
	line(68, 32, "BU", [3]int{15, 23, 42}, cert.StudentName)
	line(88, 14, "", muted, "has successfully completed the safety training:")
	line(100, 20, "", [3]int{5, 150, 105}, cert.CourseTitle)

	line(118, 12, "", body, "Completion date: "+r.FormatDate(cert.CompletedAt))
	line(125, 12, "", body, "Quiz score: "+strconv.Itoa(cert.Score)+" points")
	line(132, 12, "", body, "Workload: "+cert.Workload)

	pdf.SetDrawColor(203, 213, 225)
	pdf.SetLineWidth(0.3)
	pdf.Line(margin+20, 160, pageWidth-margin-20, 160)

	signature := func(x float64, label string) {
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetTextColor(slate[0], slate[1], slate[2])
		pdf.SetXY(x, 170)
		pdf.CellFormat(80, 5, "_________________________", "", 2, "C", false, 0, "")
		pdf.CellFormat(80, 5, tr(label), "", 0, "C", false, 0, "")
	}
	signature(margin+20, "Safety Board")
	signature(pageWidth-margin-100, "Student Signature")

	line(188, 8, "", [3]int{148, 163, 184}, fmt.Sprintf("Authenticity guaranteed by %s. ID: %s", cert.Issuer, cert.ValidationCode))

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render certificate: %w", err)
	}
	return nil
}
