// Package report renders the daily expense summary as a PDF document.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/google/uuid"
	"log/slog"

	"github.com/m3rciful/spendbot/internal/logger"
	"github.com/m3rciful/spendbot/internal/service"
)

// Renderer writes daily reports into a temp directory. Files are owned by
// the caller, which removes them after delivery.
type Renderer struct {
	tmpDir string
}

// NewRenderer constructs a Renderer writing into tmpDir.
func NewRenderer(tmpDir string) *Renderer {
	if tmpDir == "" {
		tmpDir = os.TempDir()
	}
	return &Renderer{tmpDir: tmpDir}
}

// Render produces the PDF and returns its path. The layout follows the
// trade-confirmation style: a header with the client name and date, a
// bordered item/amount table, and the day's total.
func (r *Renderer) Render(rep service.DailyReport) (string, error) {
	start := time.Now()

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, "Trade Confirmation", "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	pdf.CellFormat(0, 5, "Client: "+strings.ToUpper(rep.Profile.DisplayName), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 5, "Date: "+rep.Day.Format("02/01/2006"), "", 1, "L", false, 0, "")
	pdf.Ln(10)

	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(110, 8, " ITEM DESCRIPTION", "1", 0, "L", true, 0, "")
	pdf.CellFormat(80, 8, " AMOUNT (IDR)", "1", 1, "R", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	for _, e := range rep.Expenses {
		pdf.CellFormat(110, 8, " "+strings.ToUpper(e.ItemLabel), "1", 0, "L", false, 0, "")
		pdf.CellFormat(80, 8, FormatAmount(e.Amount)+" ", "1", 1, "R", false, 0, "")
	}

	pdf.Ln(5)
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(110, 10, "TOTAL EXPENDITURE TODAY", "", 0, "R", false, 0, "")
	pdf.CellFormat(80, 10, " Rp "+FormatAmount(rep.Total)+" ", "", 1, "R", false, 0, "")

	pdf.SetFont("Arial", "", 9)
	pdf.CellFormat(110, 8, "REMAINING BUDGET THIS MONTH", "", 0, "R", false, 0, "")
	pdf.CellFormat(80, 8, " Rp "+FormatAmount(rep.Remaining)+" ", "", 1, "R", false, 0, "")

	path := filepath.Join(r.tmpDir, fmt.Sprintf("daily_report_%s.pdf", uuid.NewString()))
	if err := pdf.OutputFileAndClose(path); err != nil {
		logger.PDF.Error("render failed",
			slog.String("event", "report.render"),
			slog.Int64("user_id", rep.Profile.UserID),
			slog.String("err", err.Error()),
		)
		return "", fmt.Errorf("render pdf: %w", err)
	}

	logger.PDF.Debug("rendered",
		slog.String("event", "report.render"),
		slog.Int64("user_id", rep.Profile.UserID),
		slog.Int("entries", len(rep.Expenses)),
		slog.Duration("duration", logger.Took(start)),
	)
	return path, nil
}

// FormatAmount renders an integer amount with thousands separators,
// e.g. 485000 -> "485,000".
func FormatAmount(n int64) string {
	neg := n < 0
	if neg {
		n = -n
	}
	s := fmt.Sprintf("%d", n)
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
		if len(s) > lead {
			b.WriteString(",")
		}
	}
	for i := lead; i < len(s); i += 3 {
		b.WriteString(s[i : i+3])
		if i+3 < len(s) {
			b.WriteString(",")
		}
	}
	out := b.String()
	if neg {
		return "-" + out
	}
	return out
}
