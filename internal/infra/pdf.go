package infra

// pdf.go — Sample-order summary PDF using go-pdf/fpdf.
// One A4 page per order:
//   - Header with order reference and supplier
//   - Item table (description, delivery days, estimated cost)
//   - Bold estimated total
//
// The output file is saved to storagePath/commande_{id}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Verone2021/Verone-V1-sub003/internal/model"

	"github.com/go-pdf/fpdf"
)

// GenerateSampleOrderPDF renders the approval summary for a sample order.
// storagePath is the directory where the PDF will be written (created if needed).
// Returns the absolute path to the generated file.
func GenerateSampleOrderPDF(order *model.SampleOrder, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("commande_%s.pdf", order.ID.String()[:8])
	filePath := filepath.Join(storagePath, fileName)

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW, 9, "Commande d'échantillons", "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(contentW, 6, fmt.Sprintf("Référence : %s", order.ID.String()[:8]), "", 1, "L", false, 0, "")
	if order.Supplier != nil {
		pdf.CellFormat(contentW, 6, fmt.Sprintf("Fournisseur : %s", order.Supplier.CompanyName), "", 1, "L", false, 0, "")
	}
	pdf.CellFormat(contentW, 6, order.CreatedAt.Format("02/01/2006 15:04"), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	// ── Items header ──────────────────────────────────────────────────────────
	col1 := contentW * 0.58 // description
	col2 := contentW * 0.18 // delivery days
	col3 := contentW * 0.24 // estimated cost

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(col1, 7, "Description", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 7, "Délai (j)", "B", 0, "C", false, 0, "")
	pdf.CellFormat(col3, 7, "Coût estimé", "B", 1, "R", false, 0, "")

	// ── Item rows ─────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "", 10)
	for _, item := range order.Items {
		desc := item.Description
		// Truncate on runes, not bytes: descriptions carry accented French.
		if runes := []rune(desc); len(runes) > 60 {
			desc = string(runes[:59]) + "…"
		}
		pdf.CellFormat(col1, 6, desc, "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 6, fmt.Sprintf("%d", item.DeliveryDays), "", 0, "C", false, 0, "")
		pdf.CellFormat(col3, 6, item.EstimatedCost.StringFixed(2)+" €", "", 1, "R", false, 0, "")
	}

	pdf.Ln(2)
	pdf.Line(15, pdf.GetY(), pageW-15, pdf.GetY())
	pdf.Ln(2)

	// ── Total ─────────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(col1+col2, 8, "Total estimé :", "", 0, "L", false, 0, "")
	pdf.CellFormat(col3, 8, order.EstimatedTotal.StringFixed(2)+" €", "", 1, "R", false, 0, "")

	if order.ExpectedDeliveryDays > 0 {
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(contentW, 6, fmt.Sprintf("Délai de livraison prévu : %d jours", order.ExpectedDeliveryDays), "", 1, "L", false, 0, "")
	}

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}

	return filePath, nil
}
