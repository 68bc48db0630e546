// Package document renders the allowance request summary PDF attached to
// the process and emailed on submission.
package document

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"

	"github.com/camara-itapoa/diaria-engine/diaria"
	"github.com/camara-itapoa/diaria-engine/workflow"
)

const (
	pdfFontSize   = 9
	pdfLineHeight = 4.2

	lineWidth  = 75
	lineSingle = "---------------------------------------------------------------------------"
	lineDouble = "==========================================================================="
)

// Render produces the summary PDF for one process.
func Render(p *workflow.Process) ([]byte, error) {
	header := buildHeader(p)
	blocks := []string{
		buildTripBlock(p),
		buildValuesBlock(p),
	}
	footer := buildFooter(p)

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Courier", "", pdfFontSize)
	pdf.AddPage()

	_, pageHeight := pdf.GetPageSize()
	_, _, _, marginBottom := pdf.GetMargins()
	maxY := pageHeight - marginBottom

	// Use large width to prevent line wrapping (text uses spaces for alignment)
	const cellWidth = 300

	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.MultiCell(cellWidth, pdfLineHeight, tr(header), "", "", false)

	// Blocks are never split across pages.
	for _, block := range blocks {
		blockHeight := float64(strings.Count(block, "\n")+1) * pdfLineHeight
		if pdf.GetY()+blockHeight > maxY {
			pdf.AddPage()
		}
		pdf.MultiCell(cellWidth, pdfLineHeight, tr(block), "", "", false)
	}

	footerHeight := float64(strings.Count(footer, "\n")+1) * pdfLineHeight
	if pdf.GetY()+footerHeight > maxY {
		pdf.AddPage()
	}
	pdf.MultiCell(cellWidth, pdfLineHeight, tr(footer), "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// =============================================================================
// CONTENT BUILDERS
// =============================================================================

func buildHeader(p *workflow.Process) string {
	var b strings.Builder

	title := fmt.Sprintf("SOLICITAÇÃO DE DIÁRIAS - PROCESSO Nº %d", p.ID)
	padding := (lineWidth - len(title)) / 2
	if padding < 0 {
		padding = 0
	}
	b.WriteString(lineDouble + "\n")
	b.WriteString(strings.Repeat(" ", padding) + title + "\n")
	b.WriteString(lineDouble + "\n\n")

	b.WriteString(fmt.Sprintf("Solicitante:   %s\n", p.RequesterName))
	b.WriteString(fmt.Sprintf("E-mail:        %s\n", p.RequesterEmail))
	b.WriteString(fmt.Sprintf("Situação:      %s\n", p.Status.Label()))
	b.WriteString(fmt.Sprintf("Protocolado:   %s\n", diaria.FormatDate(p.CreatedAt)))
	b.WriteString("\n")

	return b.String()
}

func buildTripBlock(p *workflow.Process) string {
	var b strings.Builder

	b.WriteString("DADOS DA VIAGEM\n")
	b.WriteString(lineSingle + "\n")
	b.WriteString(fmt.Sprintf("Objetivo:      %s\n", p.Objective))
	b.WriteString(fmt.Sprintf("Destino:       %s (%s)\n", p.Destination, p.Region))
	b.WriteString(fmt.Sprintf("Saída:         %s\n", diaria.FormatDate(p.Departure)))
	b.WriteString(fmt.Sprintf("Retorno:       %s\n", diaria.FormatDate(p.Return)))
	b.WriteString(fmt.Sprintf("Transporte:    %s\n", transportLabel(p.Transport)))
	if p.Transport == diaria.OwnVehicle {
		b.WriteString(fmt.Sprintf("Placa:         %s\n", p.VehiclePlate))
		b.WriteString(fmt.Sprintf("Distância:     %d km (ida e volta)\n", p.DistanceKm))
	}
	if p.AdvanceTravel {
		b.WriteString(fmt.Sprintf("Antecipação:   Sim - %s\n", p.AdvanceJustification))
	}
	if p.DeadlineJustification != "" {
		b.WriteString(fmt.Sprintf("Justif. prazo: %s\n", p.DeadlineJustification))
	}
	b.WriteString("\n")

	return b.String()
}

func buildValuesBlock(p *workflow.Process) string {
	var b strings.Builder

	b.WriteString("VALORES\n")
	b.WriteString(lineSingle + "\n")
	b.WriteString(valueLine("Diárias", p.TotalDiemValue))
	b.WriteString(valueLine("Deslocamento", p.TravelReimbursement))
	if p.RegistrationFeeRequested {
		b.WriteString(valueLine("Taxa de inscrição", p.RegistrationFee))
	}
	b.WriteString("\n")

	return b.String()
}

func buildFooter(p *workflow.Process) string {
	var b strings.Builder
	b.WriteString(lineDouble + "\n")
	b.WriteString(valueLine("TOTAL A EMPENHAR", p.TotalToCommit))
	b.WriteString(lineDouble + "\n")
	return b.String()
}

func valueLine(label string, amount decimal.Decimal) string {
	formatted := diaria.FormatCurrency(amount)
	pad := lineWidth - len(label) - len([]rune(formatted))
	if pad < 1 {
		pad = 1
	}
	return label + strings.Repeat(" ", pad) + formatted + "\n"
}

func transportLabel(mode diaria.TransportMode) string {
	switch mode {
	case diaria.OwnVehicle:
		return "Veículo Próprio"
	case diaria.OfficialVehicle:
		return "Veículo Oficial"
	case diaria.Air:
		return "Transporte Aéreo"
	case diaria.Bus:
		return "Transporte Rodoviário (Ônibus)"
	default:
		return "Outro"
	}
}
