// Package export gera a planilha dos patrocinadores com excelize.
package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/xavierca1/patrocinios/internal/usecase"
)

const (
	SponsorsSheet      = "Patrocinadores"
	ConversationsSheet = "Conversaciones"
	ContentType        = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var sponsorHeaders = []any{
	"ID", "Nombre", "Ámbito", "Categoría", "Contacto", "Email", "Teléfono",
	"Localidad", "Estado", "Patrocinio", "Presupuesto estimado", "Intereses",
	"Fecha de contacto", "Conversaciones", "Notas",
}

var conversationHeaders = []any{"ID patrocinador", "Patrocinador", "Fecha", "Canal", "Contenido"}

var sponsorColumnWidths = []float64{38, 28, 14, 18, 22, 28, 16, 20, 14, 18, 20, 30, 16, 14, 40}

// Workbook monta o xlsx em memória; uma linha por patrocinador na primeira
// aba e uma linha por conversa na segunda.
func Workbook(sponsors []usecase.SponsorOutput) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SponsorsSheet); err != nil {
		return nil, fmt.Errorf("erro ao criar aba: %w", err)
	}
	if _, err := f.NewSheet(ConversationsSheet); err != nil {
		return nil, fmt.Errorf("erro ao criar aba: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("erro ao criar estilo: %w", err)
	}

	if err := writeHeader(f, SponsorsSheet, sponsorHeaders, headerStyle); err != nil {
		return nil, err
	}
	if err := writeHeader(f, ConversationsSheet, conversationHeaders, headerStyle); err != nil {
		return nil, err
	}

	for i, w := range sponsorColumnWidths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetColWidth(SponsorsSheet, col, col, w); err != nil {
			return nil, fmt.Errorf("erro ao ajustar coluna: %w", err)
		}
	}

	convRow := 2
	for i, s := range sponsors {
		row := []any{
			s.ID, s.Name, s.Scope, s.Category, s.ContactName, s.Email, s.Phone,
			s.Location, s.Status, s.TierLabel, s.EstimatedBudget,
			strings.Join(s.InterestAreas, ", "), s.ContactDate, len(s.Conversations), s.Notes,
		}
		if err := setRow(f, SponsorsSheet, i+2, row); err != nil {
			return nil, err
		}

		for _, c := range s.Conversations {
			convLine := []any{s.ID, s.Name, c.Timestamp.UTC().Format("2006-01-02 15:04:05"), c.Channel, c.Content}
			if err := setRow(f, ConversationsSheet, convRow, convLine); err != nil {
				return nil, err
			}
			convRow++
		}
	}

	for _, sheet := range []string{SponsorsSheet, ConversationsSheet} {
		if err := f.SetPanes(sheet, &excelize.Panes{
			Freeze:      true,
			YSplit:      1,
			TopLeftCell: "A2",
			ActivePane:  "bottomLeft",
		}); err != nil {
			return nil, fmt.Errorf("erro ao congelar cabeçalho: %w", err)
		}
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("erro ao gerar planilha: %w", err)
	}
	return buf.Bytes(), nil
}

func writeHeader(f *excelize.File, sheet string, headers []any, style int) error {
	if err := setRow(f, sheet, 1, headers); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(headers), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, style); err != nil {
		return fmt.Errorf("erro ao aplicar estilo: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("erro ao escrever linha %d de %s: %w", row, sheet, err)
	}
	return nil
}
