// Package pdf implementa la versión imprimible del historial de un equipo o de una
// solicitud de servicio.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título + asunto        │  Estado vigente + fecha    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  DETALLES: pares etiqueta / valor                            │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Fecha | Actor | De | A | Resultado | Nota            │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: QR con la referencia + leyenda                      │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/activos-ti-api/internal/application/report"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorDenied  = &props.Color{Red: 170, Green: 30, Blue: 30}
)

// statusLabels nombres legibles de los estados de equipos y solicitudes.
var statusLabels = map[string]string{
	"operational":  "Operativo",
	"under_review": "En revisión",
	"damaged":      "Dañado",
	"withdrawn":    "Dado de baja",
	"pending":      "Pendiente",
	"in_process":   "En proceso",
	"resolved":     "Resuelta",
	"closed":       "Cerrada",
}

// ── Generator ─────────────────────────────────────────────────────────────────

var _ report.HistoryPDFGenerator = (*MarotoHistoryPDFGenerator)(nil)

// MarotoHistoryPDFGenerator implementa report.HistoryPDFGenerator usando Maroto v2.
type MarotoHistoryPDFGenerator struct {
	institution string
}

// NewMarotoHistoryPDFGenerator construye el generador. institution se imprime en el pie.
func NewMarotoHistoryPDFGenerator(institution string) *MarotoHistoryPDFGenerator {
	return &MarotoHistoryPDFGenerator{institution: institution}
}

// GenerateHistoryPDF genera el PDF y devuelve sus bytes.
func (g *MarotoHistoryPDFGenerator) GenerateHistoryPDF(_ context.Context, doc *report.HistoryDocument) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Historial "+doc.Title, true).
		WithAuthor(nonEmpty(g.institution, "Activos TI"), true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(doc))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(detailRows(doc.Details)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	if len(doc.Lines) == 0 {
		m.AddRows(row.New(8).Add(col.New(12).Add(
			text.New("Sin movimientos registrados.", props.Text{Size: 8, Align: align.Center, Top: 2, Color: colorGray}),
		)))
	}
	m.AddRows(tableRows(doc.Lines)...)

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(g.footerRows(doc)...)

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return out.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: título + asunto (izq) y estado vigente + fecha de emisión (der).
func headerRow(doc *report.HistoryDocument) core.Row {
	return row.New(20).Add(
		col.New(8).Add(
			text.New("HISTORIAL · "+doc.Title, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(doc.Subject, props.Text{Size: 9, Top: 9}),
			text.New("ID: "+doc.EntityID, props.Text{Size: 7, Top: 15, Color: colorGray}),
		),
		col.New(4).Add(
			text.New("ESTADO ACTUAL", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(StatusLabel(doc.CurrentStatus), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Emitido: "+doc.GeneratedAt.Format("02/01/2006 15:04")+" UTC", props.Text{
				Size: 7, Align: align.Right, Top: 15, Color: colorGray,
			}),
		),
	)
}

// detailRows: una fila por par etiqueta/valor.
func detailRows(fields []report.Field) []core.Row {
	rows := make([]core.Row, 0, len(fields))
	for _, f := range fields {
		rows = append(rows, row.New(5).Add(
			col.New(3).Add(text.New(f.Label+":", props.Text{Style: fontstyle.Bold, Size: 8, Top: 1})),
			col.New(9).Add(text.New(nonEmpty(f.Value, "—"), props.Text{Size: 8, Top: 1})),
		))
	}
	return rows
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Fecha (UTC)", 2, align.Left),
		h("Actor", 3, align.Left),
		h("De", 2, align.Left),
		h("A", 2, align.Left),
		h("Resultado", 1, align.Center),
		h("Nota", 2, align.Left),
	)
}

// tableRows: una fila por entrada; los intentos denegados se destacan en rojo.
func tableRows(lines []report.HistoryLine) []core.Row {
	rows := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		result, color := "Aceptada", colorGray
		if !l.Accepted {
			result, color = "Denegada", colorDenied
		}
		cell := func(s string, size int, a align.Type) core.Col {
			return col.New(size).Add(text.New(s, props.Text{Size: 7.5, Align: a, Top: 1, Left: 1, Right: 1}))
		}
		rows = append(rows, row.New(7).Add(
			cell(l.OccurredAt.UTC().Format("02/01/2006 15:04"), 2, align.Left),
			cell(l.Actor, 3, align.Left),
			cell(StatusLabel(l.PriorStatus), 2, align.Left),
			cell(StatusLabel(l.NewStatus), 2, align.Left),
			col.New(1).Add(text.New(result, props.Text{Size: 7.5, Align: align.Center, Top: 1, Color: color})),
			cell(l.Note, 2, align.Left),
		))
	}
	return rows
}

// footerRows: QR con la referencia de la entidad + leyenda.
func (g *MarotoHistoryPDFGenerator) footerRows(doc *report.HistoryDocument) []core.Row {
	legend := fmt.Sprintf("Generado por %s a partir del historial inmutable. %d entradas.",
		nonEmpty(doc.GeneratedBy, "—"), len(doc.Lines))
	if doc.QRData == "" {
		return []core.Row{row.New(8).Add(col.New(12).Add(
			text.New(legend, props.Text{Size: 7, Color: colorGray, Top: 2}),
		))}
	}
	return []core.Row{row.New(40).Add(
		col.New(3).Add(code.NewQr(doc.QRData, props.Rect{Percent: 95, Center: true})),
		col.New(9).Add(
			text.New(nonEmpty(g.institution, "Activos TI"), props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 4, Left: 3, Color: colorPrimary,
			}),
			text.New(legend, props.Text{Size: 8, Top: 12, Left: 3, Color: colorGray}),
			text.New(doc.QRData, props.Text{Size: 7, Top: 20, Left: 3, Color: colorGray}),
		),
	)}
}

// ── helpers ───────────────────────────────────────────────────────────────────

// StatusLabel nombre legible de un estado; los desconocidos se muestran tal cual.
func StatusLabel(s string) string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return nonEmpty(s, "—")
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
