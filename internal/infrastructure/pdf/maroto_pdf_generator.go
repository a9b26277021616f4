// Package pdf genera el reporte PDF de una pasada de planeación.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Red + Pasada        │  Fecha + QR del ID            │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: propuestas / unidades / costo / ahorro             │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Tipo | NDC | Cant | Origen → Destino | Canal | Costo │
//	│  ─────────────────────────────────────────────────────────  │
//	│  DEMANDA SIN CUBRIR + DIAGNÓSTICOS                           │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"strconv"

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
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Suministros-api/internal/application/ports"
	"github.com/jhoicas/Suministros-api/internal/domain/entity"
)

var _ ports.PlanningReportGenerator = (*MarotoPDFGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
	colorAlert   = &props.Color{Red: 170, Green: 30, Blue: 30}
)

// maxDiagnostics diagnósticos impresos; el resto se resume en una línea.
const maxDiagnostics = 40

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa ports.PlanningReportGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// GeneratePlanningReport genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GeneratePlanningReport(run *entity.PlanningRun, sites map[string]entity.Site) ([]byte, error) {
	if run == nil {
		return nil, fmt.Errorf("pdf: pasada nula")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Pasada de planeación "+run.ID, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(run))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(summaryRow(run))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(sectionTitle("PROPUESTAS", colorPrimary))
	m.AddRows(tableHeaderRow())
	m.AddRows(proposalRows(run.Proposals, sites)...)

	if len(run.Unfulfilled) > 0 {
		m.AddRows(line.NewRow(3))
		m.AddRows(sectionTitle("DEMANDA SIN CUBRIR", colorAlert))
		m.AddRows(unfulfilledRows(run.Unfulfilled, sites)...)
	}
	if len(run.Diagnostics) > 0 {
		m.AddRows(line.NewRow(3))
		m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
		m.AddRows(sectionTitle("DIAGNÓSTICOS", colorGray))
		m.AddRows(diagnosticRows(run.Diagnostics)...)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: red y pasada (izq), fecha y QR con el ID (der).
func headerRow(run *entity.PlanningRun) core.Row {
	return row.New(24).Add(
		col.New(8).Add(
			text.New("PASADA DE PLANEACIÓN", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Red: "+nonEmpty(run.NetworkID, "—"), props.Text{Size: 9, Top: 9, Color: colorGray}),
			text.New("ID: "+run.ID, props.Text{Size: 8, Top: 14, Color: colorGray}),
			text.New("Solicitada por: "+nonEmpty(run.RequestedBy, "—"), props.Text{Size: 8, Top: 19, Color: colorGray}),
		),
		col.New(2).Add(
			text.New(run.StartedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 2, Color: colorGray,
			}),
		),
		col.New(2).Add(code.NewQr(run.ID, props.Rect{Percent: 95, Center: true})),
	)
}

// summaryRow: totales de la pasada.
func summaryRow(run *entity.PlanningRun) core.Row {
	var units int64
	total, savings := decimal.Zero, decimal.Zero
	transfers := 0
	for _, p := range run.Proposals {
		units += p.Quantity
		total = total.Add(p.Cost.TotalCost)
		savings = savings.Add(p.Cost.Savings)
		if p.Kind == entity.ProposalTransfer {
			transfers++
		}
	}
	cell := func(label, value string) core.Col {
		return col.New(3).Add(
			text.New(label, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(value, props.Text{Size: 10, Top: 6}),
		)
	}
	return row.New(14).Add(
		cell("Propuestas", fmt.Sprintf("%d (%d transf.)", len(run.Proposals), transfers)),
		cell("Unidades", formatUnits(units)),
		cell("Costo total", "$"+formatMoney(total)),
		cell("Ahorro", "$"+formatMoney(savings)),
	)
}

func sectionTitle(title string, color *props.Color) core.Row {
	return row.New(7).Add(col.New(12).Add(
		text.New(title, props.Text{Style: fontstyle.Bold, Size: 9, Color: color, Top: 1}),
	))
}

// tableHeaderRow: cabecera de la tabla de propuestas.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).WithStyle(&props.Cell{BackgroundColor: colorPrimary}).Add(
		h("Tipo", 1, align.Left),
		h("Medicamento", 3, align.Left),
		h("Cant.", 1, align.Center),
		h("Origen → Destino", 3, align.Left),
		h("Canal/Medio", 2, align.Left),
		h("Costo", 1, align.Right),
		h("Punt.", 1, align.Right),
	)
}

// proposalRows: una fila por propuesta.
func proposalRows(proposals []entity.Proposal, sites map[string]entity.Site) []core.Row {
	if len(proposals) == 0 {
		return []core.Row{row.New(6).Add(col.New(12).Add(
			text.New("Sin propuestas en esta pasada.", props.Text{Size: 8, Color: colorGray, Top: 1}),
		))}
	}
	out := make([]core.Row, 0, len(proposals))
	cell := func(s string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(s, props.Text{Size: 7.5, Align: a, Top: 1, Left: 1, Right: 1}))
	}
	for _, p := range proposals {
		kind, route, via := "Compra", "→ "+siteName(sites, p.TargetSiteID), string(p.Channel)
		if p.Kind == entity.ProposalTransfer {
			kind = "Transf."
			route = siteName(sites, p.SourceSiteID) + " → " + siteName(sites, p.TargetSiteID)
			via = string(p.TransportMethod)
		}
		if p.Split {
			kind += "*"
		}
		out = append(out, row.New(7).Add(
			cell(kind, 1, align.Left),
			cell(p.DrugName+" ("+p.NDC+")", 3, align.Left),
			cell(formatUnits(p.Quantity), 1, align.Center),
			cell(route, 3, align.Left),
			cell(via, 2, align.Left),
			cell("$"+formatMoney(p.Cost.TotalCost), 1, align.Right),
			cell(strconv.FormatFloat(p.Score, 'f', 0, 64), 1, align.Right),
		))
	}
	return out
}

func unfulfilledRows(items []entity.UnfulfilledDemand, sites map[string]entity.Site) []core.Row {
	out := make([]core.Row, 0, len(items))
	for _, u := range items {
		out = append(out, row.New(5).Add(col.New(12).Add(text.New(
			fmt.Sprintf("%s · %s (%s): %s unidades. %s",
				siteName(sites, u.Signal.SiteID), u.Signal.DrugName, u.Signal.NDC, formatUnits(u.Quantity), u.Reason),
			props.Text{Size: 7.5, Top: 0.5, Color: colorAlert},
		))))
	}
	return out
}

func diagnosticRows(diags []entity.Diagnostic) []core.Row {
	n := len(diags)
	if n > maxDiagnostics {
		n = maxDiagnostics
	}
	out := make([]core.Row, 0, n+1)
	for _, d := range diags[:n] {
		out = append(out, row.New(4).Add(col.New(12).Add(text.New(
			fmt.Sprintf("[%s] %s", d.Kind, d.Message),
			props.Text{Size: 6.5, Color: colorGray, Top: 0.5},
		))))
	}
	if rest := len(diags) - n; rest > 0 {
		out = append(out, row.New(4).Add(col.New(12).Add(text.New(
			fmt.Sprintf("… y %d diagnósticos más", rest),
			props.Text{Size: 6.5, Style: fontstyle.Italic, Color: colorGray, Top: 0.5},
		))))
	}
	return out
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func siteName(sites map[string]entity.Site, id string) string {
	if s, ok := sites[id]; ok && s.Name != "" {
		return s.Name
	}
	return id
}

func formatUnits(n int64) string {
	return groupThousands(strconv.FormatInt(n, 10))
}

// formatMoney dos decimales con separador de miles: 1234567.5 → "1,234,567.50".
func formatMoney(d decimal.Decimal) string {
	s := d.StringFixed(2)
	sign := ""
	if s[0] == '-' {
		sign, s = "-", s[1:]
	}
	return sign + groupThousands(s[:len(s)-3]) + s[len(s)-3:]
}

// groupThousands inserta comas de miles en un string de dígitos.
func groupThousands(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, ',')
		}
		buf = append(buf, c)
	}
	return string(buf)
}
