// Package pdf genera la hoja de picking de una salida de mercadería.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: HOJA DE PICKING        │  Fecha + QR del remito     │
//	│  CABECERA: Responsable / Origen / Destino / Bultos / Remito │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Cant | Artículo | Variantes                          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: lecturas / sin equivalencia / artículos            │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"
	"strings"

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

	apppicking "github.com/jhoicas/picking-salida/internal/application/picking"
	"github.com/jhoicas/picking-salida/internal/domain/entity"
	"github.com/jhoicas/picking-salida/internal/domain/picking"
)

var _ apppicking.PickListPDFGenerator = (*MarotoPickListGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorAlert   = &props.Color{Red: 180, Green: 30, Blue: 30}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPickListGenerator implementa apppicking.PickListPDFGenerator usando Maroto v2.
type MarotoPickListGenerator struct{}

// NewMarotoPickListGenerator construye el generador.
func NewMarotoPickListGenerator() *MarotoPickListGenerator { return &MarotoPickListGenerator{} }

// GeneratePickListPDF genera el PDF y devuelve sus bytes.
func (g *MarotoPickListGenerator) GeneratePickListPDF(_ context.Context, list apppicking.PickList) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Hoja de picking", true).
		WithAuthor(nonEmpty(list.Meta.Responsable, "picking-salida"), true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(list))
	m.AddRows(metaRow(list.Meta))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow())
	m.AddRows(groupRows(list.Groups)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(list))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: título (izq) y fecha + QR con el remito (der).
func headerRow(list apppicking.PickList) core.Row {
	right := col.New(3).Add(
		text.New("Fecha: "+list.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
			Size: 8, Align: align.Right, Top: 2, Color: colorGray,
		}),
	)
	qr := col.New(2)
	if list.Meta.Remito != "" {
		qr = col.New(2).Add(code.NewQr("REM"+list.Meta.Remito, props.Rect{Percent: 90, Center: true}))
	}

	return row.New(22).Add(
		col.New(7).Add(
			text.New("HOJA DE PICKING", props.Text{
				Style: fontstyle.Bold, Size: 14, Color: colorPrimary, Top: 2,
			}),
			text.New("Salida de mercadería", props.Text{
				Size: 9, Top: 10, Color: colorGray,
			}),
		),
		right,
		qr,
	)
}

// metaRow: datos elegidos por el operario.
func metaRow(m entity.SessionMeta) core.Row {
	return row.New(14).Add(
		col.New(12).Add(
			text.New(fmt.Sprintf("Responsable: %s   |   Origen: %s   |   Destino: %s",
				nonEmpty(m.Responsable, "-"),
				nonEmpty(m.Origen, "-"),
				nonEmpty(m.Destino, "-"),
			), props.Text{Style: fontstyle.Bold, Size: 10, Top: 2}),
			text.New(fmt.Sprintf("Bultos: %s   |   Remito: %s",
				nonEmpty(m.Bultos, "0"),
				nonEmpty(m.Remito, "-"),
			), props.Text{Size: 8, Top: 8, Color: colorGray}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de artículos.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Cant.", 1, align.Center),
		h("Artículo", 5, align.Left),
		h("Variantes", 6, align.Left),
	)
}

// groupRows: una fila por artículo; los que no tienen equivalencia en rojo.
func groupRows(groups []picking.ArticleGroup) []core.Row {
	result := make([]core.Row, 0, len(groups))
	for _, g := range groups {
		style := props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1}
		if !g.Matched {
			style.Color = colorAlert
		}
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(
				formatCount(g.Total),
				props.Text{Size: 8, Align: align.Center, Top: 1, Style: fontstyle.Bold},
			)),
			col.New(5).Add(text.New(g.Label, style)),
			col.New(6).Add(text.New(variantsText(g.Variants), props.Text{
				Size: 7, Align: align.Left, Top: 1, Left: 1, Color: colorGray,
			})),
		))
	}
	return result
}

// totalsRow: bloque de totales alineado a la derecha.
func totalsRow(list apppicking.PickList) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	return row.New(20).Add(
		col.New(6),
		col.New(4).Add(
			label("Lecturas:"),
			label("Sin equivalencia:"),
			label("Artículos:"),
		),
		col.New(2).Add(
			value(formatCount(list.TotalScans)),
			value(formatCount(list.Unmatched)),
			value(formatCount(len(list.Groups))),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// variantsText "BLANCO · 85 ×2, NEGRO · 90 ×1".
func variantsText(vs []picking.VariantCount) string {
	parts := make([]string, 0, len(vs))
	for _, v := range vs {
		parts = append(parts, fmt.Sprintf("%s ×%d", v.Label, v.Count))
	}
	return strings.Join(parts, ", ")
}

// formatCount inserta puntos de miles. Ej: 25000 → "25.000".
func formatCount(n int) string {
	s := strconv.Itoa(n)
	if n < 0 || len(s) <= 3 {
		return s
	}
	buf := make([]byte, 0, len(s)+len(s)/3)
	for i, c := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return string(buf)
}
