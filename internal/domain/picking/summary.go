package picking

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/jhoicas/picking-salida/internal/domain/entity"
)

// Etiquetas de variante especiales del conteo por artículo.
const (
	NoEquivalenceLabel = "SIN EQUIVALENCIA"
	NoVariantLabel     = "SIN VARIANTE"
)

// VariantCount cantidad por combinación color · talle dentro de un artículo.
type VariantCount struct {
	Label string
	Count int
}

// ArticleGroup fila del conteo por artículo.
type ArticleGroup struct {
	Label    string
	Total    int
	Matched  bool
	Variants []VariantCount
}

type groupAcc struct {
	total    int
	matched  bool
	variants map[string]int
}

// BuildArticleSummary agrupa las lecturas por "ARTICULO COLOR TALLE" con desglose por variante.
// Las lecturas sin equivalencia se agrupan por el código leído. No modifica events.
func BuildArticleSummary(events []entity.ScanEvent, ix *ReferenceIndex) []ArticleGroup {
	acc := make(map[string]*groupAcc)
	get := func(label string) *groupAcc {
		g, ok := acc[label]
		if !ok {
			g = &groupAcc{variants: make(map[string]int)}
			acc[label] = g
		}
		return g
	}

	for _, ev := range events {
		row, ok := ix.Lookup(ev.RawCode)
		if !ok {
			g := get(strings.TrimSpace(ev.RawCode))
			g.total++
			g.variants[NoEquivalenceLabel]++
			continue
		}
		label, variant := ArticleLabel(row, ev.RawCode)
		g := get(label)
		g.total++
		g.matched = true
		g.variants[variant]++
	}

	cmp := newLabelCompare()
	out := make([]ArticleGroup, 0, len(acc))
	for label, g := range acc {
		vs := make([]VariantCount, 0, len(g.variants))
		for v, n := range g.variants {
			vs = append(vs, VariantCount{Label: v, Count: n})
		}
		sort.Slice(vs, func(i, j int) bool {
			if vs[i].Count != vs[j].Count {
				return vs[i].Count > vs[j].Count
			}
			return cmp(vs[i].Label, vs[j].Label) < 0
		})
		out = append(out, ArticleGroup{Label: label, Total: g.total, Matched: g.matched, Variants: vs})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return cmp(out[i].Label, out[j].Label) < 0
	})
	return out
}

// ArticleLabel arma la etiqueta del grupo ("50-5000 BLANCO 85") y la de variante ("BLANCO · 85").
func ArticleLabel(row ReferenceRow, scanned string) (label, variant string) {
	article := row.Article()
	if article == "" {
		article = strings.TrimSpace(scanned)
	}
	color, size := row.ColorSize()

	label = joinNonEmpty(" ", article, color, size)
	if label == "" {
		label = article
	}
	variant = joinNonEmpty(" · ", color, size)
	if variant == "" {
		variant = NoVariantLabel
	}
	return label, variant
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.TrimSpace(strings.Join(kept, sep))
}

// newLabelCompare orden alfabético en español; desempata por bytes para que sea total.
func newLabelCompare() func(a, b string) int {
	col := collate.New(language.Spanish)
	return func(a, b string) int {
		if c := col.CompareString(a, b); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	}
}
