package picking

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Alias por rol. Incluyen las variantes mal codificadas que llegan en los CSV exportados.
var (
	CodeAliases = []string{
		"codigo_barras",
		"código", "codigo", "c\ufffddigo", "c\u00c3\u00b3digo",
		"barcode", "ean",
		"lectura", "scan",
	}
	ArticleAliases      = []string{"articulo", "artículo", "art\ufffdculo", "art\u00c3\u00adculo"}
	DescriptionAliases  = []string{"descripcion", "descripción", "descripci\ufffdn", "descripci\u00c3\u00b3n"}
	Description2Aliases = []string{"descripcion_2", "descripción_2", "descripci\ufffdn_2", "descripci\u00c3\u00b3n_2"}
	ColorAliases        = []string{"color", "col"}
	SizeAliases         = []string{"talle", "tamaño", "tamano", "size"}
	OutputAliases       = []string{"codigo", "código", "sku", "cod"}
)

// Roles columnas identificadas en una tabla. Las vacías no se encontraron.
type Roles struct {
	Code         string
	CodeResolved bool // false si Code es la primera columna por descarte
	Article      string
	Description  string // primera "Descripción": color por convención
	Description2 string // segunda "Descripción": talle por convención
	Color        string
	Size         string
	Output       string
}

// stripMarks arma la cadena NFD + quitar marcas. Los Transformer guardan estado: uno por llamada.
func stripMarks() transform.Transformer {
	return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))
}

// NormalizeHeader pasa a minúsculas, quita diacríticos y todo lo que no sea letra o número.
// "Código" y "C?digo" mal codificado terminan comparables con el alias. Es seguro para uso concurrente.
func NormalizeHeader(s string) string {
	t, _, err := transform.String(stripMarks(), strings.ToLower(s))
	if err != nil {
		t = strings.ToLower(s)
	}
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			return r
		}
		return -1
	}, t)
}

// ResolveColumn busca la columna para un rol: coincidencia exacta, luego igualdad normalizada
// (ambas en orden de alias) y por último contención normalizada en orden de columnas.
func ResolveColumn(columns, aliases []string) (string, bool) {
	set := make(map[string]bool, len(columns))
	for _, c := range columns {
		set[c] = true
	}
	for _, a := range aliases {
		if set[a] {
			return a, true
		}
	}

	normCols := make([]string, len(columns))
	for i, c := range columns {
		normCols[i] = NormalizeHeader(c)
	}
	wanted := make([]string, 0, len(aliases))
	for _, a := range aliases {
		if na := NormalizeHeader(a); na != "" {
			wanted = append(wanted, na)
		}
	}

	for _, w := range wanted {
		for i, nc := range normCols {
			if nc == w {
				return columns[i], true
			}
		}
	}
	for i, nc := range normCols {
		for _, w := range wanted {
			if strings.Contains(nc, w) {
				return columns[i], true
			}
		}
	}
	return "", false
}

// ResolveRoles identifica las columnas de una tabla. La columna de código nunca queda vacía
// si hay columnas: sin alias reconocible se usa la primera.
func ResolveRoles(columns []string) Roles {
	var r Roles
	if code, ok := ResolveColumn(columns, CodeAliases); ok {
		r.Code, r.CodeResolved = code, true
	} else if len(columns) > 0 {
		r.Code = columns[0]
	}
	r.Article, _ = ResolveColumn(columns, ArticleAliases)
	r.Description, _ = ResolveColumn(columns, DescriptionAliases)
	r.Description2, _ = ResolveColumn(columns, Description2Aliases)
	r.Color, _ = ResolveColumn(columns, ColorAliases)
	r.Size, _ = ResolveColumn(columns, SizeAliases)
	r.Output, _ = ResolveColumn(columns, OutputAliases)
	return r
}

// Article código interno del artículo, vacío si la tabla no tiene esa columna.
func (r ReferenceRow) Article() string {
	return strings.TrimSpace(r.Get(r.Roles().Article))
}

// ColorSize devuelve color y talle: primero las dos columnas "Descripción",
// si están vacías las columnas explícitas de color/talle.
func (r ReferenceRow) ColorSize() (color, size string) {
	roles := r.Roles()
	color = firstNonEmpty(r, roles.Description, roles.Color)
	size = firstNonEmpty(r, roles.Description2, roles.Size)
	return color, size
}

func firstNonEmpty(r ReferenceRow, columns ...string) string {
	for _, c := range columns {
		if c == "" {
			continue
		}
		if v := strings.TrimSpace(r.Get(c)); v != "" {
			return v
		}
	}
	return ""
}
