// Package picking contiene el motor de conciliación de la salida de mercadería:
// lectura tolerante de tablas de equivalencia, resolución de columnas por alias,
// índice por código de barras, registro de lecturas y vistas agregadas.
//
// El paquete no hace I/O; las fuentes de archivos y la subida viven en infraestructura.
package picking

import (
	"regexp"
	"strconv"
	"strings"
)

// delimitadores candidatos en orden de prioridad (desempate).
var delimiterCandidates = []rune{',', ';', '|', '\t'}

const defaultDelimiter = ';'

var lineBreak = regexp.MustCompile(`\r?\n`)

// header columnas de una tabla, compartidas por todas sus filas.
type header struct {
	names []string
	pos   map[string]int
	roles Roles
}

func newHeader(names []string) *header {
	h := &header{names: names, pos: make(map[string]int, len(names))}
	for i, n := range names {
		h.pos[n] = i
	}
	h.roles = ResolveRoles(names)
	return h
}

// ReferenceRow fila de una tabla de equivalencias: mapeo ordenado columna → valor.
type ReferenceRow struct {
	h     *header
	cells []string
}

// Columns devuelve los nombres de columna en el orden del archivo.
func (r ReferenceRow) Columns() []string {
	if r.h == nil {
		return nil
	}
	return append([]string(nil), r.h.names...)
}

// Values devuelve los valores en el mismo orden que Columns.
func (r ReferenceRow) Values() []string {
	return append([]string(nil), r.cells...)
}

// Lookup devuelve el valor de la columna y si la columna existe.
func (r ReferenceRow) Lookup(column string) (string, bool) {
	if r.h == nil {
		return "", false
	}
	i, ok := r.h.pos[column]
	if !ok {
		return "", false
	}
	return r.cells[i], true
}

// Get devuelve el valor de la columna o "" si no existe.
func (r ReferenceRow) Get(column string) string {
	v, _ := r.Lookup(column)
	return v
}

// Map copia la fila a un map (útil para serializar).
func (r ReferenceRow) Map() map[string]string {
	out := make(map[string]string, len(r.cells))
	if r.h == nil {
		return out
	}
	for i, n := range r.h.names {
		out[n] = r.cells[i]
	}
	return out
}

// Roles devuelve las columnas resueltas para la tabla de la fila.
func (r ReferenceRow) Roles() Roles {
	if r.h == nil {
		return Roles{}
	}
	return r.h.roles
}

// Table resultado de leer un archivo de equivalencias.
type Table struct {
	Columns []string
	Rows    []ReferenceRow
}

// Roles columnas resueltas de la tabla.
func (t Table) Roles() Roles {
	return ResolveRoles(t.Columns)
}

// ParseTable convierte texto delimitado en filas. Detecta el delimitador con las dos
// primeras líneas, desduplica encabezados y tolera comillas mal cerradas. Nunca falla.
func ParseTable(text string) Table {
	lines := nonEmptyLines(text)
	if len(lines) == 0 {
		return Table{}
	}
	second := ""
	if len(lines) > 1 {
		second = lines[1]
	}
	sep := DetectDelimiter(lines[0], second)

	records := make([][]string, 0, len(lines))
	for _, l := range lines {
		records = append(records, SplitLine(l, sep))
	}
	return TableFromRecords(records)
}

// TableFromRecords arma una tabla a partir de registros ya separados; el primero es el encabezado.
func TableFromRecords(records [][]string) Table {
	if len(records) == 0 {
		return Table{}
	}
	names := dedupHeaders(records[0])
	h := newHeader(names)

	rows := make([]ReferenceRow, 0, len(records)-1)
	for _, rec := range records[1:] {
		cells := make([]string, len(names))
		for i := range names {
			if i < len(rec) {
				cells[i] = strings.TrimSpace(rec[i])
			}
		}
		rows = append(rows, ReferenceRow{h: h, cells: cells})
	}
	return Table{Columns: append([]string(nil), names...), Rows: rows}
}

func nonEmptyLines(text string) []string {
	parts := lineBreak.Split(text, -1)
	out := parts[:0]
	for _, p := range parts {
		if len(p) > 0 {
			out = append(out, p)
		}
	}
	return out
}

// dedupHeaders: "Descripción" repetida queda como "Descripción" y "Descripción_2".
func dedupHeaders(raw []string) []string {
	seen := make(map[string]bool, len(raw))
	out := make([]string, 0, len(raw))
	for _, h := range raw {
		k := strings.TrimSpace(h)
		if k == "" {
			k = "COL"
		}
		if seen[k] {
			n := 2
			for seen[k+"_"+strconv.Itoa(n)] {
				n++
			}
			k = k + "_" + strconv.Itoa(n)
		}
		seen[k] = true
		out = append(out, k)
	}
	return out
}

// DetectDelimiter elige el delimitador con más apariciones fuera de comillas en ambas líneas.
// Empates por orden de prioridad (coma, punto y coma, barra, tab); sin apariciones → punto y coma.
func DetectDelimiter(first, second string) rune {
	best, bestIdx := 0, 0
	for i, c := range delimiterCandidates {
		n := countUnquoted(first, c) + countUnquoted(second, c)
		if n > best {
			best, bestIdx = n, i
		}
	}
	if best == 0 {
		return defaultDelimiter
	}
	return delimiterCandidates[bestIdx]
}

func countUnquoted(line string, sep rune) int {
	rs := []rune(line)
	quoted := false
	n := 0
	for i := 0; i < len(rs); i++ {
		c := rs[i]
		switch {
		case c == '"':
			if quoted && i+1 < len(rs) && rs[i+1] == '"' {
				i++
			} else {
				quoted = !quoted
			}
		case !quoted && c == sep:
			n++
		}
	}
	return n
}

// SplitLine separa una línea respetando comillas dobles ("" dentro de comillas es una comilla literal).
// Una comilla sin cerrar se extiende hasta el fin de la línea.
func SplitLine(line string, sep rune) []string {
	rs := []rune(line)
	var out []string
	var cur strings.Builder
	quoted := false
	for i := 0; i < len(rs); i++ {
		c := rs[i]
		switch {
		case c == '"':
			if quoted && i+1 < len(rs) && rs[i+1] == '"' {
				cur.WriteRune('"')
				i++
			} else {
				quoted = !quoted
			}
		case c == sep && !quoted:
			out = append(out, cur.String())
			cur.Reset()
		default:
			cur.WriteRune(c)
		}
	}
	return append(out, cur.String())
}
