package picking

import "strings"

// NamedTable tabla cargada junto con el nombre del archivo de origen.
type NamedTable struct {
	Name  string
	Table Table
}

// ReferenceIndex código de barras normalizado → primera fila que lo declara.
// Se reconstruye completo cuando cambia el conjunto de tablas y es de solo lectura después.
type ReferenceIndex struct {
	byCode    map[string]ReferenceRow
	tables    []string
	fallbacks []string
	rows      int
}

// NormalizeCode clave de búsqueda: sin espacios en los extremos y en mayúsculas.
func NormalizeCode(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// BuildIndex combina las tablas en el orden dado. Ante códigos repetidos gana la primera
// aparición (también entre tablas); las filas con código vacío se omiten.
func BuildIndex(tables []NamedTable) *ReferenceIndex {
	ix := &ReferenceIndex{byCode: make(map[string]ReferenceRow)}
	for _, nt := range tables {
		ix.tables = append(ix.tables, nt.Name)
		ix.rows += len(nt.Table.Rows)
		if len(nt.Table.Rows) == 0 {
			continue
		}
		roles := nt.Table.Rows[0].Roles()
		if !roles.CodeResolved {
			ix.fallbacks = append(ix.fallbacks, nt.Name)
		}
		for _, row := range nt.Table.Rows {
			k := NormalizeCode(row.Get(roles.Code))
			if k == "" {
				continue
			}
			if _, dup := ix.byCode[k]; dup {
				continue
			}
			ix.byCode[k] = row
		}
	}
	return ix
}

// Lookup busca la fila para una lectura (normaliza el código).
func (ix *ReferenceIndex) Lookup(code string) (ReferenceRow, bool) {
	if ix == nil {
		return ReferenceRow{}, false
	}
	row, ok := ix.byCode[NormalizeCode(code)]
	return row, ok
}

// Len cantidad de códigos indexados.
func (ix *ReferenceIndex) Len() int {
	if ix == nil {
		return 0
	}
	return len(ix.byCode)
}

// Rows cantidad total de filas leídas (incluye vacías y repetidas).
func (ix *ReferenceIndex) Rows() int {
	if ix == nil {
		return 0
	}
	return ix.rows
}

// Tables nombres de las tablas indexadas, en orden.
func (ix *ReferenceIndex) Tables() []string {
	if ix == nil {
		return nil
	}
	return append([]string(nil), ix.tables...)
}

// FallbackTables tablas sin columna de código reconocible, indexadas por su primera columna.
func (ix *ReferenceIndex) FallbackTables() []string {
	if ix == nil {
		return nil
	}
	return append([]string(nil), ix.fallbacks...)
}
