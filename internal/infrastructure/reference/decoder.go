// Package reference lee las tablas de equivalencia desde disco o HTTP y las decodifica
// según su extensión: texto delimitado (CSV/TXT), XLSX o XLS.
package reference

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	apppicking "github.com/jhoicas/picking-salida/internal/application/picking"
	"github.com/jhoicas/picking-salida/internal/domain/picking"
)

var _ apppicking.TableDecoder = (*Decoder)(nil)

// maxXLSRows tope de filas leídas de un XLS.
const maxXLSRows = 200000

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Decoder implementa apppicking.TableDecoder.
type Decoder struct{}

// NewDecoder construye el decodificador.
func NewDecoder() *Decoder { return &Decoder{} }

// Decode elige el formato por extensión; cualquier otra extensión se trata como texto delimitado.
func (d *Decoder) Decode(name string, data []byte) (picking.Table, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm":
		return decodeXLSX(data)
	case ".xls":
		return decodeXLS(data)
	default:
		text, err := DecodeText(data)
		if err != nil {
			return picking.Table{}, err
		}
		return picking.ParseTable(text), nil
	}
}

// DecodeText quita el BOM UTF-8 y, si el contenido no es UTF-8 válido, lo interpreta como
// Windows-1252 (exportaciones de Excel en español).
func DecodeText(data []byte) (string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if utf8.Valid(data) {
		return string(data), nil
	}
	out, _, err := transform.Bytes(charmap.Windows1252.NewDecoder(), data)
	if err != nil {
		return "", fmt.Errorf("convertir desde Windows-1252: %w", err)
	}
	return string(out), nil
}

func decodeXLSX(data []byte) (picking.Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return picking.Table{}, fmt.Errorf("abrir xlsx: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return picking.Table{}, fmt.Errorf("xlsx sin hojas")
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return picking.Table{}, fmt.Errorf("leer hoja %s: %w", sheet, err)
	}
	return picking.TableFromRecords(dropBlankRows(rows)), nil
}

// decodeXLS lee las celdas del libro XLS. La librería entra en pánico con archivos
// truncados o corruptos; el pánico se convierte en error para no tirar la carga.
func decodeXLS(data []byte) (table picking.Table, err error) {
	defer func() {
		if r := recover(); r != nil {
			table, err = picking.Table{}, fmt.Errorf("xls corrupto: %v", r)
		}
	}()

	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return picking.Table{}, fmt.Errorf("abrir xls: %w", err)
	}
	if wb == nil || wb.NumSheets() == 0 {
		return picking.Table{}, fmt.Errorf("xls sin hojas")
	}
	return picking.TableFromRecords(dropBlankRows(wb.ReadAllCells(maxXLSRows))), nil
}

// dropBlankRows quita filas sin ningún valor, igual que las líneas vacías del texto.
func dropBlankRows(rows [][]string) [][]string {
	out := rows[:0:0]
	for _, r := range rows {
		for _, c := range r {
			if strings.TrimSpace(c) != "" {
				out = append(out, r)
				break
			}
		}
	}
	return out
}
