package picking

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/picking-salida/internal/domain/entity"
)

// DefaultExportFolder carpeta cuando no hay destino elegido.
const DefaultExportFolder = "INVENTARIO"

var unsafeFilename = regexp.MustCompile(`[\\/:*?"<>|]+`)

// OutputCode identificador que va al TXT: el artículo si existe, si no la columna de código
// preferida y, en último caso, lo escaneado.
func OutputCode(row ReferenceRow, found bool, scanned string) string {
	if !found {
		return scanned
	}
	if art := row.Article(); art != "" {
		return art
	}
	if col := row.Roles().Output; col != "" {
		return row.Get(col)
	}
	return scanned
}

// ExportLines una línea por lectura, la más reciente primero (mismo orden que la lista en pantalla).
func ExportLines(events []entity.ScanEvent, ix *ReferenceIndex) []string {
	lines := make([]string, 0, len(events))
	for i := len(events) - 1; i >= 0; i-- {
		row, ok := ix.Lookup(events[i].RawCode)
		lines = append(lines, OutputCode(row, ok, events[i].RawCode))
	}
	return lines
}

// ExportFilename "AAMMDD DESTINO RESPONSABLE <bultos>B REM<remito>.txt".
func ExportFilename(meta entity.SessionMeta, now time.Time) string {
	bultos := meta.Bultos
	if bultos == "" {
		bultos = "0"
	}
	base := fmt.Sprintf("%s %s %s %sB REM%s",
		now.Format("060102"),
		norm.NFC.String(strings.ToUpper(meta.Destino)),
		norm.NFC.String(strings.ToUpper(meta.Responsable)),
		bultos,
		meta.Remito,
	)
	name := unsafeFilename.ReplaceAllString(strings.TrimSpace(base), "_")
	if !strings.HasSuffix(strings.ToLower(name), ".txt") {
		name += ".txt"
	}
	return name
}

// ExportFolder carpeta remota: el destino en mayúsculas.
func ExportFolder(meta entity.SessionMeta) string {
	if d := strings.ToUpper(strings.TrimSpace(meta.Destino)); d != "" {
		return d
	}
	return DefaultExportFolder
}
