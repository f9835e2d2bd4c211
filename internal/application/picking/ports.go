package picking

import (
	"context"
	"time"

	"github.com/jhoicas/picking-salida/internal/domain/entity"
	"github.com/jhoicas/picking-salida/internal/domain/picking"
)

// ReferenceSource entrega el contenido crudo de una tabla de equivalencias por nombre de archivo.
type ReferenceSource interface {
	Read(ctx context.Context, name string) ([]byte, error)
}

// TableDecoder convierte el contenido de un archivo en tabla según su tipo (CSV, XLSX, XLS).
type TableDecoder interface {
	Decode(name string, data []byte) (picking.Table, error)
}

// ExportFile archivo TXT que se sube al destino remoto.
type ExportFile struct {
	Content    string `json:"content"`
	FileName   string `json:"fileName"`
	FolderName string `json:"folderName"`
	MimeType   string `json:"mimeType"`
}

// Uploader sube el TXT al endpoint configurado para la sucursal de origen.
type Uploader interface {
	// Target devuelve el endpoint para el origen; false si no hay uno configurado.
	Target(origin string) (string, bool)
	Upload(ctx context.Context, target string, file ExportFile) error
}

// MetaRepository persiste los datos de cabecera por estación de trabajo.
// Get devuelve domain.ErrNotFound si la estación no tiene datos guardados.
type MetaRepository interface {
	Get(ctx context.Context, station string) (*entity.SessionMeta, error)
	Save(ctx context.Context, station string, meta entity.SessionMeta) error
}

// PickList datos de la hoja de picking impresa.
type PickList struct {
	Meta        entity.SessionMeta
	Groups      []picking.ArticleGroup
	TotalScans  int
	Unmatched   int
	GeneratedAt time.Time
}

// PickListPDFGenerator genera el PDF de la hoja de picking.
type PickListPDFGenerator interface {
	GeneratePickListPDF(ctx context.Context, list PickList) ([]byte, error)
}
