package dto

import "time"

// CreateSessionRequest body de POST /api/picking/sessions.
type CreateSessionRequest struct {
	Station string `json:"station"`
}

// MetaRequest cabecera elegida por el operario.
type MetaRequest struct {
	Responsable string `json:"responsable"`
	Origen      string `json:"origen"`
	Destino     string `json:"destino"`
	Bultos      string `json:"bultos"`
	Remito      string `json:"remito"`
}

// MetaResponse cabecera guardada.
type MetaResponse struct {
	Station     string     `json:"station"`
	Responsable string     `json:"responsable"`
	Origen      string     `json:"origen"`
	Destino     string     `json:"destino"`
	Bultos      string     `json:"bultos"`
	Remito      string     `json:"remito"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

// SessionResponse estado de una sesión de salida.
type SessionResponse struct {
	ID        string       `json:"id"`
	Station   string       `json:"station"`
	CreatedAt time.Time    `json:"created_at"`
	Scans     int          `json:"scans"`
	State     string       `json:"state"`
	Buffer    string       `json:"buffer"`
	Meta      MetaResponse `json:"meta"`
}

// SessionListResponse listado de sesiones abiertas.
type SessionListResponse struct {
	Items []SessionResponse `json:"items"`
	Total int               `json:"total"`
}

// ScanRequest lectura completa (código de barras ya armado).
type ScanRequest struct {
	Code string `json:"code"`
}

// InputRequest caracteres tal como los envía el lector; commit = marca de fin (Enter).
type InputRequest struct {
	Chars  string `json:"chars"`
	Commit bool   `json:"commit"`
}

// ScanResponse evento de lectura. Matched alimenta la señal de OK/error en el cliente.
type ScanResponse struct {
	ID      int64     `json:"id"`
	Code    string    `json:"code"`
	Matched bool      `json:"matched"`
	At      time.Time `json:"at"`
}

// ScanListResponse lecturas de la más reciente a la más vieja.
type ScanListResponse struct {
	Items []ScanResponse `json:"items"`
	Total int            `json:"total"`
}

// InputResponse estado del acumulador después de la entrada.
type InputResponse struct {
	State  string        `json:"state"`
	Buffer string        `json:"buffer"`
	Scan   *ScanResponse `json:"scan,omitempty"`
}

// VariantResponse cantidad por color · talle.
type VariantResponse struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// ArticleGroupResponse fila del conteo por artículo.
type ArticleGroupResponse struct {
	Label    string            `json:"label"`
	Total    int               `json:"total"`
	Matched  bool              `json:"matched"`
	Variants []VariantResponse `json:"variants"`
}

// SummaryResponse conteo por artículo de la sesión.
type SummaryResponse struct {
	TotalScans int                    `json:"total_scans"`
	Matched    int                    `json:"matched"`
	Unmatched  int                    `json:"unmatched"`
	Articles   []ArticleGroupResponse `json:"articles"`
}

// ExportResponse resultado de la subida del TXT.
type ExportResponse struct {
	FileName string `json:"file_name"`
	Folder   string `json:"folder"`
	Origin   string `json:"origin"`
	Lines    int    `json:"lines"`
	Cleared  int    `json:"cleared"`
}

// CatalogResponse listas de los selectores.
type CatalogResponse struct {
	Responsables  []string `json:"responsables"`
	Sucursales    []string `json:"sucursales"`
	UploadOrigins []string `json:"upload_origins"`
}

// ReferenceFileResponse resultado de carga de un archivo de equivalencias.
type ReferenceFileResponse struct {
	Name  string `json:"name"`
	OK    bool   `json:"ok"`
	Rows  int    `json:"rows"`
	Error string `json:"error,omitempty"`
}

// ReferencesResponse estado de las tablas de equivalencia ("3/3 OK").
type ReferencesResponse struct {
	Status    string                  `json:"status"`
	Loaded    int                     `json:"loaded"`
	Total     int                     `json:"total"`
	Codes     int                     `json:"codes"`
	Files     []ReferenceFileResponse `json:"files"`
	Fallbacks []string                `json:"fallbacks,omitempty"`
}
