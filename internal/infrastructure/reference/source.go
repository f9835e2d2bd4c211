package reference

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	apppicking "github.com/jhoicas/picking-salida/internal/application/picking"
	"github.com/jhoicas/picking-salida/internal/domain"
)

var (
	_ apppicking.ReferenceSource = (*DirSource)(nil)
	_ apppicking.ReferenceSource = (*HTTPSource)(nil)
)

// DefaultMaxBytes tope de tamaño de una tabla de equivalencias.
const DefaultMaxBytes int64 = 64 << 20

func tooLarge(name string, limit int64) error {
	return fmt.Errorf("%s supera %d bytes: %w", name, limit, domain.ErrFileTooLarge)
}

// checkName rechaza nombres con rutas: solo se leen archivos del directorio configurado.
func checkName(name string) error {
	if name == "" || name != filepath.Base(name) || strings.ContainsAny(name, `/\`) || name == ".." {
		return fmt.Errorf("nombre de archivo %q: %w", name, domain.ErrInvalidInput)
	}
	return nil
}

// DirSource lee las tablas de un directorio local.
type DirSource struct {
	dir      string
	maxBytes int64
}

// NewDirSource construye la fuente sobre dir.
func NewDirSource(dir string) *DirSource { return &DirSource{dir: dir, maxBytes: DefaultMaxBytes} }

// WithMaxBytes cambia el tope de tamaño por archivo; n <= 0 deja el actual.
func (s *DirSource) WithMaxBytes(n int64) *DirSource {
	if n > 0 {
		s.maxBytes = n
	}
	return s
}

// Read devuelve el contenido del archivo; domain.ErrNotFound si no existe y
// domain.ErrFileTooLarge si supera el tope.
func (s *DirSource) Read(ctx context.Context, name string) ([]byte, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := filepath.Join(s.dir, name)
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", name, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("leer %s: %w", name, err)
	}
	if info.Size() > s.maxBytes {
		return nil, tooLarge(name, s.maxBytes)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("leer %s: %w", name, err)
	}
	return data, nil
}

// HTTPSource descarga las tablas desde una URL base (ej. el mismo hosting del front).
// Cada pedido va sin caché para no usar una tabla vieja.
type HTTPSource struct {
	baseURL    string
	httpClient *http.Client
	maxBytes   int64
}

// NewHTTPSource construye la fuente. timeout <= 0 usa 15 s.
func NewHTTPSource(baseURL string, timeout time.Duration) *HTTPSource {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &HTTPSource{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		maxBytes:   DefaultMaxBytes,
	}
}

// WithMaxBytes cambia el tope de tamaño por archivo; n <= 0 deja el actual.
func (s *HTTPSource) WithMaxBytes(n int64) *HTTPSource {
	if n > 0 {
		s.maxBytes = n
	}
	return s
}

// Read descarga baseURL/name. 404 se informa como domain.ErrNotFound y un cuerpo mayor al
// tope como domain.ErrFileTooLarge.
func (s *HTTPSource) Read(ctx context.Context, name string) ([]byte, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/"+url.PathEscape(name), nil)
	if err != nil {
		return nil, fmt.Errorf("crear request %s: %w", name, err)
	}
	req.Header.Set("Cache-Control", "no-store")
	req.Header.Set("Pragma", "no-cache")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%s: timeout o cancelación: %w", name, ctx.Err())
		}
		return nil, fmt.Errorf("descargar %s: %w", name, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%s: %w", name, domain.ErrNotFound)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, fmt.Errorf("descargar %s: HTTP %d", name, resp.StatusCode)
	}

	if resp.ContentLength > s.maxBytes {
		return nil, tooLarge(name, s.maxBytes)
	}
	// un byte más que el tope distingue "justo en el límite" de "truncado"
	data, err := io.ReadAll(io.LimitReader(resp.Body, s.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("leer respuesta %s: %w", name, err)
	}
	if int64(len(data)) > s.maxBytes {
		return nil, tooLarge(name, s.maxBytes)
	}
	return data, nil
}
