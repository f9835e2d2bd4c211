package picking

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jhoicas/picking-salida/internal/domain"
	"github.com/jhoicas/picking-salida/internal/domain/picking"
)

// ExportResult datos del TXT subido.
type ExportResult struct {
	FileName string
	Folder   string
	Origin   string
	Lines    int
	Cleared  int
}

// Export arma el TXT de la salida y lo sube al endpoint del origen. Si la subida funciona
// se descartan las lecturas exportadas; las que llegaron durante la subida se conservan.
func (s *Session) Export(ctx context.Context) (ExportResult, error) {
	s.mu.Lock()
	events := s.scans.Events()
	meta := s.meta
	s.mu.Unlock()

	if len(events) == 0 {
		return ExportResult{}, domain.ErrNoScans
	}
	origin := strings.ToUpper(strings.TrimSpace(meta.Origen))
	var target string
	ok := false
	if s.uploader != nil {
		target, ok = s.uploader.Target(origin)
	}
	if !ok {
		s.log.Warn().Str("session", s.id).Str("origin", origin).Msg("sin endpoint de subida para el origen")
		return ExportResult{}, fmt.Errorf("origen %q: %w", origin, domain.ErrNoUploadTarget)
	}

	lines := picking.ExportLines(events, s.refs.Current())
	file := ExportFile{
		Content:    strings.Join(lines, "\n"),
		FileName:   picking.ExportFilename(meta, s.localNow()),
		FolderName: picking.ExportFolder(meta),
		MimeType:   "text/plain",
	}
	if err := s.uploader.Upload(ctx, target, file); err != nil {
		s.log.Warn().Str("session", s.id).Str("file", file.FileName).Err(err).Msg("falló la subida del TXT")
		if !errors.Is(err, domain.ErrUploadFailed) {
			err = fmt.Errorf("%w: %v", domain.ErrUploadFailed, err)
		}
		return ExportResult{}, err
	}

	s.mu.Lock()
	cleared := s.scans.DropThrough(events[len(events)-1].ID)
	s.mu.Unlock()

	s.log.Info().
		Str("session", s.id).
		Str("file", file.FileName).
		Str("folder", file.FolderName).
		Str("origin", origin).
		Int("lines", len(lines)).
		Msg("TXT subido")

	return ExportResult{
		FileName: file.FileName,
		Folder:   file.FolderName,
		Origin:   origin,
		Lines:    len(lines),
		Cleared:  cleared,
	}, nil
}

// PickListPDF hoja de picking con el conteo por artículo.
func (s *Session) PickListPDF(ctx context.Context) ([]byte, error) {
	s.mu.Lock()
	events := s.scans.Events()
	meta := s.meta
	s.mu.Unlock()

	if len(events) == 0 {
		return nil, domain.ErrNoScans
	}
	if s.pdf == nil {
		return nil, errors.New("generador de PDF no configurado")
	}
	sum := buildSummary(events, s.refs.Current())
	doc, err := s.pdf.GeneratePickListPDF(ctx, PickList{
		Meta:        meta,
		Groups:      sum.Groups,
		TotalScans:  sum.TotalScans,
		Unmatched:   sum.Unmatched,
		GeneratedAt: s.localNow(),
	})
	if err != nil {
		return nil, fmt.Errorf("hoja de picking: %w", err)
	}
	return doc, nil
}
