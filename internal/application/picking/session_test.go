package picking_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apppicking "github.com/jhoicas/picking-salida/internal/application/picking"
	"github.com/jhoicas/picking-salida/internal/domain"
	"github.com/jhoicas/picking-salida/internal/domain/entity"
	"github.com/jhoicas/picking-salida/pkg/logger"
)

var testCatalog = entity.Catalog{
	Responsables: []string{"JOEL", "DIEGO"},
	Sucursales:   []string{"SARMIENTO", "NAZCA", "AV2"},
}

type fixture struct {
	mgr      *apppicking.SessionManager
	refs     *apppicking.ReferenceCatalog
	source   *fakeSource
	uploader *fakeUploader
	meta     *memMeta
	pdf      *fakePDF
	clock    *clockwork.FakeClock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		source:   newSource(),
		uploader: &fakeUploader{targets: map[string]string{"SARMIENTO": "https://script.example/exec"}},
		meta:     newMemMeta(),
		pdf:      &fakePDF{},
		clock:    clockwork.NewFakeClockAt(time.Date(2025, 3, 7, 9, 30, 0, 0, time.Local)),
	}
	f.refs = apppicking.NewReferenceCatalog(
		apppicking.NewLoader(f.source, textDecoder{}, logger.Nop()),
		[]string{"equivalencia.csv", "equivalencia2.csv"},
	)
	_, err := f.refs.Reload(context.Background())
	require.NoError(t, err)

	f.newManager(apppicking.SessionConfig{
		Idle:    80 * time.Millisecond,
		MinLen:  3,
		Catalog: testCatalog,
	})
	return f
}

func (f *fixture) newManager(cfg apppicking.SessionConfig) {
	f.mgr = apppicking.NewSessionManager(cfg, apppicking.ManagerDeps{
		References: f.refs,
		Meta:       f.meta,
		Uploader:   f.uploader,
		PDF:        f.pdf,
		Clock:      f.clock,
		Logger:     logger.Nop(),
	})
}

func (f *fixture) session(t *testing.T) *apppicking.Session {
	t.Helper()
	s, err := f.mgr.Create(context.Background(), "puesto-1")
	require.NoError(t, err)
	return s
}

// ── Lecturas ─────────────────────────────────────────────────────────────────

func TestSession_ScanClasifica(t *testing.T) {
	f := newFixture(t)
	s := f.session(t)

	hit, err := s.Scan(" x1 ")
	require.NoError(t, err)
	assert.True(t, hit.Matched)
	assert.Equal(t, "x1", hit.RawCode)

	miss, err := s.Scan("ZZZ")
	require.NoError(t, err)
	assert.False(t, miss.Matched)

	_, err = s.Scan("  ")
	assert.ErrorIs(t, err, domain.ErrEmptyScan)
	assert.Equal(t, 2, s.Info().Scans)
}

func TestSession_RecargaNoCambiaEventosPrevios(t *testing.T) {
	f := newFixture(t)
	s := f.session(t)

	before, err := s.Scan("NUEVO")
	require.NoError(t, err)
	require.False(t, before.Matched)

	f.source.set("equivalencia2.csv", "EAN;Artículo\nNUEVO;70-1")
	_, err = f.refs.Reload(context.Background())
	require.NoError(t, err)

	after, err := s.Scan("NUEVO")
	require.NoError(t, err)
	assert.True(t, after.Matched)

	all := s.Scans(0)
	require.Len(t, all, 2)
	assert.True(t, all[0].Matched)
	assert.False(t, all[1].Matched)
}

func TestSession_InputConEnterConfirma(t *testing.T) {
	f := newFixture(t)
	s := f.session(t)

	res, err := s.Input("X", false)
	require.NoError(t, err)
	assert.Equal(t, "accumulating", res.State)
	assert.Equal(t, "X", res.Buffer)

	res, err = s.Input("1", true)
	require.NoError(t, err)
	require.NotNil(t, res.Event)
	assert.Equal(t, "X1", res.Event.RawCode)
	assert.True(t, res.Event.Matched)
	assert.Equal(t, "idle", res.State)
	assert.Empty(t, res.Buffer)
}

func TestSession_InputConEnterRegistraUnaSolaVez(t *testing.T) {
	f := newFixture(t)
	s := f.session(t)

	_, err := s.Input("X1Z", false)
	require.NoError(t, err)
	_, err = s.Input("", true)
	require.NoError(t, err)
	f.clock.Advance(time.Second)

	assert.Never(t, func() bool { return len(s.Scans(0)) != 1 }, 50*time.Millisecond, 5*time.Millisecond)
	assert.Equal(t, "X1Z", s.Scans(0)[0].RawCode)
}

func TestSession_InputEnterVacio(t *testing.T) {
	f := newFixture(t)
	s := f.session(t)

	_, err := s.Input("", true)
	assert.ErrorIs(t, err, domain.ErrEmptyScan)
	assert.Empty(t, s.Scans(0))
}

func TestSession_InputConfirmaPorInactividad(t *testing.T) {
	f := newFixture(t)
	s := f.session(t)

	_, err := s.Input("X1", false)
	require.NoError(t, err)
	_, err = s.Input("Z", false)
	require.NoError(t, err)
	f.clock.Advance(80 * time.Millisecond)

	require.Eventually(t, func() bool { return len(s.Scans(0)) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, "X1Z", s.Scans(0)[0].RawCode)
}

func TestSession_InputIncompletoNoSeConfirma(t *testing.T) {
	f := newFixture(t)
	s := f.session(t)

	_, err := s.Input("X", false)
	require.NoError(t, err)
	f.clock.Advance(time.Second)

	assert.Never(t, func() bool { return len(s.Scans(0)) > 0 }, 50*time.Millisecond, 5*time.Millisecond)
	assert.Equal(t, "X", s.Info().Buffer)
}

func TestSession_DeleteYReset(t *testing.T) {
	f := newFixture(t)
	s := f.session(t)
	a, _ := s.Scan("X1")
	s.Scan("X1")
	s.Scan("X5")

	require.NoError(t, s.DeleteScan(a.ID))
	assert.ErrorIs(t, s.DeleteScan(a.ID), domain.ErrNotFound)
	assert.Len(t, s.Scans(0), 2)

	s.Input("AB", false)
	s.Reset()
	assert.Empty(t, s.Scans(0))
	assert.Empty(t, s.Info().Buffer)

	next, err := s.Scan("X1")
	require.NoError(t, err)
	assert.Greater(t, next.ID, a.ID, "los ids no se reutilizan después de un reset")
}

func TestSession_RecentLimitaADiez(t *testing.T) {
	f := newFixture(t)
	s := f.session(t)
	for i := 0; i < 15; i++ {
		s.Scan("X1")
	}
	recent := s.Recent()
	require.Len(t, recent, apppicking.DefaultRecent)
	assert.Equal(t, int64(15), recent[0].ID)
	assert.Len(t, s.Scans(3), 3)
}

// ── Conteo ───────────────────────────────────────────────────────────────────

func TestSession_Summary(t *testing.T) {
	f := newFixture(t)
	s := f.session(t)
	s.Scan("X1")
	s.Scan("X1")
	s.Scan("X2")

	sum := s.Summary()
	assert.Equal(t, 3, sum.TotalScans)
	assert.Equal(t, 2, sum.Matched)
	assert.Equal(t, 1, sum.Unmatched)
	require.Len(t, sum.Groups, 2)
	assert.Equal(t, "50-5000 BLANCO 85", sum.Groups[0].Label)
	assert.Equal(t, 2, sum.Groups[0].Total)
	assert.Equal(t, "X2", sum.Groups[1].Label)
}

// ── Cabecera ─────────────────────────────────────────────────────────────────

func TestSession_UpdateMeta(t *testing.T) {
	f := newFixture(t)
	s := f.session(t)

	m, err := s.UpdateMeta(context.Background(), entity.SessionMeta{
		Responsable: "joel", Origen: "sarmiento", Destino: "Nazca", Bultos: "3 bultos", Remito: "R-12.34",
	})
	require.NoError(t, err)
	assert.Equal(t, "JOEL", m.Responsable)
	assert.Equal(t, "NAZCA", m.Destino)
	assert.Equal(t, "3", m.Bultos)
	assert.Equal(t, "1234", m.Remito)
	assert.Equal(t, "puesto-1", m.Station)
	assert.Equal(t, m, s.Meta())
	assert.Equal(t, 1, f.meta.saves)
}

func TestSession_UpdateMetaFueraDeCatalogo(t *testing.T) {
	f := newFixture(t)
	s := f.session(t)

	_, err := s.UpdateMeta(context.Background(), entity.SessionMeta{Responsable: "NADIE"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = s.UpdateMeta(context.Background(), entity.SessionMeta{Destino: "MARTE"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, 0, f.meta.saves)
}

func TestSession_UpdateMetaFallaPersistencia(t *testing.T) {
	f := newFixture(t)
	f.meta.err = errors.New("db caída")
	s := f.session(t)

	m, err := s.UpdateMeta(context.Background(), entity.SessionMeta{Responsable: "DIEGO"})
	require.NoError(t, err)
	assert.Equal(t, "DIEGO", s.Meta().Responsable)
	assert.Equal(t, m, s.Meta())
}

// ── Exportación ──────────────────────────────────────────────────────────────

func exportable(t *testing.T, f *fixture) *apppicking.Session {
	t.Helper()
	s := f.session(t)
	_, err := s.UpdateMeta(context.Background(), entity.SessionMeta{
		Responsable: "JOEL", Origen: "SARMIENTO", Destino: "NAZCA", Bultos: "3", Remito: "1234",
	})
	require.NoError(t, err)
	return s
}

func TestSession_ExportSinLecturas(t *testing.T) {
	f := newFixture(t)
	s := exportable(t, f)

	_, err := s.Export(context.Background())
	assert.ErrorIs(t, err, domain.ErrNoScans)
	assert.Empty(t, f.uploader.files)
}

func TestSession_ExportSinEndpoint(t *testing.T) {
	f := newFixture(t)
	s := f.session(t)
	_, err := s.UpdateMeta(context.Background(), entity.SessionMeta{Origen: "NAZCA"})
	require.NoError(t, err)
	s.Scan("X1")

	_, err = s.Export(context.Background())
	assert.ErrorIs(t, err, domain.ErrNoUploadTarget)
	assert.Len(t, s.Scans(0), 1, "las lecturas se conservan")
}

func TestSession_Export(t *testing.T) {
	f := newFixture(t)
	s := exportable(t, f)
	s.Scan("X1")
	s.Scan("ZZZ")
	s.Scan("x5")

	res, err := s.Export(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "250307 NAZCA JOEL 3B REM1234.txt", res.FileName)
	assert.Equal(t, "NAZCA", res.Folder)
	assert.Equal(t, "SARMIENTO", res.Origin)
	assert.Equal(t, 3, res.Lines)
	assert.Equal(t, 3, res.Cleared)
	assert.Empty(t, s.Scans(0))

	require.Len(t, f.uploader.files, 1)
	file := f.uploader.files[0]
	assert.Equal(t, "60-1\nZZZ\n50-5000", file.Content)
	assert.Equal(t, "text/plain", file.MimeType)
	assert.Equal(t, res.FileName, file.FileName)
}

func TestSession_ExportFechaEnLaZonaConfigurada(t *testing.T) {
	f := newFixture(t)
	// 01:00 UTC del 8 es todavía el 7 en Buenos Aires
	f.clock = clockwork.NewFakeClockAt(time.Date(2025, 3, 8, 1, 0, 0, 0, time.UTC))
	f.newManager(apppicking.SessionConfig{
		Catalog:  testCatalog,
		Location: time.FixedZone("ART", -3*3600),
	})
	s := exportable(t, f)
	s.Scan("X1")

	res, err := s.Export(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "250307 NAZCA JOEL 3B REM1234.txt", res.FileName)

	s.Scan("X1")
	_, err = s.PickListPDF(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 22, f.pdf.last.GeneratedAt.Hour())
}

func TestSession_ExportFallaLaSubida(t *testing.T) {
	f := newFixture(t)
	f.uploader.err = errors.New("connection refused")
	s := exportable(t, f)
	s.Scan("X1")

	_, err := s.Export(context.Background())
	assert.ErrorIs(t, err, domain.ErrUploadFailed)
	assert.True(t, strings.Contains(err.Error(), "connection refused"))
	assert.Len(t, s.Scans(0), 1, "sin subida no se borra nada")
}

func TestSession_ExportConservaLecturasDuranteLaSubida(t *testing.T) {
	f := newFixture(t)
	s := exportable(t, f)
	s.Scan("X1")
	f.uploader.before = func() { s.Scan("X5") }

	res, err := s.Export(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Lines)

	left := s.Scans(0)
	require.Len(t, left, 1)
	assert.Equal(t, "X5", left[0].RawCode)
}

// ── Hoja de picking ──────────────────────────────────────────────────────────

func TestSession_PickListPDF(t *testing.T) {
	f := newFixture(t)
	s := exportable(t, f)

	_, err := s.PickListPDF(context.Background())
	assert.ErrorIs(t, err, domain.ErrNoScans)

	s.Scan("X1")
	s.Scan("NOPE")
	doc, err := s.PickListPDF(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, doc)
	assert.Equal(t, 2, f.pdf.last.TotalScans)
	assert.Equal(t, 1, f.pdf.last.Unmatched)
	assert.Equal(t, "NAZCA", f.pdf.last.Meta.Destino)
	assert.Len(t, f.pdf.last.Groups, 2)
}
