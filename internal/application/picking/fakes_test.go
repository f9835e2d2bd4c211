package picking_test

import (
	"context"
	"errors"
	"fmt"
	"sync"

	apppicking "github.com/jhoicas/picking-salida/internal/application/picking"
	"github.com/jhoicas/picking-salida/internal/domain"
	"github.com/jhoicas/picking-salida/internal/domain/entity"
	"github.com/jhoicas/picking-salida/internal/domain/picking"
)

// ── Fakes de los puertos ─────────────────────────────────────────────────────

type fakeSource struct {
	mu    sync.Mutex
	files map[string]string
	reads []string
}

func (f *fakeSource) Read(_ context.Context, name string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads = append(f.reads, name)
	data, ok := f.files[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, domain.ErrNotFound)
	}
	return []byte(data), nil
}

func (f *fakeSource) set(name, data string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.files[name] = data
}

type textDecoder struct{}

func (textDecoder) Decode(name string, data []byte) (picking.Table, error) {
	switch name {
	case "roto.xlsx":
		return picking.Table{}, errors.New("formato no soportado")
	case "corrupto.xls":
		panic("índice fuera de rango")
	}
	return picking.ParseTable(string(data)), nil
}

type fakeUploader struct {
	mu      sync.Mutex
	targets map[string]string
	files   []apppicking.ExportFile
	err     error
	before  func()
}

func (f *fakeUploader) Target(origin string) (string, bool) {
	t, ok := f.targets[origin]
	return t, ok
}

func (f *fakeUploader) Upload(_ context.Context, _ string, file apppicking.ExportFile) error {
	if f.before != nil {
		f.before()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.files = append(f.files, file)
	return nil
}

type memMeta struct {
	mu    sync.Mutex
	data  map[string]entity.SessionMeta
	err   error
	saves int
}

func newMemMeta() *memMeta { return &memMeta{data: make(map[string]entity.SessionMeta)} }

func (m *memMeta) Get(_ context.Context, station string) (*entity.SessionMeta, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[station]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &v, nil
}

func (m *memMeta) Save(_ context.Context, station string, meta entity.SessionMeta) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.saves++
	m.data[station] = meta
	return nil
}

type fakePDF struct {
	last apppicking.PickList
}

func (f *fakePDF) GeneratePickListPDF(_ context.Context, list apppicking.PickList) ([]byte, error) {
	f.last = list
	return []byte("%PDF-1.3 fake"), nil
}
