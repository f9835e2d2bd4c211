// reconcile concilia un archivo de lecturas contra las tablas de equivalencia sin levantar
// el servidor: imprime las líneas del TXT y el conteo por artículo, y opcionalmente escribe
// el TXT de la salida.
//
// Uso: go run ./cmd/reconcile [-out dir] [-destino X -responsable Y -bultos N -remito N] [lecturas.txt]
// Sin archivo lee de la entrada estándar, una lectura por línea. Las tablas se toman de
// PICKING_REFERENCE_DIR / PICKING_REFERENCE_FILES (o PICKING_REFERENCE_BASE_URL).
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	apppicking "github.com/jhoicas/picking-salida/internal/application/picking"
	"github.com/jhoicas/picking-salida/internal/domain/entity"
	"github.com/jhoicas/picking-salida/internal/domain/picking"
	"github.com/jhoicas/picking-salida/internal/infrastructure/reference"
	"github.com/jhoicas/picking-salida/pkg/config"
	"github.com/jhoicas/picking-salida/pkg/logger"
)

type options struct {
	outDir string
	meta   entity.SessionMeta
	now    time.Time
}

type result struct {
	report  apppicking.LoadReport
	events  []entity.ScanEvent
	groups  []picking.ArticleGroup
	lines   []string
	txtPath string
}

func main() {
	var opts options
	flag.StringVar(&opts.outDir, "out", "", "directorio donde escribir el TXT (vacío = no escribir)")
	flag.StringVar(&opts.meta.Destino, "destino", "", "sucursal destino")
	flag.StringVar(&opts.meta.Responsable, "responsable", "", "responsable de la salida")
	flag.StringVar(&opts.meta.Bultos, "bultos", "", "cantidad de bultos")
	flag.StringVar(&opts.meta.Remito, "remito", "", "número de remito")
	flag.Parse()
	opts.meta = opts.meta.Sanitize()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	opts.now = time.Now().In(cfg.Picking.Location)
	log := logger.New(logger.Config{Env: "development", Level: cfg.App.LogLevel, Output: os.Stderr})

	var in io.Reader = os.Stdin
	if flag.NArg() > 0 {
		f, err := os.Open(flag.Arg(0))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Abrir lecturas: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		in = f
	}

	var source apppicking.ReferenceSource = reference.NewDirSource(cfg.Picking.ReferenceDir).WithMaxBytes(cfg.Picking.ReferenceMaxSize)
	if cfg.Picking.ReferenceBaseURL != "" {
		source = reference.NewHTTPSource(cfg.Picking.ReferenceBaseURL, 30*time.Second).WithMaxBytes(cfg.Picking.ReferenceMaxSize)
	}
	loader := apppicking.NewLoader(source, reference.NewDecoder(), log)

	res, err := run(context.Background(), loader, cfg.Picking.ReferenceFiles, in, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Conciliar: %v\n", err)
		os.Exit(1)
	}
	printSummary(os.Stdout, res)
}

// run carga las tablas, registra cada línea de in como lectura y, si hay directorio de salida,
// escribe el TXT con el mismo contenido y nombre que la exportación del servidor.
func run(ctx context.Context, loader *apppicking.Loader, files []string, in io.Reader, opts options) (result, error) {
	ix, report := loader.Load(ctx, files)
	res := result{report: report}

	scans := picking.NewScanLog(0)
	sc := bufio.NewScanner(in)
	for sc.Scan() {
		// las líneas vacías no son lecturas
		if _, err := scans.Record(ix, sc.Text(), opts.now); err != nil {
			continue
		}
	}
	if err := sc.Err(); err != nil {
		return res, fmt.Errorf("leer lecturas: %w", err)
	}

	res.events = scans.Events()
	res.groups = picking.BuildArticleSummary(res.events, ix)
	res.lines = picking.ExportLines(res.events, ix)

	if opts.outDir == "" || len(res.events) == 0 {
		return res, nil
	}
	path := filepath.Join(opts.outDir, picking.ExportFilename(opts.meta, opts.now))
	if err := os.WriteFile(path, []byte(strings.Join(res.lines, "\n")), 0o644); err != nil {
		return res, fmt.Errorf("escribir TXT: %w", err)
	}
	res.txtPath = path
	return res, nil
}

func printSummary(w io.Writer, res result) {
	fmt.Fprintf(w, "Equivalencias: %d/%d OK (%d códigos)\n", res.report.Loaded, res.report.Total, res.report.Codes)
	for _, f := range res.report.Files {
		if !f.OK {
			fmt.Fprintf(w, "  %s: %s\n", f.Name, f.Error)
		}
	}

	matched := 0
	for _, ev := range res.events {
		if ev.Matched {
			matched++
		}
	}
	fmt.Fprintf(w, "Lecturas: %d (%d sin equivalencia)\n\n", len(res.events), len(res.events)-matched)

	for _, g := range res.groups {
		fmt.Fprintf(w, "%5d  %s\n", g.Total, g.Label)
		for _, v := range g.Variants {
			fmt.Fprintf(w, "         %s ×%d\n", v.Label, v.Count)
		}
	}

	if len(res.lines) > 0 {
		fmt.Fprintf(w, "\nTXT (%d líneas):\n", len(res.lines))
		for _, l := range res.lines {
			fmt.Fprintln(w, l)
		}
	}
	if res.txtPath != "" {
		fmt.Fprintf(w, "\nGenerado %s\n", res.txtPath)
	}
}
