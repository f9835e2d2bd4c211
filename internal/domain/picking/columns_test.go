package picking_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/picking-salida/internal/domain/picking"
)

func TestNormalizeHeader(t *testing.T) {
	cases := map[string]string{
		"Código":           "codigo",
		"Descripción_2":    "descripcion2",
		"  ARTÍCULO ":      "articulo",
		"C\ufffddigo":      "cdigo",
		"Código de barras": "codigodebarras",
	}
	for in, want := range cases {
		assert.Equal(t, want, picking.NormalizeHeader(in), in)
	}
}

func TestNormalizeHeader_Concurrente(t *testing.T) {
	headers := map[string]string{
		"Código":        "codigo",
		"Artículo":      "articulo",
		"Descripción_2": "descripcion2",
		"Tamaño":        "tamano",
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	var wrong []string
	for g := 0; g < 16; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				for in, want := range headers {
					if got := picking.NormalizeHeader(in); got != want {
						mu.Lock()
						wrong = append(wrong, in+" -> "+got)
						mu.Unlock()
					}
				}
			}
		}()
	}
	wg.Wait()
	assert.Empty(t, wrong)
}

func TestResolveColumn_ExactoAntesQueNormalizado(t *testing.T) {
	col, ok := picking.ResolveColumn([]string{"Código", "codigo"}, picking.CodeAliases)
	assert.True(t, ok)
	assert.Equal(t, "codigo", col, "la coincidencia exacta tiene prioridad")
}

func TestResolveColumn_IgualdadNormalizadaPorOrdenDeAlias(t *testing.T) {
	// "codigo_barras" está antes que "codigo" en los alias
	col, ok := picking.ResolveColumn([]string{"CODIGO", "Codigo Barras"}, picking.CodeAliases)
	assert.True(t, ok)
	assert.Equal(t, "Codigo Barras", col)
}

func TestResolveColumn_EncabezadoMalCodificado(t *testing.T) {
	col, ok := picking.ResolveColumn([]string{"Art\ufffdculo", "C\ufffddigo"}, picking.CodeAliases)
	assert.True(t, ok)
	assert.Equal(t, "C\ufffddigo", col)

	col, ok = picking.ResolveColumn([]string{"art\u00c3\u00adculo", "c\u00c3\u00b3digo"}, picking.ArticleAliases)
	assert.True(t, ok)
	assert.Equal(t, "art\u00c3\u00adculo", col)
}

func TestResolveColumn_Contencion(t *testing.T) {
	col, ok := picking.ResolveColumn([]string{"Nombre", "Código de barras EAN13"}, picking.CodeAliases)
	assert.True(t, ok)
	assert.Equal(t, "Código de barras EAN13", col)
}

func TestResolveColumn_SinCoincidencia(t *testing.T) {
	_, ok := picking.ResolveColumn([]string{"Nombre", "Precio"}, picking.ArticleAliases)
	assert.False(t, ok)
}

func TestResolveRoles_DescripcionDuplicada(t *testing.T) {
	roles := picking.ResolveRoles([]string{"Artículo", "Código", "Descripción", "Descripción_2"})
	assert.Equal(t, "Código", roles.Code)
	assert.True(t, roles.CodeResolved)
	assert.Equal(t, "Artículo", roles.Article)
	assert.Equal(t, "Descripción", roles.Description)
	assert.Equal(t, "Descripción_2", roles.Description2)
}

func TestResolveRoles_PrimeraColumnaPorDescarte(t *testing.T) {
	roles := picking.ResolveRoles([]string{"Interno", "Nombre"})
	assert.Equal(t, "Interno", roles.Code)
	assert.False(t, roles.CodeResolved)
	assert.Empty(t, roles.Article)
}

func TestResolveRoles_SinColumnas(t *testing.T) {
	assert.Equal(t, picking.Roles{}, picking.ResolveRoles(nil))
}

func TestColorSize_ColumnasExplicitas(t *testing.T) {
	tbl := picking.ParseTable("EAN;Color;Talle\n123;ROJO;42")
	color, size := tbl.Rows[0].ColorSize()
	assert.Equal(t, "ROJO", color)
	assert.Equal(t, "42", size)
}

func TestColorSize_DescripcionVaciaUsaColor(t *testing.T) {
	tbl := picking.ParseTable("EAN;Descripción;Descripción;Color\n123;;38;AZUL")
	color, size := tbl.Rows[0].ColorSize()
	assert.Equal(t, "AZUL", color)
	assert.Equal(t, "38", size)
}
