package picking_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/picking-salida/internal/domain/picking"
)

func named(name, text string) picking.NamedTable {
	return picking.NamedTable{Name: name, Table: picking.ParseTable(text)}
}

func TestBuildIndex_PrimeraTablaGana(t *testing.T) {
	a := named("equivalencia.csv", "Código;Artículo\nABC123;A-1")
	b := named("equivalencia2.csv", "Código;Artículo\n abc123 ;B-2\nZZZ9;B-9")

	ix := picking.BuildIndex([]picking.NamedTable{a, b})
	row, ok := ix.Lookup("abc123")
	require.True(t, ok)
	assert.Equal(t, "A-1", row.Article())

	// el orden de la lista manda, no el contenido
	ix = picking.BuildIndex([]picking.NamedTable{b, a})
	row, ok = ix.Lookup("ABC123")
	require.True(t, ok)
	assert.Equal(t, "B-2", row.Article())

	assert.Equal(t, 2, ix.Len())
	assert.Equal(t, 3, ix.Rows())
	assert.Equal(t, []string{"equivalencia2.csv", "equivalencia.csv"}, ix.Tables())
}

func TestBuildIndex_DentroDeUnaTablaGanaLaPrimeraFila(t *testing.T) {
	ix := picking.BuildIndex([]picking.NamedTable{
		named("t.csv", "EAN,Artículo\n111,PRIMERO\n111,SEGUNDO"),
	})
	row, ok := ix.Lookup("111")
	require.True(t, ok)
	assert.Equal(t, "PRIMERO", row.Article())
}

func TestBuildIndex_CodigosVaciosSeOmiten(t *testing.T) {
	ix := picking.BuildIndex([]picking.NamedTable{
		named("t.csv", "EAN;Artículo\n   ;SIN-CODIGO\n222;CON-CODIGO"),
	})
	assert.Equal(t, 1, ix.Len())
	_, ok := ix.Lookup("")
	assert.False(t, ok)
}

func TestBuildIndex_PrimeraColumnaPorDescarte(t *testing.T) {
	ix := picking.BuildIndex([]picking.NamedTable{
		named("raro.csv", "Interno;Nombre\nX-1;Remera"),
		named("bien.csv", "Código;Artículo\n999;50-1"),
	})
	_, ok := ix.Lookup("x-1")
	assert.True(t, ok, "sin alias reconocible se indexa por la primera columna")
	assert.Equal(t, []string{"raro.csv"}, ix.FallbackTables())
}

func TestBuildIndex_TablasVacias(t *testing.T) {
	ix := picking.BuildIndex([]picking.NamedTable{named("vacia.csv", ""), named("encabezado.csv", "Código")})
	assert.Equal(t, 0, ix.Len())
	assert.Empty(t, ix.FallbackTables())
}

func TestReferenceIndex_NilSeComportaComoVacio(t *testing.T) {
	var ix *picking.ReferenceIndex
	_, ok := ix.Lookup("ABC")
	assert.False(t, ok)
	assert.Equal(t, 0, ix.Len())
	assert.Nil(t, ix.Tables())
}
