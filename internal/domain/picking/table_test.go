package picking_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/picking-salida/internal/domain/picking"
)

// ──────────────────────────────────────────────────────────────────────────────
// Detección de delimitador
// ──────────────────────────────────────────────────────────────────────────────

func TestDetectDelimiter_GanaElDeMayorPuntaje(t *testing.T) {
	assert.Equal(t, ';', picking.DetectDelimiter("a,b;c;d", "x;y"))
	assert.Equal(t, '|', picking.DetectDelimiter("a|b|c", "d|e,f"))
	assert.Equal(t, '\t', picking.DetectDelimiter("a\tb\tc", ""))
}

func TestDetectDelimiter_EmpatePorPrioridad(t *testing.T) {
	// una coma y un punto y coma: gana la coma por prioridad
	assert.Equal(t, ',', picking.DetectDelimiter("a,b;c", ""))
	assert.Equal(t, ';', picking.DetectDelimiter("a;b|c", ""))
}

func TestDetectDelimiter_SinCandidatosUsaPuntoYComa(t *testing.T) {
	assert.Equal(t, ';', picking.DetectDelimiter("solo una columna", "otra"))
	assert.Equal(t, ';', picking.DetectDelimiter("", ""))
}

func TestDetectDelimiter_IgnoraDelimitadoresEntreComillas(t *testing.T) {
	// tres ';' dentro de comillas no cuentan; la coma queda sola
	assert.Equal(t, ',', picking.DetectDelimiter(`"a;b;c;d",e`, ""))
	// la comilla doble escapada no cierra el campo
	assert.Equal(t, ',', picking.DetectDelimiter(`"x "";"" y",z`, ""))
}

// ──────────────────────────────────────────────────────────────────────────────
// SplitLine
// ──────────────────────────────────────────────────────────────────────────────

func TestSplitLine_Comillas(t *testing.T) {
	assert.Equal(t, []string{`x "y"`, "z"}, picking.SplitLine(`"x ""y""",z`, ','))
	assert.Equal(t, []string{"a;b", "c"}, picking.SplitLine(`"a;b";c`, ';'))
	assert.Equal(t, []string{"", "", ""}, picking.SplitLine(",,", ','))
}

func TestSplitLine_ComillaSinCerrarLlegaAlFinal(t *testing.T) {
	assert.Equal(t, []string{"a", "b,c"}, picking.SplitLine(`a,"b,c`, ','))
}

// ──────────────────────────────────────────────────────────────────────────────
// ParseTable
// ──────────────────────────────────────────────────────────────────────────────

func TestParseTable_EncabezadosRepetidos(t *testing.T) {
	tbl := picking.ParseTable("Color,Size,Color\nrojo,M,azul\n")

	assert.Equal(t, []string{"Color", "Size", "Color_2"}, tbl.Columns)
	require.Len(t, tbl.Rows, 1)
	assert.Equal(t, "rojo", tbl.Rows[0].Get("Color"))
	assert.Equal(t, "M", tbl.Rows[0].Get("Size"))
	assert.Equal(t, "azul", tbl.Rows[0].Get("Color_2"))
	assert.Equal(t, []string{"Color", "Size", "Color_2"}, tbl.Rows[0].Columns())
}

func TestParseTable_SufijosLibres(t *testing.T) {
	tbl := picking.ParseTable("A;A;A;A_2;;\n1;2;3;4;5;6")
	assert.Equal(t, []string{"A", "A_2", "A_3", "A_2_2", "COL", "COL_2"}, tbl.Columns)
}

func TestParseTable_CeldasFaltantesYRecortes(t *testing.T) {
	tbl := picking.ParseTable("Código;Artículo;Descripción\r\n  779123 ; 50-5000 \r\n\r\n779124;50-5001;NEGRO;extra\r\n")

	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, "779123", tbl.Rows[0].Get("Código"))
	assert.Equal(t, "50-5000", tbl.Rows[0].Get("Artículo"))
	assert.Equal(t, "", tbl.Rows[0].Get("Descripción"))

	v, ok := tbl.Rows[1].Lookup("Descripción")
	assert.True(t, ok)
	assert.Equal(t, "NEGRO", v)
	assert.Len(t, tbl.Rows[1].Values(), 3, "las celdas sobrantes se descartan")

	_, ok = tbl.Rows[1].Lookup("No existe")
	assert.False(t, ok)
}

func TestParseTable_TextoVacio(t *testing.T) {
	assert.Empty(t, picking.ParseTable("").Rows)
	assert.Empty(t, picking.ParseTable("\n\r\n").Columns)
}

func TestParseTable_SoloEncabezado(t *testing.T) {
	tbl := picking.ParseTable("Código,Artículo")
	assert.Equal(t, []string{"Código", "Artículo"}, tbl.Columns)
	assert.Empty(t, tbl.Rows)
}

func TestTableFromRecords_MismaNormalizacion(t *testing.T) {
	tbl := picking.TableFromRecords([][]string{
		{"EAN", " EAN ", "Artículo"},
		{" 123 ", "x"},
	})
	assert.Equal(t, []string{"EAN", "EAN_2", "Artículo"}, tbl.Columns)
	assert.Equal(t, map[string]string{"EAN": "123", "EAN_2": "x", "Artículo": ""}, tbl.Rows[0].Map())
}
