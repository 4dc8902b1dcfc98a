package providers_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dparodi/hacienda/internal/extract"
	"github.com/dparodi/hacienda/internal/extract/dbftable"
	"github.com/dparodi/hacienda/internal/report/providers"
	"github.com/dparodi/hacienda/internal/schema"
)

type col struct {
	name   string
	length int
}

var proveedCols = []col{
	{"CODIGO", 6},
	{"RAZON", 30},
	{"CUIT", 13},
	{"DOMICIL", 30},
	{"LOCALIDAD", 20},
	{"CONDIVA", 2},
}

// writeProveed emits a minimal dBase III PROVEED.DBF with the given rows.
func writeProveed(t *testing.T, dir string, rows [][]string) {
	t.Helper()

	recordLen := 1
	for _, c := range proveedCols {
		recordLen += c.length
	}

	headerLen := 32 + 32*len(proveedCols) + 1

	buf := make([]byte, 32)
	buf[0] = 0x03
	buf[1], buf[2], buf[3] = 24, 1, 1
	buf[4] = byte(len(rows))
	buf[8], buf[9] = byte(headerLen), byte(headerLen>>8)
	buf[10], buf[11] = byte(recordLen), byte(recordLen>>8)

	for _, c := range proveedCols {
		desc := make([]byte, 32)
		copy(desc[0:11], c.name)
		desc[11] = 'C'
		desc[16] = byte(c.length)
		buf = append(buf, desc...)
	}

	buf = append(buf, 0x0D)

	for _, row := range rows {
		rec := make([]byte, recordLen)
		for i := range rec {
			rec[i] = ' '
		}

		off := 1
		for i, c := range proveedCols {
			if i < len(row) {
				copy(rec[off:off+c.length], row[i])
			}

			off += c.length
		}

		buf = append(buf, rec...)
	}

	buf = append(buf, 0x1A)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "PROVEED.DBF"), buf, 0o644))
}

func TestFromTable(t *testing.T) {
	dir := t.TempDir()

	writeProveed(t, dir, [][]string{
		{"0001", "LIMPIEZA TOTAL SA", "30123456789", "SAN MARTIN 100", "RAWSON", "RI"},
		{"0002", "VIGILANCIA SUR SRL", "", "", "TRELEW", "MT"},
	})

	recs, err := providers.FromTable(context.Background(), dbftable.NewReader(dir, ""))
	require.NoError(t, err)
	require.Len(t, recs, 2)

	first := recs[0]
	assert.Equal(t, "0001", first["codigo"])
	assert.Equal(t, "LIMPIEZA TOTAL SA", first["razon_social"])
	assert.Equal(t, "30123456789", first["cuit"])
	assert.Equal(t, "SAN MARTIN 100", first["domicilio"])
	assert.Equal(t, "RAWSON", first["localidad"])
	assert.Equal(t, "RI", first["condicion_iva"])

	// Empty DBF cells become explicit nil fields.
	assert.Nil(t, recs[1]["cuit"])
	assert.Nil(t, recs[1]["domicilio"])
}

func TestFromTable_DuplicateCodigo(t *testing.T) {
	dir := t.TempDir()

	writeProveed(t, dir, [][]string{
		{"0001", "PRIMERA CARGA SA", "", "", "", ""},
		{"0001", "SEGUNDA CARGA SA", "", "", "", ""},
	})

	recs, err := providers.FromTable(context.Background(), dbftable.NewReader(dir, ""))
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "PRIMERA CARGA SA", recs[0]["razon_social"])
}

func TestFromTable_ValidatesCleanly(t *testing.T) {
	dir := t.TempDir()

	writeProveed(t, dir, [][]string{
		{"0001", "LIMPIEZA TOTAL SA", "30123456789", "SAN MARTIN 100", "RAWSON", "RI"},
	})

	recs, err := providers.FromTable(context.Background(), dbftable.NewReader(dir, ""))
	require.NoError(t, err)

	out, err := schema.Validate(recs, providers.Schema())
	require.NoError(t, err)
	assert.Len(t, out.Validated, 1)
	assert.Empty(t, out.Errors)
}

func TestFromTable_MissingTable(t *testing.T) {
	_, err := providers.FromTable(context.Background(), dbftable.NewReader(t.TempDir(), ""))
	assert.ErrorIs(t, err, extract.ErrNotFound)
}
