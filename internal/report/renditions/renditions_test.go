package renditions_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dparodi/hacienda/internal/report/renditions"
	"github.com/dparodi/hacienda/internal/schema"
)

const header = "ORIGEN;FECHA;BENEFICIARIO;LIBRAMIENTO;BRUTO;IIBB;SELLOS;SUSS;GCIAS;NETO\n"

func TestFromReader_GeneralLayout(t *testing.T) {
	input := header +
		"TESORERIA;15/03/2024;PROVEEDOR SA;LIB-001;1.000,00;10,00;5,00;20,00;15,00;950,00\n"

	recs, err := renditions.FromReader(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, recs, 1)

	r := recs[0]
	assert.Equal(t, "TESORERIA", r["origen"])
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), r["fecha"])
	assert.Equal(t, "PROVEEDOR SA", r["beneficiario"])
	assert.Equal(t, "LIB-001", r["libramiento"])
	assert.Nil(t, r["obra"])
	assert.InDelta(t, 1000.00, r["importe_bruto"], 0.0001)
	assert.InDelta(t, 50.00, r["retenciones"], 0.0001)
	assert.InDelta(t, 950.00, r["importe_neto"], 0.0001)
	assert.Equal(t, int64(2024), r["ejercicio"])
	assert.Equal(t, int64(3), r["mes"])
}

// The OBRAS layout carries an extra column at position 2 that shifts the rest
// of the row one place right.
func TestFromReader_ObrasLayout(t *testing.T) {
	input := header +
		"OBRAS;20/04/2024;ESCUELA N 12;CONSTRUCTORA SRL;LIB-002;2.000,00;20,00;0,00;40,00;0,00;1.940,00\n"

	recs, err := renditions.FromReader(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, recs, 1)

	r := recs[0]
	assert.Equal(t, "OBRAS", r["origen"])
	assert.Equal(t, "ESCUELA N 12", r["obra"])
	assert.Equal(t, "CONSTRUCTORA SRL", r["beneficiario"])
	assert.Equal(t, "LIB-002", r["libramiento"])
	assert.InDelta(t, 60.00, r["retenciones"], 0.0001)
	assert.InDelta(t, 1940.00, r["importe_neto"], 0.0001)
}

func TestFromReader_MixedLayouts(t *testing.T) {
	input := header +
		"TESORERIA;15/03/2024;PROVEEDOR SA;LIB-001;1.000,00;10,00;5,00;20,00;15,00;950,00\n" +
		"OBRAS;20/04/2024;RUTA 3;CONSTRUCTORA SRL;LIB-002;2.000,00;20,00;0,00;40,00;0,00;1.940,00\n" +
		"TESORERIA;16/03/2024;OTRO SA;LIB-003;500,00;0,00;0,00;0,00;0,00;500,00\n"

	recs, err := renditions.FromReader(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, "LIB-001", recs[0]["libramiento"])
	assert.Equal(t, "LIB-002", recs[1]["libramiento"])
	assert.Equal(t, "LIB-003", recs[2]["libramiento"])
}

// Exports still arrive in the agency's legacy Latin-1 encoding.
func TestFromReader_Latin1Input(t *testing.T) {
	raw := []byte(header +
		"TESORER\xcdA;15/03/2024;COMPA\xd1IA SA;LIB-010;100,00;0,00;0,00;0,00;0,00;100,00\n")

	recs, err := renditions.FromReader(strings.NewReader(string(raw)))
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "TESORERÍA", recs[0]["origen"])
	assert.Equal(t, "COMPAÑIA SA", recs[0]["beneficiario"])
}

func TestFromReader_DuplicateLibramiento(t *testing.T) {
	input := header +
		"TESORERIA;15/03/2024;PROVEEDOR SA;LIB-001;1.000,00;0,00;0,00;0,00;0,00;1.000,00\n" +
		"TESORERIA;15/03/2024;PROVEEDOR SA;LIB-001;1.000,00;0,00;0,00;0,00;0,00;1.000,00\n"

	recs, err := renditions.FromReader(strings.NewReader(input))
	require.NoError(t, err)
	assert.Len(t, recs, 1)
}

func TestFromReader_BadAmountSurfacesInValidation(t *testing.T) {
	input := header +
		"TESORERIA;15/03/2024;PROVEEDOR SA;LIB-001;no es plata;0,00;0,00;0,00;0,00;100,00\n" +
		"TESORERIA;16/03/2024;OTRO SA;LIB-002;500,00;0,00;0,00;0,00;0,00;500,00\n"

	recs, err := renditions.FromReader(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, recs, 2)

	out, err := schema.Validate(recs, renditions.Schema())
	require.NoError(t, err)

	require.Len(t, out.Errors, 1)
	assert.Equal(t, "LIB-001", out.Errors[0].Key)
	require.Len(t, out.Validated, 1)
	assert.Equal(t, "LIB-002", out.Validated[0]["libramiento"])
}
