package normalize_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dparodi/hacienda/internal/normalize"
	"github.com/dparodi/hacienda/internal/record"
)

func TestMapping_Apply(t *testing.T) {
	m := normalize.Mapping{
		Columns: []normalize.Column{
			{Name: "nro", Index: 0, Kind: normalize.AsInteger},
			{Name: "fecha", Index: 1, Kind: normalize.AsDate},
			{Name: "importe", Index: 2, Kind: normalize.AsMoney},
			{Name: "glosa", Index: 3, Kind: normalize.AsText},
		},
	}

	rows := [][]string{
		{"101", "15/03/2024", "5.951.535,09", "  Pago a proveedor  "},
		{"102", "", "-", "sin fecha"},
	}

	got := m.Apply(rows)
	require.Len(t, got, 2)

	assert.Equal(t, int64(101), got[0]["nro"])
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), got[0]["fecha"])
	assert.InDelta(t, 5951535.09, got[0]["importe"], 0.0001)
	assert.Equal(t, "Pago a proveedor", got[0]["glosa"])

	assert.Nil(t, got[1]["fecha"])
	assert.Nil(t, got[1]["importe"])
}

// A cell that fails coercion keeps its raw text so validation can reject the
// record later with its identifying key.
func TestMapping_Apply_KeepsRawOnBadCoercion(t *testing.T) {
	m := normalize.Mapping{
		Columns: []normalize.Column{
			{Name: "importe", Index: 0, Kind: normalize.AsMoney},
		},
	}

	got := m.Apply([][]string{{"no es plata"}})

	require.Len(t, got, 1)
	assert.Equal(t, "no es plata", got[0]["importe"])
}

func TestMapping_Apply_ShortRow(t *testing.T) {
	m := normalize.Mapping{
		Columns: []normalize.Column{
			{Name: "a", Index: 0, Kind: normalize.AsText},
			{Name: "b", Index: 5, Kind: normalize.AsText},
		},
	}

	got := m.Apply([][]string{{"only"}})

	require.Len(t, got, 1)
	assert.Equal(t, "only", got[0]["a"])
	assert.Nil(t, got[0]["b"])
}

func TestMapping_Apply_Derived(t *testing.T) {
	m := normalize.Mapping{
		Columns: []normalize.Column{
			{Name: "iibb", Index: 0, Kind: normalize.AsMoney},
			{Name: "suss", Index: 1, Kind: normalize.AsMoney},
		},
		Derive: []normalize.Derived{
			{Name: "retenciones", Fn: normalize.SumFields("iibb", "suss")},
		},
	}

	got := m.Apply([][]string{
		{"100,50", "200,25"},
		{"100,50", "-"},
		{"basura", "1,00"},
	})

	require.Len(t, got, 3)
	assert.InDelta(t, 300.75, got[0]["retenciones"], 0.0001)
	assert.InDelta(t, 100.50, got[1]["retenciones"], 0.0001)
	// Raw text poisoned the sum, the derived field stays absent.
	assert.Nil(t, got[2]["retenciones"])
}

func TestSumFields_IntAndFloatMix(t *testing.T) {
	fn := normalize.SumFields("a", "b", "c")

	got, err := fn(record.Record{"a": int64(2), "b": 0.5, "c": nil})
	require.NoError(t, err)
	assert.InDelta(t, 2.5, got, 0.0001)
}
