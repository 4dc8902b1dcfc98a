package planning_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dparodi/hacienda/internal/report/planning"
	"github.com/dparodi/hacienda/internal/schema"
)

// The historical sheet leaves grouping cells blank below the first row of
// each group; those rows inherit the nearest prior non-blank value.
func TestFromRows_ForwardFillsHierarchy(t *testing.T) {
	rows := [][]string{
		{"PLAN DE INVERSIONES"},
		{"PROG", "DESC", "SUBPROG", "DESC", "PROY", "DESC", "CREDITO"},
		{"01", "Infraestructura", "01", "Vial", "001", "Ruta 3", "1.000,00"},
		{"", "", "", "", "002", "Ruta 5", "2.000,00"},
		{"", "", "02", "Hidraulica", "001", "Canal Norte", "3.500,50"},
		{"02", "Social", "01", "Vivienda", "001", "Barrio Sur", "4.000,00"},
	}

	recs := planning.FromRows(rows)
	require.Len(t, recs, 4)

	assert.Equal(t, "01-01-001", recs[0]["estructura"])
	assert.Equal(t, "01-01-002", recs[1]["estructura"])
	assert.Equal(t, "Infraestructura", recs[1]["desc_programa"])
	assert.Equal(t, "Vial", recs[1]["desc_subprograma"])

	assert.Equal(t, "01-02-001", recs[2]["estructura"])
	assert.Equal(t, "Hidraulica", recs[2]["desc_subprograma"])

	assert.Equal(t, "02-01-001", recs[3]["estructura"])
	assert.Equal(t, "Social", recs[3]["desc_programa"])

	assert.InDelta(t, 3500.50, recs[2]["credito"], 0.0001)
}

func TestFromRows_ValidatesCleanly(t *testing.T) {
	rows := [][]string{
		{"titulo"},
		{"encabezado"},
		{"01", "Infraestructura", "01", "Vial", "001", "Ruta 3", "1.000,00"},
	}

	out, err := schema.Validate(planning.FromRows(rows), planning.Schema())
	require.NoError(t, err)
	assert.Len(t, out.Validated, 1)
	assert.Empty(t, out.Errors)
}

func TestFromRows_RowBeforeAnyGroupFailsValidation(t *testing.T) {
	rows := [][]string{
		{"titulo"},
		{"encabezado"},
		{"", "", "", "", "001", "Huerfana", "1,00"},
		{"01", "Infra", "01", "Vial", "001", "Ruta 3", "2,00"},
	}

	out, err := schema.Validate(planning.FromRows(rows), planning.Schema())
	require.NoError(t, err)

	// The orphan row has no hierarchy to inherit; it fails, the rest pass.
	require.Len(t, out.Errors, 1)
	assert.Len(t, out.Validated, 1)
}

func TestFromRows_DuplicateStructureKeepsFirst(t *testing.T) {
	rows := [][]string{
		{"titulo"},
		{"encabezado"},
		{"01", "Infra", "01", "Vial", "001", "primera", "1,00"},
		{"01", "Infra", "01", "Vial", "001", "repetida", "2,00"},
	}

	recs := planning.FromRows(rows)
	require.Len(t, recs, 1)
	assert.Equal(t, "primera", recs[0]["desc_proyecto"])
}
