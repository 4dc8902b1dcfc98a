package report_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/mock/gomock"
	_ "modernc.org/sqlite"

	"github.com/dparodi/hacienda/internal/extract/dbftable"
	"github.com/dparodi/hacienda/internal/portal"
	"github.com/dparodi/hacienda/internal/report"
	"github.com/dparodi/hacienda/internal/syncer"
)

var creds = portal.Credentials{Username: "user", Password: "secret"}

func newService(repo syncer.Repository, page portal.Automation) *report.Service {
	repos := func(string) syncer.Repository { return repo }
	pages := func(context.Context) (portal.Automation, error) { return page, nil }

	return report.NewService(syncer.NewEngine(), repos, pages, "https://portal.example.gob.ar", dbftable.NewReader("", ""), nil)
}

// writeBudgetXLSX emits a portal-shaped budget workbook: three header rows,
// then one line per budget structure.
func writeBudgetXLSX(t *testing.T, dir string, lines [][]any) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)

	rows := [][]any{
		{"EJECUCION PRESUPUESTARIA"},
		{"Ejercicio"},
		{"Prog", "Sub", "Proy", "Act", "Part", "Fte", "Desc", "Orig", "Vig", "Comp", "Ord", "Saldo"},
	}
	rows = append(rows, lines...)

	for i := range rows {
		row := rows[i]
		require.NoError(t, f.SetSheetRow(sheet, cellRef(i), &row))
	}

	path := filepath.Join(dir, "38.xlsx")
	require.NoError(t, f.SaveAs(path))

	return path
}

func cellRef(rowIdx int) string {
	return "A" + string(rune('1'+rowIdx))
}

func TestService_SyncBudget(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	path := writeBudgetXLSX(t, t.TempDir(), [][]any{
		{"01", "00", "000", "01", "100", "11", "Personal", "1.000,00", "1.000,00", "500,00", "400,00", "600,00"},
		{"01", "00", "000", "01", "200", "11", "Bienes", "200,00", "200,00", "0,00", "0,00", "200,00"},
	})

	page := portal.NewMockAutomation(ctrl)
	page.EXPECT().Goto(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	page.EXPECT().Fill(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	page.EXPECT().Click(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	page.EXPECT().WaitVisible(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	page.EXPECT().Popup(gomock.Any(), gomock.Any()).Return(nil)
	page.EXPECT().Download(gomock.Any(), gomock.Any()).Return(path, nil)
	page.EXPECT().Close(gomock.Any()).Return(nil)

	repo := syncer.NewMockRepository(ctrl)

	gomock.InOrder(
		repo.EXPECT().DeleteByFilter(gomock.Any(), syncer.Filter{"ejercicio": 2024}).Return(int64(0), nil),
		repo.EXPECT().SaveAll(gomock.Any(), gomock.Any()).Return(nil),
	)

	results, err := newService(repo, page).SyncBudget(context.Background(), creds, []int{2024})
	require.NoError(t, err)
	require.Len(t, results, 1)

	res := results[0]
	assert.Equal(t, 2, res.Total)
	assert.Equal(t, 2, res.Inserted)
	assert.Empty(t, res.Errors)
}

// The page is always closed, even when the portal rejects the credentials.
func TestService_SyncBudget_BadCredentials(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	page := portal.NewMockAutomation(ctrl)
	page.EXPECT().Goto(gomock.Any(), gomock.Any()).Return(nil)
	page.EXPECT().Fill(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(2)
	page.EXPECT().Click(gomock.Any(), gomock.Any()).Return(nil)
	page.EXPECT().WaitVisible(gomock.Any(), gomock.Any()).Return(assert.AnError)
	page.EXPECT().Close(gomock.Any()).Return(nil).Times(1)

	repo := syncer.NewMockRepository(ctrl)

	_, err := newService(repo, page).SyncBudget(context.Background(), creds, []int{2024})
	assert.ErrorIs(t, err, portal.ErrInvalidCredentials)
}

func TestService_SyncBudget_NoYears(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	_, err := newService(syncer.NewMockRepository(ctrl), portal.NewMockAutomation(ctrl)).
		SyncBudget(context.Background(), creds, nil)
	assert.Error(t, err)
}

func TestService_SyncRenditions(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	input := "ORIGEN;FECHA;BENEFICIARIO;LIBRAMIENTO;BRUTO;IIBB;SELLOS;SUSS;GCIAS;NETO\n" +
		"TESORERIA;15/03/2024;PROVEEDOR SA;LIB-001;1.000,00;0,00;0,00;0,00;0,00;1.000,00\n" +
		"TESORERIA;10/05/2023;VIEJO SA;LIB-900;500,00;0,00;0,00;0,00;0,00;500,00\n"

	repo := syncer.NewMockRepository(ctrl)

	gomock.InOrder(
		repo.EXPECT().DeleteByFilter(gomock.Any(), syncer.Filter{"ejercicio": 2024}).Return(int64(3), nil),
		repo.EXPECT().SaveAll(gomock.Any(), gomock.Any()).Return(nil),
	)

	res, err := newService(repo, nil).SyncRenditions(context.Background(), strings.NewReader(input), 2024)
	require.NoError(t, err)

	// The 2023 row is outside the requested year and never reaches the batch.
	assert.Equal(t, 1, res.Total)
	assert.Equal(t, 1, res.Inserted)
	assert.Equal(t, 3, res.Deleted)
}

// A row whose date never parsed has no fiscal year; it must survive the
// year filter and come back as a row error, not vanish.
func TestService_SyncRenditions_MalformedDateRowReported(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	input := "ORIGEN;FECHA;BENEFICIARIO;LIBRAMIENTO;BRUTO;IIBB;SELLOS;SUSS;GCIAS;NETO\n" +
		"TESORERIA;FECHA ROTA;MALO SA;LIB-666;1.000,00;0,00;0,00;0,00;0,00;1.000,00\n" +
		"TESORERIA;15/03/2024;PROVEEDOR SA;LIB-001;500,00;0,00;0,00;0,00;0,00;500,00\n"

	repo := syncer.NewMockRepository(ctrl)

	gomock.InOrder(
		repo.EXPECT().DeleteByFilter(gomock.Any(), syncer.Filter{"ejercicio": 2024}).Return(int64(0), nil),
		repo.EXPECT().SaveAll(gomock.Any(), gomock.Any()).Return(nil),
	)

	res, err := newService(repo, nil).SyncRenditions(context.Background(), strings.NewReader(input), 2024)
	require.NoError(t, err)

	assert.Equal(t, 2, res.Total)
	assert.Equal(t, 1, res.Inserted)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "LIB-666", res.Errors[0].Key)
}

func writeMovimientos(t *testing.T, inserts []string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "snapshot.sqlite3")

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`CREATE TABLE movimientos (
		id INTEGER PRIMARY KEY,
		fecha TEXT,
		cta_cte TEXT,
		importe REAL,
		concepto TEXT,
		beneficiario TEXT
	)`)
	require.NoError(t, err)

	for _, stmt := range inserts {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}

	return path
}

func TestService_SyncBankMovements_MalformedDateRowReported(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	path := writeMovimientos(t, []string{
		`INSERT INTO movimientos VALUES (1, 'fecha rota', '1234/5', 100.00, 'PAGO', 'X')`,
		`INSERT INTO movimientos VALUES (2, '2024-01-10', '1234/5', 50.00, 'PAGO', 'Y')`,
		`INSERT INTO movimientos VALUES (3, '2023-06-01', '1234/5', 25.00, 'PAGO', 'Z')`,
	})

	repo := syncer.NewMockRepository(ctrl)

	gomock.InOrder(
		repo.EXPECT().DeleteByFilter(gomock.Any(), syncer.Filter{"ejercicio": 2024}).Return(int64(0), nil),
		repo.EXPECT().SaveAll(gomock.Any(), gomock.Any()).Return(nil),
	)

	res, err := newService(repo, nil).SyncBankMovements(context.Background(), path, 2024)
	require.NoError(t, err)

	// The 2023 row is filtered out; the broken-date row is reported, not lost.
	assert.Equal(t, 2, res.Total)
	assert.Equal(t, 1, res.Inserted)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "1", res.Errors[0].Key)
}

// A batch that filters down to nothing must not touch the repository.
func TestService_SyncRenditions_NothingInYear(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	input := "ORIGEN;FECHA;BENEFICIARIO;LIBRAMIENTO;BRUTO;IIBB;SELLOS;SUSS;GCIAS;NETO\n" +
		"TESORERIA;10/05/2023;VIEJO SA;LIB-900;500,00;0,00;0,00;0,00;0,00;500,00\n"

	repo := syncer.NewMockRepository(ctrl)

	res, err := newService(repo, nil).SyncRenditions(context.Background(), strings.NewReader(input), 2024)
	require.NoError(t, err)
	assert.Zero(t, res.Total)
	assert.Zero(t, res.Inserted)
	assert.Zero(t, res.Deleted)
}
