package warehouse

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"cloud.google.com/go/bigquery"
	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/fff_parser/app/fff_parser/pkg/config"
	"github.com/iWorld-y/fff_parser/app/fff_parser/pkg/model"
)

func openSQLite(t *testing.T, opts Options) *SQL {
	t.Helper()
	s, err := NewSQL(context.Background(), SQLite, filepath.Join(t.TempDir(), "fff.db"), "fff_reports", opts)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	_, err = s.db.Exec(`CREATE TABLE fff_reports (
		id INTEGER,
		file_name TEXT,
		file_date DATE,
		business_partner_id TEXT,
		file_raw_content TEXT
	)`)
	require.NoError(t, err)

	seed := []struct {
		id      int
		date    string
		bp      string
		content any
	}{
		{1, "2024-03-31", "BP2", "HDR FULL CA 1"},
		{2, "2024-03-31", "BP1", "HDR FULL FA 2"},
		{3, "2024-03-31", "BP3", nil},
		{4, "2024-03-31", "BP4", "no marker here"},
		{5, "2024-04-30", "BP5", "FULL"},
		{6, "2024-02-29", "BP6", "FULL"},
	}
	for _, r := range seed {
		_, err := s.db.Exec(`INSERT INTO fff_reports VALUES (?, ?, ?, ?, ?)`,
			r.id, "fff.txt", r.date, r.bp, r.content)
		require.NoError(t, err)
	}
	return s
}

func march(t *testing.T) model.Period {
	t.Helper()
	p, err := model.NewPeriod("2024-03", "")
	require.NoError(t, err)
	return p
}

func TestSQLiteFetchReports(t *testing.T) {
	s := openSQLite(t, Options{})

	reports, err := s.FetchReports(context.Background(), march(t))
	require.NoError(t, err)
	require.Len(t, reports, 2)

	assert.Equal(t, "2", reports[0].ID)
	assert.Equal(t, "BP1", reports[0].BusinessPartnerID)
	assert.Equal(t, "FULL FA 2", reports[0].Body)
	assert.Equal(t, time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC), reports[0].FileDate)
	assert.Equal(t, "BP2", reports[1].BusinessPartnerID)
}

func TestSQLiteFetchReportsTimestampText(t *testing.T) {
	s := openSQLite(t, Options{})
	// 月末带时间部分的日期文本也落在区间内，同伙伴同日期按 id 排序
	for _, id := range []int{8, 7} {
		_, err := s.db.Exec(`INSERT INTO fff_reports VALUES (?, 'fff.txt', '2024-03-31 00:00:00', 'BP0', 'FULL')`, id)
		require.NoError(t, err)
	}

	reports, err := s.FetchReports(context.Background(), march(t))
	require.NoError(t, err)
	require.Len(t, reports, 4)
	assert.Equal(t, []string{"7", "8", "2", "1"}, []string{reports[0].ID, reports[1].ID, reports[2].ID, reports[3].ID})
	assert.Equal(t, time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC), reports[0].FileDate)
}

func TestSQLiteFetchReportsRange(t *testing.T) {
	s := openSQLite(t, Options{})

	p, err := model.NewPeriod("2024-02", "2024-04")
	require.NoError(t, err)
	reports, err := s.FetchReports(context.Background(), p)
	require.NoError(t, err)
	assert.Len(t, reports, 4)
}

func TestSQLiteFetchReportsLimit(t *testing.T) {
	s := openSQLite(t, Options{Limit: 1})

	reports, err := s.FetchReports(context.Background(), march(t))
	require.NoError(t, err)
	assert.Len(t, reports, 1)
}

func TestSQLiteAppend(t *testing.T) {
	s := openSQLite(t, Options{})
	ctx := context.Background()

	table := model.TableID{Namespace: "ignored", Name: "fff_segment_1_2_3_address"}
	schema := model.Schema{
		{Name: "bus_ptnr", Type: model.String},
		{Name: "file_date", Type: model.Date},
		{Name: "amount", Type: model.Numeric},
		{Name: "rate", Type: model.Float},
		{Name: "order_in_segment", Type: model.Integer},
		{Name: "city", Type: model.String},
	}
	rows := []model.Row{
		{"BP1", time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC), decimal.NewFromInt(2500), 1.5, int64(1), "OTT"},
		{"BP1", time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC), nil, nil, int64(2), nil},
	}

	require.NoError(t, s.Append(ctx, table, schema, rows))
	require.NoError(t, s.Append(ctx, table, schema, rows))
	require.NoError(t, s.Append(ctx, table, schema, nil))

	var n int
	require.NoError(t, s.db.QueryRow(`SELECT COUNT(*) FROM fff_segment_1_2_3_address`).Scan(&n))
	assert.Equal(t, 4, n)

	var (
		date   string
		amount int64
		nulls  int
	)
	require.NoError(t, s.db.QueryRow(`SELECT file_date, amount FROM fff_segment_1_2_3_address WHERE order_in_segment = 1 LIMIT 1`).Scan(&date, &amount))
	assert.Equal(t, "2024-03-31", date[:10])
	assert.Equal(t, int64(2500), amount)
	require.NoError(t, s.db.QueryRow(`SELECT COUNT(*) FROM fff_segment_1_2_3_address WHERE city IS NULL`).Scan(&nulls))
	assert.Equal(t, 2, nulls)
}

func TestOpenSQLite(t *testing.T) {
	w, err := Open(context.Background(), &config.Warehouse{
		Driver:      config.DriverSQLite,
		DSN:         filepath.Join(t.TempDir(), "open.db"),
		SourceTable: "fff_reports",
	}, Options{})
	require.NoError(t, err)
	require.NoError(t, w.Close())

	_, err = Open(context.Background(), &config.Warehouse{Driver: "oracle"}, Options{})
	assert.Error(t, err)
}

func TestParseDate(t *testing.T) {
	d, err := parseDate("2024-03-31")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC), d)

	d, err = parseDate([]byte("2024-03-31T00:00:00Z"))
	require.NoError(t, err)
	assert.Equal(t, 31, d.Day())

	d, err = parseDate(time.Date(2024, 3, 31, 15, 4, 5, 0, time.FixedZone("x", 3600)))
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC), d)

	_, err = parseDate(nil)
	assert.Error(t, err)
	_, err = parseDate("31/03/2024")
	assert.Error(t, err)
}

func TestEncodeRows(t *testing.T) {
	schema := model.Schema{
		{Name: "file_date", Type: model.Date},
		{Name: "amount", Type: model.Numeric},
		{Name: "order_in_segment", Type: model.Integer},
		{Name: "city", Type: model.String},
	}
	rows := []model.Row{
		{time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC), decimal.RequireFromString("12345678901234567890"), int64(1), "OTT"},
		{time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), nil, int64(2), nil},
	}

	buf, err := encodeRows(schema, rows)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	var got []map[string]any
	for _, l := range lines {
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(l), &m))
		got = append(got, m)
	}
	want := []map[string]any{
		{"file_date": "2024-03-31", "amount": "12345678901234567890", "order_in_segment": float64(1), "city": "OTT"},
		{"file_date": "2024-03-01", "amount": nil, "order_in_segment": float64(2), "city": nil},
	}
	assert.Empty(t, cmp.Diff(want, got))

	fields := bigquerySchema(schema)
	require.Len(t, fields, 4)
	assert.Equal(t, bigquery.DateFieldType, fields[0].Type)
	assert.Equal(t, bigquery.NumericFieldType, fields[1].Type)
	assert.Equal(t, bigquery.IntegerFieldType, fields[2].Type)
	assert.Equal(t, bigquery.StringFieldType, bigqueryType(model.String))
}
