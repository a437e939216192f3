package warehouse

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/iWorld-y/fff_parser/app/fff_parser/pkg/logger"
	"github.com/iWorld-y/fff_parser/app/fff_parser/pkg/model"
)

// Dialect 屏蔽 postgres 与 sqlite 在占位符、列类型、批量写入上的差异
type Dialect struct {
	Driver      string
	types       map[model.ColumnType]string
	placeholder func(n int) string
	bindDate    func(t time.Time) any
	// dateColumn 把日期列归一成可与 bindDate 结果比较的表达式
	dateColumn  func(col string) string
	qualify     func(t model.TableID) string
	bulkInsert  func(ctx context.Context, tx *sql.Tx, d *Dialect, t model.TableID, schema model.Schema, rows []model.Row) error
}

// Postgres lib/pq 方言，追加走 COPY
var Postgres = &Dialect{
	Driver: "postgres",
	types: map[model.ColumnType]string{
		model.String:  "TEXT",
		model.Date:    "DATE",
		model.Integer: "BIGINT",
		model.Numeric: "NUMERIC",
		model.Float:   "DOUBLE PRECISION",
	},
	placeholder: func(n int) string { return fmt.Sprintf("$%d", n) },
	bindDate:    func(t time.Time) any { return t },
	dateColumn:  func(col string) string { return col },
	qualify: func(t model.TableID) string {
		if t.Namespace == "" {
			return pq.QuoteIdentifier(t.Name)
		}
		return pq.QuoteIdentifier(t.Namespace) + "." + pq.QuoteIdentifier(t.Name)
	},
	bulkInsert: copyIn,
}

// SQLite modernc.org/sqlite 方言，忽略命名空间，日期按 YYYY-MM-DD 文本存储
var SQLite = &Dialect{
	Driver: "sqlite",
	types: map[model.ColumnType]string{
		model.String:  "TEXT",
		model.Date:    "DATE",
		model.Integer: "INTEGER",
		model.Numeric: "NUMERIC",
		model.Float:   "REAL",
	},
	placeholder: func(int) string { return "?" },
	bindDate:    func(t time.Time) any { return t.Format(time.DateOnly) },
	// 带时间部分的文本（2024-03-31 00:00:00）按字符串比较会排在月末之后
	dateColumn:  func(col string) string { return "date(" + col + ")" },
	qualify:     func(t model.TableID) string { return pq.QuoteIdentifier(t.Name) },
	bulkInsert:  insertRows,
}

// SQL 基于 database/sql 的仓库实现
type SQL struct {
	db      *sql.DB
	dialect *Dialect
	source  string
	limit   int
}

// NewSQL 打开连接并确认可用
func NewSQL(ctx context.Context, d *Dialect, dsn, sourceTable string, opts Options) (*SQL, error) {
	db, err := sql.Open(d.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}
	if d == SQLite {
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQL{db: db, dialect: d, source: sourceTable, limit: opts.Limit}, nil
}

// Close 关闭连接
func (s *SQL) Close() error {
	return s.db.Close()
}

// FetchReports 实现 Source
func (s *SQL) FetchReports(ctx context.Context, period model.Period) ([]*model.Report, error) {
	d := s.dialect
	query := fmt.Sprintf(`SELECT id, file_name, file_date, business_partner_id, file_raw_content
		FROM %s
		WHERE %s >= %s AND %s <= %s
		ORDER BY business_partner_id, file_date, id`,
		pq.QuoteIdentifier(s.source),
		d.dateColumn("file_date"), d.placeholder(1), d.dateColumn("file_date"), d.placeholder(2))
	if s.limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", s.limit)
	}

	rows, err := s.db.QueryContext(ctx, query, d.bindDate(period.Start()), d.bindDate(period.End()))
	if err != nil {
		return nil, fmt.Errorf("failed to query reports: %w", err)
	}
	defer rows.Close()

	var (
		reports []*model.Report
		skipped int
	)
	for rows.Next() {
		var (
			id, fileName, bp, content sql.NullString
			fileDate                  any
		)
		if err := rows.Scan(&id, &fileName, &fileDate, &bp, &content); err != nil {
			return nil, fmt.Errorf("failed to scan report row: %w", err)
		}
		date, err := parseDate(fileDate)
		if err != nil {
			return nil, fmt.Errorf("report %s: %w", id.String, err)
		}

		var raw *string
		if content.Valid {
			raw = &content.String
		}
		r, ok := model.NewReport(id.String, fileName.String, date, bp.String, raw)
		if !ok {
			skipped++
			continue
		}
		reports = append(reports, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate reports: %w", err)
	}

	if skipped > 0 {
		logger.Log.Debugf("跳过 %d 行无正文的报告", skipped)
	}
	return reports, nil
}

// Append 实现 Sink：建表（如不存在）后在一个事务内写入全部行
func (s *SQL) Append(ctx context.Context, table model.TableID, schema model.Schema, rows []model.Row) error {
	if len(rows) == 0 {
		return nil
	}
	if err := s.ensureTable(ctx, table, schema); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.dialect.bulkInsert(ctx, tx, s.dialect, table, schema, rows); err != nil {
		return fmt.Errorf("failed to append to %s: %w", table, err)
	}
	return tx.Commit()
}

func (s *SQL) ensureTable(ctx context.Context, table model.TableID, schema model.Schema) error {
	d := s.dialect
	if d == Postgres && table.Namespace != "" {
		if _, err := s.db.ExecContext(ctx, "CREATE SCHEMA IF NOT EXISTS "+pq.QuoteIdentifier(table.Namespace)); err != nil {
			return fmt.Errorf("failed to create schema %s: %w", table.Namespace, err)
		}
	}

	cols := make([]string, len(schema))
	for i, c := range schema {
		cols[i] = pq.QuoteIdentifier(c.Name) + " " + d.types[c.Type]
	}
	query := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n\t%s\n)", d.qualify(table), strings.Join(cols, ",\n\t"))
	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create table %s: %w", table, err)
	}
	return nil
}

func copyIn(ctx context.Context, tx *sql.Tx, d *Dialect, t model.TableID, schema model.Schema, rows []model.Row) error {
	var query string
	if t.Namespace == "" {
		query = pq.CopyIn(t.Name, schema.Names()...)
	} else {
		query = pq.CopyInSchema(t.Namespace, t.Name, schema.Names()...)
	}

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return err
	}
	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx, bindRow(d, r)...); err != nil {
			stmt.Close()
			return err
		}
	}
	// 无参数的 Exec 把缓冲区刷给服务端
	if _, err := stmt.ExecContext(ctx); err != nil {
		stmt.Close()
		return err
	}
	return stmt.Close()
}

func insertRows(ctx context.Context, tx *sql.Tx, d *Dialect, t model.TableID, schema model.Schema, rows []model.Row) error {
	cols := make([]string, len(schema))
	marks := make([]string, len(schema))
	for i, c := range schema {
		cols[i] = pq.QuoteIdentifier(c.Name)
		marks[i] = d.placeholder(i + 1)
	}
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", d.qualify(t), strings.Join(cols, ", "), strings.Join(marks, ", "))

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx, bindRow(d, r)...); err != nil {
			return err
		}
	}
	return nil
}

func bindRow(d *Dialect, r model.Row) []any {
	args := make([]any, len(r))
	for i, v := range r {
		if t, ok := v.(time.Time); ok {
			args[i] = d.bindDate(t)
			continue
		}
		args[i] = v
	}
	return args
}

// parseDate 兼容驱动返回的 time.Time 与 YYYY-MM-DD 文本
func parseDate(v any) (time.Time, error) {
	switch x := v.(type) {
	case time.Time:
		return time.Date(x.Year(), x.Month(), x.Day(), 0, 0, 0, 0, time.UTC), nil
	case string:
		return parseDateText(x)
	case []byte:
		return parseDateText(string(x))
	default:
		return time.Time{}, fmt.Errorf("unsupported file_date value %T", v)
	}
}

func parseDateText(s string) (time.Time, error) {
	if len(s) > len(time.DateOnly) {
		s = s[:len(time.DateOnly)]
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid file_date %q: %w", s, err)
	}
	return t, nil
}
