package warehouse

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"google.golang.org/api/iterator"

	"github.com/iWorld-y/fff_parser/app/fff_parser/pkg/logger"
	"github.com/iWorld-y/fff_parser/app/fff_parser/pkg/model"
)

// bqReport 来源表的一行，id 与业务伙伴统一转成字符串
type bqReport struct {
	ID                bigquery.NullString `bigquery:"id"`
	FileName          bigquery.NullString `bigquery:"file_name"`
	FileDate          bigquery.NullDate   `bigquery:"file_date"`
	BusinessPartnerID bigquery.NullString `bigquery:"business_partner_id"`
	FileRawContent    bigquery.NullString `bigquery:"file_raw_content"`
}

// BigQuery 以 BigQuery 数据集为来源与写入端
type BigQuery struct {
	client  *bigquery.Client
	dataset string
	source  string
	limit   int
}

// NewBigQuery 使用默认凭据创建客户端
func NewBigQuery(ctx context.Context, project, dataset, sourceTable string, opts Options) (*BigQuery, error) {
	client, err := bigquery.NewClient(ctx, project)
	if err != nil {
		return nil, fmt.Errorf("failed to create bigquery client: %w", err)
	}
	return &BigQuery{client: client, dataset: dataset, source: sourceTable, limit: opts.Limit}, nil
}

// Close 关闭客户端
func (b *BigQuery) Close() error {
	return b.client.Close()
}

// FetchReports 实现 Source
func (b *BigQuery) FetchReports(ctx context.Context, period model.Period) ([]*model.Report, error) {
	sql := fmt.Sprintf("SELECT CAST(id AS STRING) AS id, file_name, file_date,\n"+
		"\tCAST(business_partner_id AS STRING) AS business_partner_id, file_raw_content\n"+
		"FROM `%s.%s`\n"+
		"WHERE file_date >= @begin AND file_date <= @end\n"+
		"ORDER BY business_partner_id, file_date, id", b.dataset, b.source)
	if b.limit > 0 {
		sql += fmt.Sprintf("\nLIMIT %d", b.limit)
	}

	q := b.client.Query(sql)
	q.Parameters = []bigquery.QueryParameter{
		{Name: "begin", Value: civil.DateOf(period.Start())},
		{Name: "end", Value: civil.DateOf(period.End())},
	}
	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to query reports: %w", err)
	}

	var (
		reports []*model.Report
		skipped int
	)
	for {
		var row bqReport
		err := it.Next(&row)
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read report row: %w", err)
		}

		var raw *string
		if row.FileRawContent.Valid {
			raw = &row.FileRawContent.StringVal
		}
		var date time.Time
		if row.FileDate.Valid {
			date = row.FileDate.Date.In(time.UTC)
		}
		r, ok := model.NewReport(row.ID.StringVal, row.FileName.StringVal, date, row.BusinessPartnerID.StringVal, raw)
		if !ok {
			skipped++
			continue
		}
		reports = append(reports, r)
	}

	if skipped > 0 {
		logger.Log.Debugf("跳过 %d 行无正文的报告", skipped)
	}
	return reports, nil
}

// Append 实现 Sink：整表一次加载作业追加，作业失败时表中不会留下部分行
// 表不存在时按显式 schema 创建
func (b *BigQuery) Append(ctx context.Context, table model.TableID, schema model.Schema, rows []model.Row) error {
	if len(rows) == 0 {
		return nil
	}

	ns := table.Namespace
	if ns == "" {
		ns = b.dataset
	}
	body, err := encodeRows(schema, rows)
	if err != nil {
		return fmt.Errorf("failed to encode rows for %s: %w", table, err)
	}

	src := bigquery.NewReaderSource(body)
	src.SourceFormat = bigquery.JSON
	src.Schema = bigquerySchema(schema)
	loader := b.client.Dataset(ns).Table(table.Name).LoaderFrom(src)
	loader.CreateDisposition = bigquery.CreateIfNeeded
	loader.WriteDisposition = bigquery.WriteAppend

	job, err := loader.Run(ctx)
	if err != nil {
		return fmt.Errorf("failed to start load job for %s: %w", table, err)
	}
	status, err := job.Wait(ctx)
	if err == nil {
		err = status.Err()
	}
	if err != nil {
		return fmt.Errorf("failed to append to %s: %w", table, err)
	}
	return nil
}

func bigquerySchema(schema model.Schema) bigquery.Schema {
	fields := make(bigquery.Schema, len(schema))
	for i, c := range schema {
		fields[i] = &bigquery.FieldSchema{Name: c.Name, Type: bigqueryType(c.Type)}
	}
	return fields
}

func bigqueryType(t model.ColumnType) bigquery.FieldType {
	switch t {
	case model.Date:
		return bigquery.DateFieldType
	case model.Integer:
		return bigquery.IntegerFieldType
	case model.Numeric:
		return bigquery.NumericFieldType
	case model.Float:
		return bigquery.FloatFieldType
	default:
		return bigquery.StringFieldType
	}
}

// encodeRows 把整表编码为换行分隔的 JSON，作为加载作业的数据源
func encodeRows(schema model.Schema, rows []model.Row) (*bytes.Buffer, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, r := range rows {
		m := make(map[string]any, len(schema))
		for i, c := range schema {
			m[c.Name] = jsonValue(r[i])
		}
		if err := enc.Encode(m); err != nil {
			return nil, err
		}
	}
	return &buf, nil
}

// jsonValue DATE 写成 YYYY-MM-DD，NUMERIC 写成十进制串以免经过 float64
func jsonValue(v any) any {
	switch x := v.(type) {
	case time.Time:
		return civil.DateOf(x).String()
	case decimal.Decimal:
		return x.String()
	default:
		return v
	}
}
