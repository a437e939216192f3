package assembler

import (
	"fmt"
	"strings"
	"time"

	"github.com/iWorld-y/fff_parser/app/fff_parser/pkg/model"
	"github.com/iWorld-y/fff_parser/app/fff_parser/pkg/segment"
)

// 每张段表在布局字段前后附加的固定列
const (
	ColumnMatchFlag          = "match_flag"
	ColumnBusinessPartner    = "bus_ptnr"
	ColumnFileDate           = "file_date"
	ColumnSegmentCode        = "segment_code"
	ColumnSegmentDescription = "segment_description"
	ColumnOrderInSegment     = "order_in_segment"
)

// Record 一条通过校验的段记录
type Record struct {
	BusinessPartner string
	FileDate        time.Time
	Code            segment.Code
	Description     string
	// Order 同一报告内同一段代码的序号，从 1 开始
	Order int
	// Sequence 本次运行内全局唯一的序号
	Sequence  int
	MatchFlag string
	Values    []any
}

// Row 按 Schema 的列顺序展开
func (r Record) Row() model.Row {
	row := make(model.Row, 0, len(r.Values)+6)
	row = append(row, r.MatchFlag, r.BusinessPartner, r.FileDate)
	row = append(row, r.Values...)
	row = append(row, string(r.Code), r.Description, int64(r.Order))
	return row
}

// Batch 一张目标表在本次运行中累积的记录
type Batch struct {
	Table   *segment.Table
	Records []Record
}

// Schema 目标表的显式列定义
func (b *Batch) Schema() model.Schema {
	return TableSchema(b.Table)
}

// Rows 全部记录展开为行
func (b *Batch) Rows() []model.Row {
	rows := make([]model.Row, len(b.Records))
	for i, rec := range b.Records {
		rows[i] = rec.Row()
	}
	return rows
}

// TableSchema 段表的列：匹配标识、业务伙伴、报告日期、布局字段、段代码、段描述、段内序号
func TableSchema(t *segment.Table) model.Schema {
	schema := model.Schema{
		{Name: ColumnMatchFlag, Type: model.String},
		{Name: ColumnBusinessPartner, Type: model.String},
		{Name: ColumnFileDate, Type: model.Date},
	}
	schema = append(schema, t.Layout().Columns()...)
	return append(schema,
		model.Column{Name: ColumnSegmentCode, Type: model.String},
		model.Column{Name: ColumnSegmentDescription, Type: model.String},
		model.Column{Name: ColumnOrderInSegment, Type: model.Integer},
	)
}

// MatchFlag 段代码 + 业务伙伴 + 报告年月 + 10 位序号
func MatchFlag(code segment.Code, bp string, fileDate time.Time, seq int) string {
	return fmt.Sprintf("%s%s%s%010d", code, bp, fileDate.Format("200601"), seq)
}

// Assembler 逐份报告解码，把记录追加到各目标表，并生成报告头汇总行
// 单次运行使用，不可并发调用
type Assembler struct {
	registry *segment.Registry
	tables   []*segment.Table
	batches  map[string]*Batch
	headers  []model.Row
	sequence int
	dropped  map[segment.Code]int
}

// New 为给定的目标表创建装配器，tables 的顺序即推送顺序
func New(registry *segment.Registry, tables []*segment.Table) *Assembler {
	batches := make(map[string]*Batch, len(tables))
	for _, t := range tables {
		batches[t.Name] = &Batch{Table: t}
	}
	return &Assembler{
		registry: registry,
		tables:   tables,
		batches:  batches,
		dropped:  make(map[segment.Code]int),
	}
}

// Add 解码一份报告的全部目标表
// 同一表的多个来源按声明顺序拼接，不按偏移交错
// 汇总列覆盖注册表中的全部表，本次未处理的表计数与标识都留空
func (a *Assembler) Add(report *model.Report) error {
	all := a.registry.Tables()
	summary := make([]any, 0, 2*len(all))
	for _, t := range all {
		if _, ok := a.batches[t.Name]; !ok {
			summary = append(summary, nil, nil)
			continue
		}

		var flags []string
		for _, code := range t.Sources {
			records, err := a.decode(report, code)
			if err != nil {
				return fmt.Errorf("decode %s in report %s: %w", code, report.ID, err)
			}
			for _, rec := range records {
				flags = append(flags, rec.MatchFlag)
			}
			a.batches[t.Name].Records = append(a.batches[t.Name].Records, records...)
		}

		var ref any
		if len(flags) > 0 {
			ref = strings.Join(flags, ", ")
		}
		summary = append(summary, int64(len(flags)), ref)
	}

	row := model.Row{report.ID, report.FileName, report.FileDate, report.BusinessPartnerID, report.Body}
	row = append(row, segment.DecodeHeader(report.Body)...)
	a.headers = append(a.headers, append(row, summary...))
	return nil
}

func (a *Assembler) decode(report *model.Report, code segment.Code) ([]Record, error) {
	d, err := a.registry.Descriptor(code)
	if err != nil {
		return nil, err
	}

	var records []Record
	for _, offset := range segment.Locate(report.Body, d.Tag) {
		raw := segment.Slice(report.Body, offset, d.Layout)
		if !d.Validate(raw) {
			a.dropped[code]++
			continue
		}
		a.sequence++
		records = append(records, Record{
			BusinessPartner: report.BusinessPartnerID,
			FileDate:        report.FileDate,
			Code:            code,
			Description:     d.Description,
			Order:           len(records) + 1,
			Sequence:        a.sequence,
			MatchFlag:       MatchFlag(code, report.BusinessPartnerID, report.FileDate, a.sequence),
			Values:          d.Layout.Values(raw),
		})
	}
	return records, nil
}

// Batch 返回目标表的累积记录，表不在本次运行范围内时为 nil
func (a *Assembler) Batch(name string) *Batch {
	return a.batches[name]
}

// Batches 按表顺序返回全部批次
func (a *Assembler) Batches() []*Batch {
	out := make([]*Batch, len(a.tables))
	for i, t := range a.tables {
		out[i] = a.batches[t.Name]
	}
	return out
}

// HeaderSchema 报告头汇总表的列，与本次选择的表无关，保证各次运行写入同一结构
func (a *Assembler) HeaderSchema() model.Schema {
	schema := model.Schema{
		{Name: "id", Type: model.String},
		{Name: "file_name", Type: model.String},
		{Name: "file_date", Type: model.Date},
		{Name: "business_partner_id", Type: model.String},
		{Name: "report_body", Type: model.String},
	}
	schema = append(schema, segment.HeaderLayout.Columns()...)
	for _, t := range a.registry.Tables() {
		schema = append(schema,
			model.Column{Name: t.Name + "_num_records", Type: model.Integer},
			model.Column{Name: t.Name + "_ref_flag", Type: model.String},
		)
	}
	return schema
}

// HeaderRows 每份报告一行汇总
func (a *Assembler) HeaderRows() []model.Row {
	return a.headers
}

// HeaderTable 报告头汇总表
func HeaderTable(namespace string) model.TableID {
	return model.TableID{Namespace: namespace, Name: segment.TablePrefix + segment.HeaderTable}
}

// Reports 已装配的报告数
func (a *Assembler) Reports() int {
	return len(a.headers)
}

// Dropped 各段代码未通过校验被丢弃的候选数
func (a *Assembler) Dropped() map[segment.Code]int {
	out := make(map[segment.Code]int, len(a.dropped))
	for k, v := range a.dropped {
		out[k] = v
	}
	return out
}
