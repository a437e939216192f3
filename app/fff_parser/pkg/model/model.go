package model

import (
	"fmt"
	"strings"
	"time"
)

// ReportMarker 报告正文起始标记，原始内容中该标记之前的部分不参与解析
const ReportMarker = "FULL"

// Report 单份征信报告（一个业务伙伴在一个报告月的一份 FFF 文件）
type Report struct {
	ID                string
	FileName          string
	FileDate          time.Time
	BusinessPartnerID string
	RawContent        string
	// Body 从 ReportMarker 开始的有效正文，所有段偏移都相对于它
	Body string
}

// NewReport 根据仓库中的一行构造报告
// 原始内容为空或不包含 ReportMarker 时返回 false，调用方应静默跳过该行
func NewReport(id, fileName string, fileDate time.Time, bp string, raw *string) (*Report, bool) {
	if raw == nil {
		return nil, false
	}
	idx := strings.Index(*raw, ReportMarker)
	if idx < 0 {
		return nil, false
	}
	return &Report{
		ID:                id,
		FileName:          fileName,
		FileDate:          fileDate,
		BusinessPartnerID: bp,
		RawContent:        *raw,
		Body:              (*raw)[idx:],
	}, true
}

// Period 报告月份区间（闭区间，按月）
type Period struct {
	BeginYear  int
	BeginMonth int
	EndYear    int
	EndMonth   int
}

// ParseMonth 解析 YYYY-MM 格式的月份
func ParseMonth(s string) (year, month int, err error) {
	t, err := time.Parse("2006-01", strings.TrimSpace(s))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid month %q, want YYYY-MM: %w", s, err)
	}
	return t.Year(), int(t.Month()), nil
}

// NewPeriod 构造区间；end 为空时退化为单月
func NewPeriod(begin, end string) (Period, error) {
	by, bm, err := ParseMonth(begin)
	if err != nil {
		return Period{}, err
	}
	p := Period{BeginYear: by, BeginMonth: bm, EndYear: by, EndMonth: bm}
	if end != "" {
		ey, em, err := ParseMonth(end)
		if err != nil {
			return Period{}, err
		}
		p.EndYear, p.EndMonth = ey, em
	}
	if p.End().Before(p.Start()) {
		return Period{}, fmt.Errorf("period end %s is before begin %s", p.End().Format(time.DateOnly), p.Start().Format(time.DateOnly))
	}
	return p, nil
}

// Start 区间第一天
func (p Period) Start() time.Time {
	return time.Date(p.BeginYear, time.Month(p.BeginMonth), 1, 0, 0, 0, 0, time.UTC)
}

// End 区间最后一天
func (p Period) End() time.Time {
	return time.Date(p.EndYear, time.Month(p.EndMonth)+1, 0, 0, 0, 0, 0, time.UTC)
}

// IsRange 是否跨多个月
func (p Period) IsRange() bool {
	return p.BeginYear != p.EndYear || p.BeginMonth != p.EndMonth
}

func (p Period) String() string {
	if !p.IsRange() {
		return fmt.Sprintf("%d.%02d", p.BeginYear, p.BeginMonth)
	}
	return fmt.Sprintf("%d.%02d-%d.%02d", p.BeginYear, p.BeginMonth, p.EndYear, p.EndMonth)
}

// ColumnType 仓库列的语义类型
type ColumnType string

const (
	String  ColumnType = "STRING"
	Date    ColumnType = "DATE"
	Integer ColumnType = "INT64"
	Numeric ColumnType = "NUMERIC"
	Float   ColumnType = "FLOAT64"
)

// Column 列定义
type Column struct {
	Name string
	Type ColumnType
}

// Schema 目标表的显式列定义，写入前声明，不从数据推断
type Schema []Column

// Names 返回列名
func (s Schema) Names() []string {
	names := make([]string, len(s))
	for i, c := range s {
		names[i] = c.Name
	}
	return names
}

// Index 返回列名所在位置，不存在时为 -1
func (s Schema) Index(name string) int {
	for i, c := range s {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// Row 一行数据，与 Schema 按位置对应；nil 表示缺失值
// 取值类型: string, int64, float64, decimal.Decimal, time.Time
type Row []any

// TableID 目标表标识：命名空间 + 表名
type TableID struct {
	Namespace string
	Name      string
}

func (t TableID) String() string {
	if t.Namespace == "" {
		return t.Name
	}
	return t.Namespace + "." + t.Name
}
