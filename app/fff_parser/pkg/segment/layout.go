package segment

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/iWorld-y/fff_parser/app/fff_parser/pkg/coerce"
	"github.com/iWorld-y/fff_parser/app/fff_parser/pkg/model"
)

// Code 两位段代码，如 CA（当前地址）
type Code string

// Range 相对于段标签首字符的字节区间 [Start, End)
type Range struct {
	Start int
	End   int
}

// FieldType 字段的语义类型，决定转换函数与仓库列类型
type FieldType int

const (
	Text FieldType = iota
	Date6
	Date8
	Integer
	Amount
	Float
	// Marker 输出字段末尾的标记本身（如 NV），不带标记时缺失
	Marker
)

// Field 一个字段：名称、字节区间与类型
// 多个区间按声明顺序拼接，用于年份字节位于月份之后的日期
type Field struct {
	Name   string
	Ranges []Range
	Type   FieldType
	// TrimLeft 切片后去掉左侧空格，用于左对齐的自由文本
	TrimLeft bool
	// Suffix 末尾标记：Amount 转换前剥离，Marker 据此取值
	Suffix string
}

// Layout 一个段版本的完整字段表，顺序即输出列顺序
type Layout []Field

// Column 字段对应的仓库列
func (f Field) Column() model.Column {
	switch f.Type {
	case Date8:
		return model.Column{Name: f.Name, Type: model.Date}
	case Integer:
		return model.Column{Name: f.Name, Type: model.Integer}
	case Amount:
		return model.Column{Name: f.Name, Type: model.Numeric}
	case Float:
		return model.Column{Name: f.Name, Type: model.Float}
	default:
		return model.Column{Name: f.Name, Type: model.String}
	}
}

// Value 把原始切片转换为列值，缺失时返回 nil
func (f Field) Value(raw string) any {
	switch f.Type {
	case Date6:
		if v, ok := coerce.Date6(raw); ok {
			return v
		}
	case Date8:
		if v, ok := coerce.Date8(raw); ok {
			return v
		}
	case Integer:
		if v, ok := coerce.Int(raw); ok {
			return v
		}
	case Amount:
		if f.Suffix != "" {
			raw = strings.TrimSuffix(strings.TrimSpace(raw), f.Suffix)
		}
		if v, ok := coerce.Amount(raw); ok {
			return decimal.NewFromInt(v)
		}
	case Float:
		if v, ok := coerce.Float(raw); ok {
			return v
		}
	case Marker:
		if f.Suffix != "" && strings.HasSuffix(strings.TrimSpace(raw), f.Suffix) {
			return f.Suffix
		}
	default:
		if v := strings.TrimSpace(raw); v != "" {
			return v
		}
	}
	return nil
}

// Columns 布局对应的列定义
func (l Layout) Columns() model.Schema {
	cols := make(model.Schema, len(l))
	for i, f := range l {
		cols[i] = f.Column()
	}
	return cols
}

// Values 按布局顺序转换一组原始字段
func (l Layout) Values(raw RawFields) []any {
	values := make([]any, len(l))
	for i, f := range l {
		values[i] = f.Value(raw[f.Name])
	}
	return values
}

// sameShape 两个布局的列名与类型是否一致（同一目标表的多个段必须一致）
func (l Layout) sameShape(other Layout) bool {
	if len(l) != len(other) {
		return false
	}
	for i := range l {
		if l[i].Name != other[i].Name || l[i].Type != other[i].Type {
			return false
		}
	}
	return true
}

func text(name string, start, end int) Field {
	return Field{Name: name, Ranges: []Range{{start, end}}, Type: Text}
}

// date6 年份区间在前、月份（或日）区间在后，与字节序无关
func date6(name string, yearStart, yearEnd, restStart, restEnd int) Field {
	return Field{Name: name, Ranges: []Range{{yearStart, yearEnd}, {restStart, restEnd}}, Type: Date6}
}

func leftTrimmed(f Field) Field {
	f.TrimLeft = true
	return f
}

func date8(name string, start, end int) Field {
	return Field{Name: name, Ranges: []Range{{start, end}}, Type: Date8}
}

func integer(name string, start, end int) Field {
	return Field{Name: name, Ranges: []Range{{start, end}}, Type: Integer}
}

func amount(name string, start, end int) Field {
	return Field{Name: name, Ranges: []Range{{start, end}}, Type: Amount}
}

// suffixed 金额末尾可能带 suffix 标记，标记由同区间的 marker 字段单独输出
func suffixed(f Field, suffix string) Field {
	f.Suffix = suffix
	return f
}

func marker(name string, start, end int, suffix string) Field {
	return Field{Name: name, Ranges: []Range{{start, end}}, Type: Marker, Suffix: suffix}
}

func float(name string, start, end int) Field {
	return Field{Name: name, Ranges: []Range{{start, end}}, Type: Float}
}
