package segment

import (
	"fmt"
	"sync"

	"github.com/go-kratos/kratos/v2/errors"

	"github.com/iWorld-y/fff_parser/app/fff_parser/pkg/model"
)

const (
	// ReasonUnknownSegment 未注册的段代码，属于配置错误
	ReasonUnknownSegment = "UNKNOWN_SEGMENT"
	// ReasonUnknownTable 未注册的目标表
	ReasonUnknownTable = "UNKNOWN_TABLE"
)

// TablePrefix 所有段表与头表共享的表名前缀
const TablePrefix = "fff_segment_"

// Descriptor 一个段代码的完整描述：扫描规则、布局、校验与目标表
type Descriptor struct {
	Code        Code
	Description string
	Tag         Tag
	Layout      Layout
	Validate    Predicate
	Table       string
}

// Table 目标表：同一实体的多个段代码共享一套字段
type Table struct {
	Name string
	// ID 仓库中的表名后缀，如 1_2_3_address
	ID string
	// Sources 按声明顺序处理的段代码
	Sources      []Code
	Discontinued bool
	layout       Layout
}

// Identifier 带命名空间的完整表标识
func (t *Table) Identifier(namespace string) model.TableID {
	return model.TableID{Namespace: namespace, Name: TablePrefix + t.ID}
}

// Layout 表内各段共享的字段布局
func (t *Table) Layout() Layout {
	return t.layout
}

// Registry 段代码到描述符的查找表，构建完成后只读
type Registry struct {
	segments map[Code]*Descriptor
	tables   []*Table
	byName   map[string]*Table
}

// NewRegistry 创建空注册表
func NewRegistry() *Registry {
	return &Registry{
		segments: make(map[Code]*Descriptor),
		byName:   make(map[string]*Table),
	}
}

// Register 注册一张目标表及其全部来源段
// 重复注册或来源段布局不一致属于编程错误，直接 panic
func (r *Registry) Register(name, id string, discontinued bool, descs ...Descriptor) {
	if _, ok := r.byName[name]; ok {
		panic(fmt.Sprintf("segment: table %q registered twice", name))
	}
	if len(descs) == 0 {
		panic(fmt.Sprintf("segment: table %q has no source segments", name))
	}

	t := &Table{Name: name, ID: id, Discontinued: discontinued, layout: descs[0].Layout}
	for i := range descs {
		d := descs[i]
		if _, ok := r.segments[d.Code]; ok {
			panic(fmt.Sprintf("segment: code %s registered twice", d.Code))
		}
		if !d.Layout.sameShape(t.layout) {
			panic(fmt.Sprintf("segment: code %s layout differs from table %q", d.Code, name))
		}
		if d.Tag.Code == "" {
			d.Tag.Code = d.Code
		}
		if d.Validate == nil {
			d.Validate = Always
		}
		d.Table = name
		r.segments[d.Code] = &d
		t.Sources = append(t.Sources, d.Code)
	}
	r.tables = append(r.tables, t)
	r.byName[name] = t
}

// Descriptor 按代码查找描述符
func (r *Registry) Descriptor(code Code) (*Descriptor, error) {
	d, ok := r.segments[code]
	if !ok {
		return nil, errors.BadRequest(ReasonUnknownSegment, fmt.Sprintf("unknown segment code %q", code))
	}
	return d, nil
}

// LayoutFor 返回段代码的字段布局
func (r *Registry) LayoutFor(code Code) (Layout, error) {
	d, err := r.Descriptor(code)
	if err != nil {
		return nil, err
	}
	return d.Layout, nil
}

// IsValid 用段自身的谓词校验一组原始字段
func (r *Registry) IsValid(code Code, raw RawFields) (bool, error) {
	d, err := r.Descriptor(code)
	if err != nil {
		return false, err
	}
	return d.Validate(raw), nil
}

// Table 按名称查找目标表
func (r *Registry) Table(name string) (*Table, error) {
	t, ok := r.byName[name]
	if !ok {
		return nil, errors.BadRequest(ReasonUnknownTable, fmt.Sprintf("unknown destination table %q", name))
	}
	return t, nil
}

// Tables 按注册顺序返回全部目标表（含已停用的）
func (r *Registry) Tables() []*Table {
	out := make([]*Table, len(r.tables))
	copy(out, r.tables)
	return out
}

// Select 解析本次运行要处理的表：为空时取全部在用表，按注册顺序返回
// 名称未知时返回配置错误，停用表只有显式点名才会处理
func (r *Registry) Select(names []string) ([]*Table, error) {
	if len(names) == 0 {
		var active []*Table
		for _, t := range r.tables {
			if !t.Discontinued {
				active = append(active, t)
			}
		}
		return active, nil
	}

	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		if _, err := r.Table(n); err != nil {
			return nil, err
		}
		wanted[n] = true
	}
	var out []*Table
	for _, t := range r.tables {
		if wanted[t.Name] {
			out = append(out, t)
		}
	}
	return out, nil
}

var defaultRegistry = sync.OnceValue(func() *Registry {
	r := NewRegistry()
	registerDefaults(r)
	return r
})

// Default 返回内置的 FFF 段注册表
func Default() *Registry {
	return defaultRegistry()
}
