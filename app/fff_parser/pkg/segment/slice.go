package segment

import "strings"

// RawFields 字段名到原始（未去空格）切片的映射
type RawFields map[string]string

// Slice 按布局从 offset 处切出所有字段
// 任一区间越过正文末尾时该字段为空串，截断的报告只会得到空白字段
func Slice(body string, offset int, layout Layout) RawFields {
	raw := make(RawFields, len(layout))
	for _, f := range layout {
		v := sliceField(body, offset, f.Ranges)
		if f.TrimLeft {
			v = strings.TrimLeft(v, " ")
		}
		raw[f.Name] = v
	}
	return raw
}

func sliceField(body string, offset int, ranges []Range) string {
	if len(ranges) == 1 {
		s, _ := sliceRange(body, offset, ranges[0])
		return s
	}

	var sb strings.Builder
	for _, r := range ranges {
		s, ok := sliceRange(body, offset, r)
		if !ok {
			return ""
		}
		sb.WriteString(s)
	}
	return sb.String()
}

func sliceRange(body string, offset int, r Range) (string, bool) {
	start, end := offset+r.Start, offset+r.End
	if start < 0 || start > end || end > len(body) {
		return "", false
	}
	return body[start:end], true
}
