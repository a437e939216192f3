package segment

import "strings"

// Tag 段标签的扫描规则
// 标签后必须跟一个空格；部分代码与正文常见字母组合冲突，需要额外要求前导空格
type Tag struct {
	Code         Code
	LeadingSpace bool
}

func (t Tag) pattern() string {
	p := string(t.Code) + " "
	if t.LeadingSpace {
		p = " " + p
	}
	return p
}

// Locate 返回正文中该标签所有出现位置（指向代码首字符），升序且不重叠
// 没有出现时返回空切片而不是 nil
func Locate(body string, tag Tag) []int {
	offsets := []int{}
	pattern := tag.pattern()
	shift := 0
	if tag.LeadingSpace {
		shift = 1
	}

	for from := 0; from < len(body); {
		i := strings.Index(body[from:], pattern)
		if i < 0 {
			break
		}
		offsets = append(offsets, from+i+shift)
		from += i + len(pattern)
	}
	return offsets
}
