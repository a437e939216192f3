package segment

import (
	"strings"
)

// Predicate 记录级校验，判断一个候选切片是否是真实的段记录
type Predicate func(RawFields) bool

// Check 字段级校验
type Check func(string) bool

// On 对单个字段应用全部检查
func On(field string, checks ...Check) Predicate {
	return func(raw RawFields) bool {
		v := raw[field]
		for _, c := range checks {
			if !c(v) {
				return false
			}
		}
		return true
	}
}

// All 所有谓词都成立
func All(ps ...Predicate) Predicate {
	return func(raw RawFields) bool {
		for _, p := range ps {
			if !p(raw) {
				return false
			}
		}
		return true
	}
}

// Any 任一谓词成立即可
func Any(ps ...Predicate) Predicate {
	return func(raw RawFields) bool {
		for _, p := range ps {
			if p(raw) {
				return true
			}
		}
		return false
	}
}

// Always 不做校验的段使用
func Always(RawFields) bool { return true }

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func isLetters(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < 'A' || c > 'Z') && (c < 'a' || c > 'z') {
			return false
		}
	}
	return true
}

// Date6Digits 全空白，或去空格后恰好 6 位数字
func Date6Digits(s string) bool {
	s = strings.TrimSpace(s)
	return s == "" || (len(s) == 6 && isDigits(s))
}

// Required 必须非空白
func Required(s string) bool {
	return !isBlank(s)
}

// OneOf 原始值（不去空格）必须属于枚举集合
func OneOf(allowed ...string) Check {
	return func(s string) bool {
		for _, a := range allowed {
			if s == a {
				return true
			}
		}
		return false
	}
}

// CharIn 原始值必须是 set 的子串（单字节代码字段，空串视为通过）
func CharIn(set string) Check {
	return func(s string) bool {
		return strings.Contains(set, s)
	}
}

// ValidName 非空白的姓名不能以空格开头，不能含数字、'/' 或 '*'
func ValidName(s string) bool {
	if isBlank(s) {
		return true
	}
	if s[0] == ' ' {
		return false
	}
	return !strings.ContainsAny(s, "/*0123456789")
}

// FirstNotSpace 非空白时首字节不能是空格
func FirstNotSpace(s string) bool {
	if isBlank(s) {
		return true
	}
	return s[0] != ' '
}

// StartsNonSpace 必须有内容且首字节不是空格
func StartsNonSpace(s string) bool {
	return s != "" && s[0] != ' '
}

// IndustryCode 空白，或去空格后恰好 2 个字母
func IndustryCode(s string) bool {
	s = strings.TrimSpace(s)
	return s == "" || (len(s) == 2 && isLetters(s))
}

// MemberNumber 空白，或恰好为 3 位数字 + 2 个字母 + 5 位数字
func MemberNumber(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return true
	}
	return len(s) == 10 && isDigits(s[:3]) && isLetters(s[3:5]) && isDigits(s[5:])
}

// Alpha 空白，或去空格后全是字母
func Alpha(s string) bool {
	s = strings.TrimSpace(s)
	return s == "" || isLetters(s)
}

// Contains 原始值包含子串
func Contains(sub string) Check {
	return func(s string) bool {
		return strings.Contains(s, sub)
	}
}

// NotContains 原始值不包含子串
func NotContains(sub string) Check {
	return func(s string) bool {
		return !strings.Contains(s, sub)
	}
}

// MaxLen 去空格后长度不超过 n
func MaxLen(n int) Check {
	return func(s string) bool {
		return len(strings.TrimSpace(s)) <= n
	}
}

// Len 去空格后长度恰好为 n
func Len(n int) Check {
	return func(s string) bool {
		return len(strings.TrimSpace(s)) == n
	}
}

// SignedDigits 可带 +/- 符号的整数；符号位取原始首字节
func SignedDigits(s string) bool {
	if s == "" {
		return false
	}
	t := strings.TrimSpace(s)
	if s[0] == '+' || s[0] == '-' {
		return isDigits(t[1:])
	}
	return isDigits(t)
}

// FirstDigit 空白，或去掉前导空格后首字节为数字（金额打头的债权人信息）
func FirstDigit(s string) bool {
	s = strings.TrimLeft(s, " ")
	if strings.TrimSpace(s) == "" {
		return true
	}
	return s[0] >= '0' && s[0] <= '9'
}
