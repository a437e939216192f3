// Package coerce 把校验通过的定长字段转换为仓库列类型。
//
// 所有函数对任意输入都有定义，解析失败返回 ok=false（缺失值），从不 panic：
// 通过校验的记录仍可能带有脏字段，单个字段失败不应影响整行写入。
package coerce

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Amount 解析金额：空串缺失，去掉前导 $，K/M 后缀分别乘以一千/一百万，溢出视为缺失
func Amount(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	s = strings.TrimPrefix(s, "$")
	if s == "" {
		return 0, false
	}

	multiplier := int64(1)
	switch s[len(s)-1] {
	case 'K':
		multiplier = 1000
		s = s[:len(s)-1]
	case 'M':
		multiplier = 1000000
		s = s[:len(s)-1]
	}

	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, false
	}
	if n > math.MaxInt64/multiplier || n < math.MinInt64/multiplier {
		return 0, false
	}
	return n * multiplier, true
}

// Int 解析整数，空串或无法解析时缺失
func Int(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Float 解析浮点数，空串或无法解析时缺失
func Float(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Date6 保留由两段不相邻字节重新拼接出的 6 位日期串（如 YYYYMM），不再解析为日历日期
func Date6(s string) (string, bool) {
	if strings.TrimSpace(s) == "" {
		return "", false
	}
	return s, true
}

// Date8 解析 MM-DD-YYYY 形态的日期，分隔符位置固定但不校验分隔符本身
func Date8(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if len(s) < 7 {
		return time.Time{}, false
	}

	month, err := strconv.Atoi(strings.TrimSpace(s[:2]))
	if err != nil {
		return time.Time{}, false
	}
	day, err := strconv.Atoi(strings.TrimSpace(s[3:5]))
	if err != nil {
		return time.Time{}, false
	}
	year, err := strconv.Atoi(strings.TrimSpace(s[6:]))
	if err != nil {
		return time.Time{}, false
	}
	if year < 1 || year > 9999 {
		return time.Time{}, false
	}

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date 会把 02-30 之类的日期顺延到下个月，这里视为非法
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}
