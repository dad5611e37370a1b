// Package format 展示层的纯格式化函数；无状态、无副作用。
package format

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

// Date 短日期展示
func Date(t time.Time) string {
	return t.Format("Jan 2, 2006")
}

var currencySymbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
	"CAD": "CA$",
	"AUD": "A$",
	"CHF": "CHF ",
	"INR": "₹",
	"TRY": "₺",
}

// Currency 已知币种用符号 + 千分位；未知币种退化为 "CODE 1234.50"
func Currency(amount float64, code string) string {
	sym, ok := currencySymbols[code]
	if !ok {
		return fmt.Sprintf("%s %.2f", code, amount)
	}
	neg := amount < 0
	if neg {
		amount = -amount
	}
	s := groupThousands(fmt.Sprintf("%.2f", amount))
	if neg {
		return "-" + sym + s
	}
	return sym + s
}

// PhoneNumber 10/11 位纯数字转 (XXX) XXX-XXXX；其余长度原样返回
func PhoneNumber(s string) string {
	for _, r := range s {
		if r < '0' || r > '9' {
			return s
		}
	}
	switch len(s) {
	case 10:
		return fmt.Sprintf("(%s) %s-%s", s[0:3], s[3:6], s[6:10])
	case 11:
		return fmt.Sprintf("+%s (%s) %s-%s", s[0:1], s[1:4], s[4:7], s[7:11])
	}
	return s
}

// TruncateText 超长截断并补省略号；未超限不加
func TruncateText(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen]) + "..."
}

// TitleCase 每个单词首字母大写
func TitleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	startWord := true
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			startWord = true
			b.WriteRune(r)
		case startWord:
			startWord = false
			b.WriteRune(unicode.ToUpper(r))
		default:
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

// Number 整数千分位
func Number(n int64) string {
	neg := n < 0
	if neg {
		n = -n
	}
	s := groupThousands(fmt.Sprintf("%d", n))
	if neg {
		return "-" + s
	}
	return s
}

// groupThousands 对整数部分插入逗号；s 可带小数位
func groupThousands(s string) string {
	intPart, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i:]
	}
	n := len(intPart)
	if n <= 3 {
		return intPart + frac
	}
	var b strings.Builder
	rem := n % 3
	if rem > 0 {
		b.WriteString(intPart[:rem])
	}
	for i := rem; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(intPart[i : i+3])
	}
	return b.String() + frac
}

// Bytes 1024 进制，最高到 TB
func Bytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	units := []string{"KB", "MB", "GB", "TB"}
	v := float64(n)
	idx := -1
	for v >= unit && idx < len(units)-1 {
		v /= unit
		idx++
	}
	return fmt.Sprintf("%.1f %s", v, units[idx])
}

// Percentage 一位小数 + %
func Percentage(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}

// RelativeTime 粗粒度相对时间；阈值取闭区间下界（60 秒即进入分钟档）
func RelativeTime(t, now time.Time) string {
	secs := int64(now.Sub(t).Seconds())
	if secs < 60 {
		return "just now"
	}
	if mins := secs / 60; mins < 60 {
		return plural(mins, "minute")
	}
	if hours := secs / 3600; hours < 24 {
		return plural(hours, "hour")
	}
	days := secs / 86400
	if days < 30 {
		return plural(days, "day")
	}
	if months := days / 30; months < 12 {
		return plural(months, "month")
	}
	return plural(days/365, "year")
}

func plural(n int64, unit string) string {
	if n <= 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}
