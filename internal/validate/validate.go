// Package validate 插入形状的服务端校验：逐字段收集错误，全部通过才允许写入。
package validate

import (
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) Error() string { return e.Field + ": " + e.Message }

// Errors 字段级错误集合；互不遮蔽
type Errors []FieldError

func (es Errors) Error() string {
	parts := make([]string, 0, len(es))
	for _, e := range es {
		parts = append(parts, e.Error())
	}
	return strings.Join(parts, "; ")
}

func (es Errors) OrNil() error {
	if len(es) == 0 {
		return nil
	}
	return es
}

func (es *Errors) Add(field, format string, args ...any) {
	*es = append(*es, FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
}

// Required 非空白
func Required(es *Errors, field, v string) {
	if strings.TrimSpace(v) == "" {
		es.Add(field, "is required")
	}
}

// MinLen 按 rune 计数
func MinLen(es *Errors, field, v string, n int) {
	if utf8.RuneCountInString(strings.TrimSpace(v)) < n {
		es.Add(field, "must be at least %d characters", n)
	}
}

// URL 必填的 URL 字段
func URL(es *Errors, field, v string) {
	if !isURL(v) {
		es.Add(field, "must be a valid URL")
	}
}

// OptionalURL 空串按"缺省"处理，不算非法
func OptionalURL(es *Errors, field, v string) {
	if v == "" {
		return
	}
	if !isURL(v) {
		es.Add(field, "must be a valid URL")
	}
}

func isURL(v string) bool {
	u, err := url.Parse(v)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Email 轻校验；严格格式交给发送方
func Email(es *Errors, field, v string) {
	at := strings.IndexByte(v, '@')
	if at <= 0 || at == len(v)-1 || !strings.Contains(v[at+1:], ".") {
		es.Add(field, "must be a valid email")
	}
}

// Range 整数闭区间
func Range(es *Errors, field string, v, lo, hi int) {
	if v < lo || v > hi {
		es.Add(field, "must be between %d and %d", lo, hi)
	}
}

// Positive 金额等必须大于 0
func Positive(es *Errors, field string, v float64) {
	if v <= 0 {
		es.Add(field, "must be greater than zero")
	}
}

// NormalizeOptional 展示与存储统一：空白即"无值"
func NormalizeOptional(v string) string {
	return strings.TrimSpace(v)
}
