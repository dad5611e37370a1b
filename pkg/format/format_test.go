package format

import (
	"testing"
	"time"
)

func TestCurrency(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		amount float64
		code   string
		want   string
	}{
		{name: "zero usd", amount: 0, code: "USD", want: "$0.00"},
		{name: "unknown code falls back", amount: 1234.5, code: "XXX", want: "XXX 1234.50"},
		{name: "thousands grouping", amount: 1234567.89, code: "USD", want: "$1,234,567.89"},
		{name: "euro", amount: 99.9, code: "EUR", want: "€99.90"},
		{name: "negative keeps sign outside symbol", amount: -1500, code: "USD", want: "-$1,500.00"},
		{name: "exactly three digits ungrouped", amount: 999.99, code: "GBP", want: "£999.99"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if got := Currency(tc.amount, tc.code); got != tc.want {
				t.Fatalf("Currency(%v, %q) = %q, want %q", tc.amount, tc.code, got, tc.want)
			}
		})
	}
}

func TestPhoneNumber(t *testing.T) {
	t.Parallel()

	cases := []struct{ in, want string }{
		{"1234567890", "(123) 456-7890"},
		{"11234567890", "+1 (123) 456-7890"},
		{"12345", "12345"},                   // 长度不对
		{"123456789012", "123456789012"},     // 超长
		{"123-456-7890", "123-456-7890"},     // 非纯数字
		{"+11234567890", "+11234567890"},     // 带前缀
		{"", ""},
	}
	for _, tc := range cases {
		if got := PhoneNumber(tc.in); got != tc.want {
			t.Fatalf("PhoneNumber(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestTruncateText(t *testing.T) {
	t.Parallel()

	if got := TruncateText("hello world", 5); got != "hello..." {
		t.Fatalf("expected \"hello...\", got %q", got)
	}
	if got := TruncateText("hi", 5); got != "hi" {
		t.Fatalf("within limit must not get ellipsis, got %q", got)
	}
	if got := TruncateText("exact", 5); got != "exact" {
		t.Fatalf("exactly at limit must stay untouched, got %q", got)
	}
	// 按 rune 截断，不切半个多字节字符
	if got := TruncateText("héllo wörld", 5); got != "héllo..." {
		t.Fatalf("rune-based truncation broken, got %q", got)
	}
}

func TestRelativeTimeThresholds(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		name string
		ago  time.Duration
		want string
	}{
		{name: "under a minute", ago: 59 * time.Second, want: "just now"},
		{name: "exactly 60s enters minutes", ago: 60 * time.Second, want: "1 minute ago"},
		{name: "plural minutes", ago: 5 * time.Minute, want: "5 minutes ago"},
		{name: "last minute before hours", ago: 59*time.Minute + 59*time.Second, want: "59 minutes ago"},
		{name: "exactly 60m enters hours", ago: time.Hour, want: "1 hour ago"},
		{name: "last hour before days", ago: 24*time.Hour - time.Second, want: "23 hours ago"},
		{name: "exactly 24h enters days", ago: 24 * time.Hour, want: "1 day ago"},
		{name: "last day before months", ago: 30*24*time.Hour - time.Second, want: "29 days ago"},
		{name: "exactly 30d enters months", ago: 30 * 24 * time.Hour, want: "1 month ago"},
		{name: "exactly 12mo enters years", ago: 360 * 24 * time.Hour, want: "1 year ago"},
		{name: "multiple years", ago: 2 * 365 * 24 * time.Hour, want: "2 years ago"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if got := RelativeTime(now.Add(-tc.ago), now); got != tc.want {
				t.Fatalf("RelativeTime(-%v) = %q, want %q", tc.ago, got, tc.want)
			}
		})
	}
}

func TestDate(t *testing.T) {
	t.Parallel()
	d := time.Date(2026, 3, 7, 9, 30, 0, 0, time.UTC)
	if got := Date(d); got != "Mar 7, 2026" {
		t.Fatalf("Date = %q", got)
	}
}

func TestTitleCase(t *testing.T) {
	t.Parallel()
	cases := []struct{ in, want string }{
		{"hello world", "Hello World"},
		{"WEB development", "Web Development"},
		{"", ""},
		{"  spaced  out ", "  Spaced  Out "},
	}
	for _, tc := range cases {
		if got := TitleCase(tc.in); got != tc.want {
			t.Fatalf("TitleCase(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNumberAndBytesAndPercentage(t *testing.T) {
	t.Parallel()

	if got := Number(1234567); got != "1,234,567" {
		t.Fatalf("Number = %q", got)
	}
	if got := Number(-1000); got != "-1,000" {
		t.Fatalf("Number negative = %q", got)
	}
	if got := Number(999); got != "999" {
		t.Fatalf("Number small = %q", got)
	}

	if got := Bytes(512); got != "512 B" {
		t.Fatalf("Bytes = %q", got)
	}
	if got := Bytes(1536); got != "1.5 KB" {
		t.Fatalf("Bytes = %q", got)
	}
	if got := Bytes(5 * 1024 * 1024); got != "5.0 MB" {
		t.Fatalf("Bytes = %q", got)
	}

	if got := Percentage(66.666); got != "66.7%" {
		t.Fatalf("Percentage = %q", got)
	}
}
