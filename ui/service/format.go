package service

import (
	"bytes"
	"html/template"
	"math"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/youssefsiam38/admindash"
)

var printer = message.NewPrinter(language.English)

// FormatMoney formats v as dollars with thousands separators and cents.
func FormatMoney(v float64) string {
	return printer.Sprintf("$%.2f", v)
}

// FormatWholeMoney formats v as whole dollars with thousands separators.
func FormatWholeMoney(v float64) string {
	return printer.Sprintf("$%d", int64(math.Floor(v)))
}

// FormatCount formats n with thousands separators.
func FormatCount(n float64) string {
	return printer.Sprintf("%d", int64(n))
}

// FormatPercent formats a ratio as a signed whole percentage, e.g. "+12%".
func FormatPercent(ratio float64) string {
	pct := int64(math.Round(ratio * 100))
	sign := "+"
	if pct < 0 {
		sign, pct = "-", -pct
	}
	return printer.Sprintf("%s%d%%", sign, pct)
}

// Markdown renders a markdown snippet and sanitizes the resulting HTML.
func (s *Service[TTx]) Markdown(src string) template.HTML {
	if strings.TrimSpace(src) == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := s.markdown.Convert([]byte(src), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(src))
	}
	return template.HTML(s.policy.SanitizeBytes(buf.Bytes()))
}

// Badge renders a status pill. The tone picks its color class.
func Badge(text, tone string) template.HTML {
	return template.HTML(`<span class="badge badge-` + template.HTMLEscapeString(tone) + `">` +
		template.HTMLEscapeString(text) + `</span>`)
}

// Tone maps a role, status or stock status to a badge tone.
func Tone(value string) string {
	switch value {
	case admindash.UserStatusActive, admindash.StockIn, admindash.UserRoleAdmin:
		return "success"
	case admindash.UserStatusPending, admindash.StockLow, admindash.UserRoleManager:
		return "warning"
	case admindash.UserStatusInactive, admindash.StockOut:
		return "error"
	case admindash.UserRoleEditor:
		return "info"
	default:
		return "neutral"
	}
}
