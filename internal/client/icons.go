package client

import "strings"

// DefaultIcon is shown for names without a glyph
const DefaultIcon = "•"

var icons = map[string]string{
	"customers":        "👤",
	"suppliers":        "🏭",
	"cities":           "🏙",
	"lookups":          "📚",
	"petty-cash":       "💵",
	"payment-vouchers": "🧾",
	"lease-invoices":   "📄",
	"lease-receipts":   "🏠",
	"attachments":      "📎",

	"create":   "➕",
	"update":   "✏",
	"delete":   "🗑",
	"approve":  "✔",
	"reverse":  "↩",
	"search":   "🔍",
	"export":   "⬇",
	"print":    "🖨",
	"login":    "🔑",
	"logout":   "🚪",
	"settings": "⚙",

	"success": "✅",
	"info":    "ℹ",
	"warning": "⚠",
	"error":   "✖",
}

// Icon returns the glyph of an entity or action name, or DefaultIcon
func Icon(name string) string {
	if g, ok := icons[strings.ToLower(strings.TrimSpace(name))]; ok {
		return g
	}
	return DefaultIcon
}
