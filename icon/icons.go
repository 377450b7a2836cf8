package icon

// Icon identifies a UI symbol in the registry.
type Icon int

const (
	Success Icon = iota + 1
	Fail
	Warn
	Progress
	Channel
	Publish
)

var icons = map[Icon]*iconDef{
	Success: {
		emoji:   "✅",
		nerd:    "",
		plain:   "✓",
		kaomoji: "(^_^)",
		squares: "🟩",
	},
	Fail: {
		emoji:   "❌",
		nerd:    "",
		plain:   "✗",
		kaomoji: "(×_×)",
		squares: "🟥",
	},
	Warn: {
		emoji:   "⚠️",
		nerd:    "",
		plain:   "!",
		kaomoji: "(o_O)",
		squares: "🟨",
	},
	Progress: {
		emoji:   "⏳",
		nerd:    "",
		plain:   "…",
		kaomoji: "(・_・)",
		squares: "🟦",
	},
	Channel: {
		emoji:   "📺",
		nerd:    "",
		plain:   "#",
		kaomoji: "[■_■]",
		squares: "🟪",
	},
	Publish: {
		emoji:   "🚀",
		nerd:    "",
		plain:   "^",
		kaomoji: "ヽ(°〇°)ﾉ",
		squares: "🟧",
	},
}
