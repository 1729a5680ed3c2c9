package markdown

const maxEmojiName = 32

var emojiTable = map[string]string{
	"+1":               "👍",
	"-1":               "👎",
	"thumbsup":         "👍",
	"thumbsdown":       "👎",
	"smile":            "😄",
	"smiley":           "😃",
	"grin":             "😁",
	"laughing":         "😆",
	"joy":              "😂",
	"wink":             "😉",
	"blush":            "😊",
	"heart_eyes":       "😍",
	"thinking":         "🤔",
	"neutral_face":     "😐",
	"confused":         "😕",
	"cry":              "😢",
	"sob":              "😭",
	"angry":            "😠",
	"scream":           "😱",
	"sunglasses":       "😎",
	"heart":            "❤️",
	"broken_heart":     "💔",
	"star":             "⭐",
	"sparkles":         "✨",
	"fire":             "🔥",
	"tada":             "🎉",
	"rocket":           "🚀",
	"bulb":             "💡",
	"memo":             "📝",
	"pencil":           "📝",
	"book":             "📖",
	"books":            "📚",
	"bookmark":         "🔖",
	"warning":          "⚠️",
	"x":                "❌",
	"white_check_mark": "✅",
	"heavy_check_mark": "✔️",
	"question":         "❓",
	"exclamation":      "❗",
	"zap":              "⚡",
	"bug":              "🐛",
	"lock":             "🔒",
	"key":              "🔑",
	"link":             "🔗",
	"eyes":             "👀",
	"wave":             "👋",
	"clap":             "👏",
	"pray":             "🙏",
	"muscle":           "💪",
	"ok_hand":          "👌",
	"point_right":      "👉",
	"coffee":           "☕",
	"tea":              "🍵",
	"pizza":            "🍕",
	"apple":            "🍎",
	"sun":              "☀️",
	"cloud":            "☁️",
	"snowflake":        "❄️",
	"rainbow":          "🌈",
	"moon":             "🌙",
	"earth_americas":   "🌎",
	"calendar":         "📅",
	"clock":            "🕐",
	"hourglass":        "⌛",
	"email":            "📧",
	"phone":            "📱",
	"computer":         "💻",
	"keyboard":         "⌨️",
	"gear":             "⚙️",
	"wrench":           "🔧",
	"hammer":           "🔨",
	"package":          "📦",
	"chart":            "📈",
	"trophy":           "🏆",
	"100":              "💯",
	"cat":              "🐱",
	"dog":              "🐶",
	"smiling_imp":      "😈",
	"poop":             "💩",
	"construction":     "🚧",
	"checkered_flag":   "🏁",
}

// LookupEmoji returns the replacement for a ":name:" shortcode.
func LookupEmoji(name string) (string, bool) {
	r, ok := emojiTable[name]
	return r, ok
}
