package dispatch

func welcomeText(b func(string) string) string {
	return b("🏗️ EXPERT READER BOT") + "\n\n" +
		"I analyze construction expert reports.\n\n" +
		"Send me a text to analyze.\n\n" +
		b("🤖 Commands:") + "\n" +
		"/start - get started\n" +
		"/help - help\n" +
		"/analyze text - analyze a text"
}

func helpText(b func(string) string) string {
	return b("📋 HELP") + "\n\n" +
		"I analyze construction documents with AI.\n\n" +
		b("📤 What you can send:") + "\n" +
		"• Expert report text\n" +
		"• A question about an inspection\n" +
		"• A problem description\n\n" +
		b("⚙️ Stack:") + "\n" +
		"• Telegram Bot API\n" +
		"• Google Gemini AI"
}
