package i18n

var english = map[Key]string{
	Welcome:              "🌟 Welcome to Group Buyer Bot! 🌟\n\nSelect your language:",
	SelectCurrency:       "💱 Select your currency:",
	CurrencySelected:     "✅ Currency set to %s.",
	SubmitPrompt:         "📩 Send me a link to a group or channel you own (t.me/...).",
	LanguageRequired:     "Please select a language first with /start.",
	InvalidLink:          "❌ That is not a valid group or channel link.",
	AlreadySubmitted:     "⚠️ You have already submitted this group.",
	VerificationInFlight: "⏳ Finish the current verification before submitting another group.",
	Checking:             "🔍 Checking the group, please wait...",
	PublicNotJoinable:    "❌ This group is private or restricted and cannot be joined.",
	InviteExpired:        "❌ This invite link has expired.",
	InviteInvalid:        "❌ This invite link is invalid.",
	UsernameNotFound:     "❌ No group or channel uses this username.",
	JoinFailed:           "❌ Could not join the group. Please check the link and try again.",
	GenericError:         "❌ Something went wrong. Please try again later.",
	Eligible:             "✅ Created in %d, eligible for %s points!\n\nTransfer ownership to @%s, then press the button below.",
	DoneOwnershipButton:  "✅ Done Ownership",
	OwnershipDone:        "🎉 Ownership confirmed! %s points added to your balance.",
	OwnershipFailed:      "❌ Ownership was not transferred. No points were added.",
	NoPending:            "⚠️ There is no pending verification for this group.",
	PointsBalance:        "💰 Your balance: %s %s",
	Portfolio:            "📊 Your portfolio\n\nBalance: %s %s\nGroups sold: %d",
	WithdrawInsufficient: "❌ You need at least %s points to withdraw.",
	WithdrawPrompt:       "💸 Send the amount in %s and your payout ID, e.g. \"50 name@upi\".",
	WithdrawSuccess:      "✅ Withdrawal of %s %s requested. Remaining balance: %s %s",
	WithdrawInvalid:      "❌ Invalid format. Use \"<amount> <payout id>\".",
	WithdrawMinimum:      "❌ Minimum withdrawal is %s %s.",
	WithdrawNoFunds:      "❌ Insufficient points after conversion.",
	WithdrawPending:      "⏳ Finish the current verification before withdrawing.",
	MyGroups:             "📋 Your submitted groups:\n%s",
	NoGroups:             "❌ No groups submitted yet.",
	Stats:                "📈 Bot statistics\n\nUsers: %d\nActive users: %d\nTotal points: %s\nAverage points: %s\nTotal withdrawn: %s",
	Leaderboard:          "🏆 Leaderboard\n\n%s",
	LeaderboardEmpty:     "🏆 The leaderboard is empty.",
	AdminOnly:            "⛔ This command is for admins only.",
	NoLogs:               "📭 No logs yet.",
	Logs:                 "🗒 Recent logs\n\n%s",
	TooManyRequests:      "⏳ Too many requests. Please wait a moment.",
}
