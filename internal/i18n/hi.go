package i18n

var hindi = map[Key]string{
	Welcome:              "🌟 Group Buyer Bot में आपका स्वागत है! 🌟\n\nअपनी भाषा चुनें:",
	SelectCurrency:       "💱 अपनी मुद्रा चुनें:",
	CurrencySelected:     "✅ मुद्रा %s पर सेट की गई।",
	SubmitPrompt:         "📩 अपने ग्रुप या चैनल का लिंक भेजें (t.me/...)।",
	LanguageRequired:     "कृपया पहले /start से भाषा चुनें।",
	InvalidLink:          "❌ यह ग्रुप या चैनल का मान्य लिंक नहीं है।",
	AlreadySubmitted:     "⚠️ आप यह ग्रुप पहले ही जमा कर चुके हैं।",
	VerificationInFlight: "⏳ नया ग्रुप भेजने से पहले मौजूदा सत्यापन पूरा करें।",
	Checking:             "🔍 ग्रुप की जाँच हो रही है, कृपया प्रतीक्षा करें...",
	PublicNotJoinable:    "❌ यह ग्रुप निजी या प्रतिबंधित है, इसमें शामिल नहीं हो सकते।",
	InviteExpired:        "❌ यह आमंत्रण लिंक समाप्त हो चुका है।",
	InviteInvalid:        "❌ यह आमंत्रण लिंक अमान्य है।",
	UsernameNotFound:     "❌ इस यूज़रनेम का कोई ग्रुप या चैनल नहीं मिला।",
	JoinFailed:           "❌ ग्रुप में शामिल नहीं हो सके। लिंक जाँचकर फिर प्रयास करें।",
	GenericError:         "❌ कुछ गलत हो गया। कृपया बाद में प्रयास करें।",
	Eligible:             "✅ %d में बना, %s पॉइंट्स के योग्य!\n\nस्वामित्व @%s को सौंपें, फिर नीचे बटन दबाएँ।",
	DoneOwnershipButton:  "✅ स्वामित्व सौंप दिया",
	OwnershipDone:        "🎉 स्वामित्व की पुष्टि हुई! %s पॉइंट्स जोड़े गए।",
	OwnershipFailed:      "❌ स्वामित्व नहीं सौंपा गया। कोई पॉइंट नहीं जोड़ा गया।",
	NoPending:            "⚠️ इस ग्रुप के लिए कोई लंबित सत्यापन नहीं है।",
	PointsBalance:        "💰 आपका बैलेंस: %s %s",
	Portfolio:            "📊 आपका पोर्टफोलियो\n\nबैलेंस: %s %s\nबेचे गए ग्रुप: %d",
	WithdrawInsufficient: "❌ निकासी के लिए कम से कम %s पॉइंट्स चाहिए।",
	WithdrawPrompt:       "💸 %s में राशि और भुगतान आईडी भेजें, जैसे \"50 name@upi\"।",
	WithdrawSuccess:      "✅ %s %s की निकासी का अनुरोध दर्ज हुआ। शेष बैलेंस: %s %s",
	WithdrawInvalid:      "❌ गलत प्रारूप। \"<राशि> <भुगतान आईडी>\" का उपयोग करें।",
	WithdrawMinimum:      "❌ न्यूनतम निकासी %s %s है।",
	WithdrawNoFunds:      "❌ रूपांतरण के बाद पर्याप्त पॉइंट्स नहीं हैं।",
	WithdrawPending:      "⏳ निकासी से पहले मौजूदा सत्यापन पूरा करें।",
	MyGroups:             "📋 आपके जमा किए गए ग्रुप:\n%s",
	NoGroups:             "❌ अभी तक कोई ग्रुप जमा नहीं किया गया।",
	Stats:                "📈 बॉट आँकड़े\n\nउपयोगकर्ता: %d\nसक्रिय उपयोगकर्ता: %d\nकुल पॉइंट्स: %s\nऔसत पॉइंट्स: %s\nकुल निकासी: %s",
	Leaderboard:          "🏆 लीडरबोर्ड\n\n%s",
	LeaderboardEmpty:     "🏆 लीडरबोर्ड खाली है।",
	AdminOnly:            "⛔ यह कमांड केवल एडमिन के लिए है।",
	NoLogs:               "📭 अभी कोई लॉग नहीं है।",
	Logs:                 "🗒 हाल के लॉग\n\n%s",
	TooManyRequests:      "⏳ बहुत अधिक अनुरोध। कृपया थोड़ा रुकें।",
}
