package i18n

var russian = map[Key]string{
	Welcome:              "🌟 Добро пожаловать в Group Buyer Bot! 🌟\n\nВыберите язык:",
	SelectCurrency:       "💱 Выберите валюту:",
	CurrencySelected:     "✅ Валюта: %s.",
	SubmitPrompt:         "📩 Отправьте ссылку на группу или канал, которым вы владеете (t.me/...).",
	LanguageRequired:     "Сначала выберите язык с помощью /start.",
	InvalidLink:          "❌ Это не ссылка на группу или канал.",
	AlreadySubmitted:     "⚠️ Вы уже отправляли эту группу.",
	VerificationInFlight: "⏳ Завершите текущую проверку, прежде чем отправлять новую группу.",
	Checking:             "🔍 Проверяем группу, подождите...",
	PublicNotJoinable:    "❌ Группа закрыта или ограничена, вступить в неё нельзя.",
	InviteExpired:        "❌ Срок действия приглашения истёк.",
	InviteInvalid:        "❌ Ссылка-приглашение недействительна.",
	UsernameNotFound:     "❌ Группа или канал с таким именем не найдены.",
	JoinFailed:           "❌ Не удалось вступить в группу. Проверьте ссылку и попробуйте снова.",
	GenericError:         "❌ Что-то пошло не так. Попробуйте позже.",
	Eligible:             "✅ Создана в %d году, награда %s очков!\n\nПередайте владение @%s и нажмите кнопку ниже.",
	DoneOwnershipButton:  "✅ Владение передано",
	OwnershipDone:        "🎉 Владение подтверждено! Начислено %s очков.",
	OwnershipFailed:      "❌ Владение не передано. Очки не начислены.",
	NoPending:            "⚠️ Для этой группы нет ожидающей проверки.",
	PointsBalance:        "💰 Ваш баланс: %s %s",
	Portfolio:            "📊 Ваш портфель\n\nБаланс: %s %s\nПродано групп: %d",
	WithdrawInsufficient: "❌ Для вывода нужно минимум %s очков.",
	WithdrawPrompt:       "💸 Отправьте сумму в %s и реквизиты, например \"50 name@upi\".",
	WithdrawSuccess:      "✅ Заявка на вывод %s %s создана. Остаток: %s %s",
	WithdrawInvalid:      "❌ Неверный формат. Используйте \"<сумма> <реквизиты>\".",
	WithdrawMinimum:      "❌ Минимальная сумма вывода %s %s.",
	WithdrawNoFunds:      "❌ Недостаточно очков после конвертации.",
	WithdrawPending:      "⏳ Завершите текущую проверку перед выводом средств.",
	MyGroups:             "📋 Ваши группы:\n%s",
	NoGroups:             "❌ Вы ещё не отправляли групп.",
	Stats:                "📈 Статистика бота\n\nПользователей: %d\nАктивных: %d\nВсего очков: %s\nВ среднем: %s\nВыведено: %s",
	Leaderboard:          "🏆 Таблица лидеров\n\n%s",
	LeaderboardEmpty:     "🏆 Таблица лидеров пуста.",
	AdminOnly:            "⛔ Команда доступна только администраторам.",
	NoLogs:               "📭 Логов пока нет.",
	Logs:                 "🗒 Последние логи\n\n%s",
	TooManyRequests:      "⏳ Слишком много запросов. Подождите немного.",
}
