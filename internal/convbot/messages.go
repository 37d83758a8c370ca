package convbot

import (
	"fmt"
	"strings"
	"time"

	"github.com/m3rciful/nbrbbot/internal/conversion"
	"github.com/m3rciful/nbrbbot/internal/currency"
)

const (
	textGreeting = "Привет! Я конвертирую валюты по официальным курсам НБ РБ.\n\nВыберите операцию:"
	textHelp     = "Нажмите на кнопки меню или используйте команды:\n/start — меню\n/help — помощь\n/id — ваш ID"
	textAbout    = "🤖 Бот использует официальные курсы Национального банка Республики Беларусь.\nДанные обновляются по будням."
	textUseMenu  = "Выберите действие из меню:"
	textBadInput = "❌ Введите положительное число (например: 100 или 500.75)"
	textFailure  = "⚠️ Что-то пошло не так. Попробуйте ещё раз."
	textTooFast  = "⏳ Слишком много сообщений. Отправьте последнее ещё раз через пару секунд."

	ratesDateLayout = "02.01.2006"
)

var flags = map[currency.Code]string{
	currency.USD: "🇺🇸",
	currency.RUB: "🇷🇺",
}

func promptAmount(code currency.Code) string {
	return fmt.Sprintf("Введите сумму в *%s*:", code)
}

func textID(userID int64) string {
	return fmt.Sprintf("Ваш ID: `%d`", userID)
}

func rateUnavailable(code currency.Code) string {
	return fmt.Sprintf("⚠️ Не удалось получить курс %s. Попробуйте позже.", code)
}

// ratesText renders the "today's rates" message; a nil record prints ❌.
func ratesText(day time.Time, codes []currency.Code, recs map[currency.Code]*currency.RateRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🏦 *Курсы НБ РБ на %s*:\n", day.Format(ratesDateLayout))
	for _, code := range codes {
		b.WriteByte('\n')
		rec := recs[code]
		if rec == nil {
			fmt.Fprintf(&b, "%s 1 %s = ❌", flags[code], code)
			continue
		}
		fmt.Fprintf(&b, "%s 1 %s = *%s BYN*", flags[code], code, conversion.FormatRate(rec.UnitRate()))
		if rec.Scale > 1 {
			fmt.Fprintf(&b, " (за %d %s: %s)", rec.Scale, code, conversion.FormatRate(rec.OfficialRate))
		}
	}
	return b.String()
}
