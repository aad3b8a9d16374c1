package critic

// Default prompt templates, overridable through JUDGE_PROMPT and
// PROMO_PROMPT. Both are text/template sources rendered with promptData.

const defaultJudgePrompt = `Ти кінокритик. Чи рекомендуєш цей фільм аудиторії, яка любить {{.Criteria}}?
Назва: {{.Title}}
Опис: {{.Overview}}
Рейтинг: {{.Rating}}
Відповідь лише "Так" або "Ні" з коротким поясненням до 15 слів.`

const defaultPromoPrompt = `Напиши короткий, емоційний опис фільму "{{.Title}}" на основі:
{{.Overview}}
Пиши 2-3 речення, як для TikTok чи Telegram. Без води. В тебе є 200 символів.`

// promptData is the rendering context for both templates.
type promptData struct {
	Title    string
	Overview string
	Rating   float64
	Criteria string
}
