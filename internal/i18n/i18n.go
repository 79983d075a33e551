// Package i18n holds the board's translated strings and locale matching.
package i18n

import (
	"strings"

	"golang.org/x/text/language"

	"github.com/hylla/tavla/internal/domain"
)

// Key identifies a translated string.
type Key string

// Catalog keys.
const (
	AppTitle            Key = "app.title"
	TaskInputPrompt     Key = "task.input.placeholder"
	TaskAdd             Key = "task.add"
	TaskDelete          Key = "task.delete"
	TaskEmpty           Key = "task.empty"
	FilterStatus        Key = "filter.status"
	FilterLabel         Key = "filter.label"
	FilterAll           Key = "filter.all"
	FilterAllStatuses   Key = "filter.all_statuses"
	StatusNotStarted    Key = "status.not_started"
	StatusInProgress    Key = "status.in_progress"
	StatusCompleted     Key = "status.completed"
	ProgressLabel       Key = "progress.label"
	ThemeToDark         Key = "theme.to_dark"
	ThemeToLight        Key = "theme.to_light"
	CompletionTitle     Key = "completion.title"
	CompletionMessage   Key = "completion.message"
	CompletionContinue  Key = "completion.continue"
	LabelInputPrompt    Key = "label.input.placeholder"
	ActivityTitle       Key = "activity.title"
	ActivityUnavailable Key = "activity.unavailable"
)

var catalog = map[domain.Language]map[Key]string{
	domain.LanguageJapanese: {
		AppTitle:            "ToDo アプリ",
		TaskInputPrompt:     "新しいタスクを入力...",
		TaskAdd:             "追加",
		TaskDelete:          "削除",
		TaskEmpty:           "タスクはありません",
		FilterStatus:        "ステータスでフィルター",
		FilterLabel:         "ラベルでフィルター",
		FilterAll:           "すべてのラベル",
		FilterAllStatuses:   "すべてのステータス",
		StatusNotStarted:    "未着手",
		StatusInProgress:    "進行中",
		StatusCompleted:     "完了",
		ProgressLabel:       "進捗",
		ThemeToDark:         "ダークモードに切り替え",
		ThemeToLight:        "ライトモードに切り替え",
		CompletionTitle:     "🎉 おめでとうございます！ 🎉",
		CompletionMessage:   "すべてのタスクが完了しました！",
		CompletionContinue:  "続ける",
		LabelInputPrompt:    "ラベル (空欄ですべて)",
		ActivityTitle:       "アクティビティ",
		ActivityUnavailable: "アクティビティ履歴は利用できません",
	},
	domain.LanguageEnglish: {
		AppTitle:            "Todo App",
		TaskInputPrompt:     "Enter new task...",
		TaskAdd:             "Add",
		TaskDelete:          "Delete",
		TaskEmpty:           "No tasks",
		FilterStatus:        "Filter by Status",
		FilterLabel:         "Filter by Label",
		FilterAll:           "All Labels",
		FilterAllStatuses:   "All Statuses",
		StatusNotStarted:    "To Do",
		StatusInProgress:    "In Progress",
		StatusCompleted:     "Done",
		ProgressLabel:       "Progress",
		ThemeToDark:         "Switch to dark mode",
		ThemeToLight:        "Switch to light mode",
		CompletionTitle:     "🎉 Congratulations! 🎉",
		CompletionMessage:   "All tasks have been completed!",
		CompletionContinue:  "Continue",
		LabelInputPrompt:    "label (empty for all)",
		ActivityTitle:       "Activity",
		ActivityUnavailable: "Activity history is unavailable",
	},
	domain.LanguageChinese: {
		AppTitle:            "待办事项应用",
		TaskInputPrompt:     "输入新任务...",
		TaskAdd:             "添加",
		TaskDelete:          "删除",
		TaskEmpty:           "没有任务",
		FilterStatus:        "按状态筛选",
		FilterLabel:         "按标签筛选",
		FilterAll:           "所有标签",
		FilterAllStatuses:   "所有状态",
		StatusNotStarted:    "待办",
		StatusInProgress:    "进行中",
		StatusCompleted:     "已完成",
		ProgressLabel:       "进度",
		ThemeToDark:         "切换到深色模式",
		ThemeToLight:        "切换到浅色模式",
		CompletionTitle:     "🎉 恭喜！ 🎉",
		CompletionMessage:   "所有任务都已完成！",
		CompletionContinue:  "继续",
		LabelInputPrompt:    "标签 (留空显示全部)",
		ActivityTitle:       "活动记录",
		ActivityUnavailable: "活动记录不可用",
	},
}

// T returns the translation of key, falling back to English and then to the key itself.
func T(lang domain.Language, key Key) string {
	if msg, ok := catalog[lang][key]; ok {
		return msg
	}
	if msg, ok := catalog[domain.LanguageEnglish][key]; ok {
		return msg
	}
	return string(key)
}

// StatusName returns the localized column title for status.
func StatusName(lang domain.Language, status domain.Status) string {
	switch status {
	case domain.StatusNotStarted:
		return T(lang, StatusNotStarted)
	case domain.StatusInProgress:
		return T(lang, StatusInProgress)
	case domain.StatusCompleted:
		return T(lang, StatusCompleted)
	default:
		return string(status)
	}
}

// supported is index-aligned with the matcher tags below.
var supported = []domain.Language{domain.LanguageJapanese, domain.LanguageEnglish, domain.LanguageChinese}

var matcher = language.NewMatcher([]language.Tag{language.Japanese, language.English, language.Chinese})

// Match maps a locale string such as "zh_CN.UTF-8" or "en-GB" to a supported language.
// Unknown or empty locales resolve to Japanese.
func Match(raw string) domain.Language {
	raw = strings.TrimSpace(raw)
	if idx := strings.IndexAny(raw, ".@"); idx >= 0 {
		raw = raw[:idx]
	}
	raw = strings.ReplaceAll(raw, "_", "-")
	if raw == "" || raw == "C" || raw == "POSIX" {
		return domain.LanguageJapanese
	}
	tag, err := language.Parse(raw)
	if err != nil {
		return domain.LanguageJapanese
	}
	_, idx, conf := matcher.Match(tag)
	if conf == language.No || idx < 0 || idx >= len(supported) {
		return domain.LanguageJapanese
	}
	return supported[idx]
}
