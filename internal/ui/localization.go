package ui

import (
	"os"
	"strings"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

// LanguageSystem follows the desktop locale
const LanguageSystem = "system"

// Localization manages UI text translations
type Localization struct {
	bundle          *i18n.Bundle
	localizer       *i18n.Localizer
	currentLanguage string
}

// Text keys for localization
const (
	KeyAppTitle          = "app_title"
	KeyDownload          = "download"
	KeySettings          = "settings"
	KeyLanguage          = "language"
	KeyDownloadDirectory = "download_directory"
	KeyMaxParallel       = "max_parallel"
	KeyOpenOnComplete    = "open_on_complete"
	KeySave              = "save"
	KeyCancel            = "cancel"
	KeyBrowse            = "browse"
	KeyEnterURL          = "enter_url"
	KeySettingsSaved     = "settings_saved"
	KeyErrorOpeningFile  = "error_opening_file"
	KeyPleaseEnterURL    = "please_enter_url"
	KeyAlreadyInProgress = "already_in_progress"
	KeyNoDownloads       = "no_downloads"
	KeyFile              = "file"
	KeyInvalidURL        = "invalid_url"
	KeyDownloadComplete  = "download_complete"

	// Download status
	KeyStarting         = "starting"
	KeyCancelling       = "cancelling"
	KeyFinished         = "finished"
	KeyErrorDownloading = "error_downloading"
	KeyTransferProgress = "transfer_progress"

	// Plural messages, rendered with Plural
	KeyBytes       = "bytes"
	KeySecondsLeft = "seconds_left"
	KeyMinutesLeft = "minutes_left"
	KeyHoursLeft   = "hours_left"
	KeyDaysLeft    = "days_left"
	KeyWeeksLeft   = "weeks_left"
	KeyMonthsLeft  = "months_left"
)

var supportedLanguages = []language.Tag{language.English, language.Russian, language.Portuguese}

// NewLocalization creates a new localization manager
func NewLocalization() *Localization {
	bundle := i18n.NewBundle(language.English)
	bundle.MustAddMessages(language.English, englishMessages...)
	bundle.MustAddMessages(language.Russian, russianMessages...)
	bundle.MustAddMessages(language.Portuguese, portugueseMessages...)

	l := &Localization{bundle: bundle}
	l.SetLanguage("en")
	return l
}

// SetLanguage sets the current language. Unknown languages are ignored.
func (l *Localization) SetLanguage(lang string) {
	if lang == LanguageSystem {
		lang = systemLanguage()
	}

	tag, err := language.Parse(lang)
	if err != nil {
		return
	}
	base, _ := tag.Base()
	for _, supported := range supportedLanguages {
		if supportedBase, _ := supported.Base(); supportedBase == base {
			l.currentLanguage = supported.String()
			l.localizer = i18n.NewLocalizer(l.bundle, l.currentLanguage, language.English.String())
			return
		}
	}
}

// GetText returns localized text for the given key
func (l *Localization) GetText(key string) string {
	return l.localize(&i18n.LocalizeConfig{MessageID: key}, key)
}

// Format returns the localized template for key filled with data
func (l *Localization) Format(key string, data map[string]any) string {
	return l.localize(&i18n.LocalizeConfig{MessageID: key, TemplateData: data}, key)
}

// Plural returns the plural form of key for count
func (l *Localization) Plural(key string, count int64) string {
	return l.localize(&i18n.LocalizeConfig{
		MessageID:    key,
		PluralCount:  count,
		TemplateData: map[string]any{"Count": count},
	}, key)
}

func (l *Localization) localize(config *i18n.LocalizeConfig, fallback string) string {
	text, err := l.localizer.Localize(config)
	if err != nil || text == "" {
		return fallback
	}
	return text
}

// GetCurrentLanguage returns the current language code
func (l *Localization) GetCurrentLanguage() string {
	return l.currentLanguage
}

// GetAvailableLanguages returns map of available languages with their display names
func (l *Localization) GetAvailableLanguages() map[string]string {
	return map[string]string{
		"en": "English",
		"ru": "Русский",
		"pt": "Português",
	}
}

// systemLanguage reads the POSIX locale, e.g. "ru_RU.UTF-8" gives "ru-RU"
func systemLanguage() string {
	for _, env := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		value := os.Getenv(env)
		if value == "" || value == "C" || value == "POSIX" {
			continue
		}
		value, _, _ = strings.Cut(value, ".")
		return strings.ReplaceAll(value, "_", "-")
	}
	return "en"
}

var englishMessages = []*i18n.Message{
	{ID: KeyAppTitle, Other: "Downloads"},
	{ID: KeyDownload, Other: "Download"},
	{ID: KeySettings, Other: "Settings"},
	{ID: KeyLanguage, Other: "Language"},
	{ID: KeyDownloadDirectory, Other: "Download Directory"},
	{ID: KeyMaxParallel, Other: "Max Parallel Downloads"},
	{ID: KeyOpenOnComplete, Other: "Open files when finished"},
	{ID: KeySave, Other: "Save"},
	{ID: KeyCancel, Other: "Cancel"},
	{ID: KeyBrowse, Other: "Browse"},
	{ID: KeyEnterURL, Other: "Enter a URL to download (https://...)"},
	{ID: KeySettingsSaved, Other: "Settings saved successfully!"},
	{ID: KeyErrorOpeningFile, Other: "Error opening file"},
	{ID: KeyPleaseEnterURL, Other: "Please enter a URL"},
	{ID: KeyAlreadyInProgress, Other: "This URL is already downloading"},
	{ID: KeyNoDownloads, Other: "No downloads yet"},
	{ID: KeyFile, Other: "File"},
	{ID: KeyInvalidURL, Other: "Invalid URL"},
	{ID: KeyDownloadComplete, Other: "Download complete"},

	{ID: KeyStarting, Other: "Starting…"},
	{ID: KeyCancelling, Other: "Cancelling…"},
	{ID: KeyFinished, Other: "Finished"},
	{ID: KeyErrorDownloading, Other: "Error downloading: {{.Message}}"},
	{ID: KeyTransferProgress, Other: "{{.Received}} / {{.Total}} — {{.Remaining}}"},

	{ID: KeyBytes, One: "{{.Count}} byte", Other: "{{.Count}} bytes"},
	{ID: KeySecondsLeft, One: "{{.Count}} second left", Other: "{{.Count}} seconds left"},
	{ID: KeyMinutesLeft, One: "{{.Count}} minute left", Other: "{{.Count}} minutes left"},
	{ID: KeyHoursLeft, One: "{{.Count}} hour left", Other: "{{.Count}} hours left"},
	{ID: KeyDaysLeft, One: "{{.Count}} day left", Other: "{{.Count}} days left"},
	{ID: KeyWeeksLeft, One: "{{.Count}} week left", Other: "{{.Count}} weeks left"},
	{ID: KeyMonthsLeft, One: "{{.Count}} month left", Other: "{{.Count}} months left"},
}

var russianMessages = []*i18n.Message{
	{ID: KeyAppTitle, Other: "Загрузки"},
	{ID: KeyDownload, Other: "Скачать"},
	{ID: KeySettings, Other: "Настройки"},
	{ID: KeyLanguage, Other: "Язык"},
	{ID: KeyDownloadDirectory, Other: "Папка загрузки"},
	{ID: KeyMaxParallel, Other: "Макс. параллельных"},
	{ID: KeyOpenOnComplete, Other: "Открывать файлы после загрузки"},
	{ID: KeySave, Other: "Сохранить"},
	{ID: KeyCancel, Other: "Отмена"},
	{ID: KeyBrowse, Other: "Обзор"},
	{ID: KeyEnterURL, Other: "Введите URL для загрузки (https://...)"},
	{ID: KeySettingsSaved, Other: "Настройки успешно сохранены!"},
	{ID: KeyErrorOpeningFile, Other: "Ошибка открытия файла"},
	{ID: KeyPleaseEnterURL, Other: "Пожалуйста, введите URL"},
	{ID: KeyAlreadyInProgress, Other: "Этот URL уже загружается"},
	{ID: KeyNoDownloads, Other: "Загрузок пока нет"},
	{ID: KeyFile, Other: "Файл"},
	{ID: KeyInvalidURL, Other: "Неверный URL"},
	{ID: KeyDownloadComplete, Other: "Загрузка завершена"},

	{ID: KeyStarting, Other: "Запуск…"},
	{ID: KeyCancelling, Other: "Отмена…"},
	{ID: KeyFinished, Other: "Завершено"},
	{ID: KeyErrorDownloading, Other: "Ошибка загрузки: {{.Message}}"},
	{ID: KeyTransferProgress, Other: "{{.Received}} / {{.Total}} — {{.Remaining}}"},

	{ID: KeyBytes, One: "{{.Count}} байт", Few: "{{.Count}} байта", Many: "{{.Count}} байт", Other: "{{.Count}} байта"},
	{ID: KeySecondsLeft, One: "Осталась {{.Count}} секунда", Few: "Осталось {{.Count}} секунды", Many: "Осталось {{.Count}} секунд", Other: "Осталось {{.Count}} секунды"},
	{ID: KeyMinutesLeft, One: "Осталась {{.Count}} минута", Few: "Осталось {{.Count}} минуты", Many: "Осталось {{.Count}} минут", Other: "Осталось {{.Count}} минуты"},
	{ID: KeyHoursLeft, One: "Остался {{.Count}} час", Few: "Осталось {{.Count}} часа", Many: "Осталось {{.Count}} часов", Other: "Осталось {{.Count}} часа"},
	{ID: KeyDaysLeft, One: "Остался {{.Count}} день", Few: "Осталось {{.Count}} дня", Many: "Осталось {{.Count}} дней", Other: "Осталось {{.Count}} дня"},
	{ID: KeyWeeksLeft, One: "Осталась {{.Count}} неделя", Few: "Осталось {{.Count}} недели", Many: "Осталось {{.Count}} недель", Other: "Осталось {{.Count}} недели"},
	{ID: KeyMonthsLeft, One: "Остался {{.Count}} месяц", Few: "Осталось {{.Count}} месяца", Many: "Осталось {{.Count}} месяцев", Other: "Осталось {{.Count}} месяца"},
}

var portugueseMessages = []*i18n.Message{
	{ID: KeyAppTitle, Other: "Downloads"},
	{ID: KeyDownload, Other: "Baixar"},
	{ID: KeySettings, Other: "Configurações"},
	{ID: KeyLanguage, Other: "Idioma"},
	{ID: KeyDownloadDirectory, Other: "Diretório de Download"},
	{ID: KeyMaxParallel, Other: "Max Downloads Paralelos"},
	{ID: KeyOpenOnComplete, Other: "Abrir arquivos ao concluir"},
	{ID: KeySave, Other: "Salvar"},
	{ID: KeyCancel, Other: "Cancelar"},
	{ID: KeyBrowse, Other: "Navegar"},
	{ID: KeyEnterURL, Other: "Digite uma URL para baixar (https://...)"},
	{ID: KeySettingsSaved, Other: "Configurações salvas com sucesso!"},
	{ID: KeyErrorOpeningFile, Other: "Erro ao abrir arquivo"},
	{ID: KeyPleaseEnterURL, Other: "Por favor, digite uma URL"},
	{ID: KeyAlreadyInProgress, Other: "Esta URL já está sendo baixada"},
	{ID: KeyNoDownloads, Other: "Nenhum download ainda"},
	{ID: KeyFile, Other: "Arquivo"},
	{ID: KeyInvalidURL, Other: "URL inválida"},
	{ID: KeyDownloadComplete, Other: "Download concluído"},

	{ID: KeyStarting, Other: "Iniciando…"},
	{ID: KeyCancelling, Other: "Cancelando…"},
	{ID: KeyFinished, Other: "Concluído"},
	{ID: KeyErrorDownloading, Other: "Erro ao baixar: {{.Message}}"},
	{ID: KeyTransferProgress, Other: "{{.Received}} / {{.Total}} — {{.Remaining}}"},

	{ID: KeyBytes, One: "{{.Count}} byte", Many: "{{.Count}} bytes", Other: "{{.Count}} bytes"},
	{ID: KeySecondsLeft, One: "Falta {{.Count}} segundo", Many: "Faltam {{.Count}} segundos", Other: "Faltam {{.Count}} segundos"},
	{ID: KeyMinutesLeft, One: "Falta {{.Count}} minuto", Many: "Faltam {{.Count}} minutos", Other: "Faltam {{.Count}} minutos"},
	{ID: KeyHoursLeft, One: "Falta {{.Count}} hora", Many: "Faltam {{.Count}} horas", Other: "Faltam {{.Count}} horas"},
	{ID: KeyDaysLeft, One: "Falta {{.Count}} dia", Many: "Faltam {{.Count}} dias", Other: "Faltam {{.Count}} dias"},
	{ID: KeyWeeksLeft, One: "Falta {{.Count}} semana", Many: "Faltam {{.Count}} semanas", Other: "Faltam {{.Count}} semanas"},
	{ID: KeyMonthsLeft, One: "Falta {{.Count}} mês", Many: "Faltam {{.Count}} meses", Other: "Faltam {{.Count}} meses"},
}
