package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocalization_DefaultsToEnglish(t *testing.T) {
	l := NewLocalization()

	assert.Equal(t, "en", l.GetCurrentLanguage())
	assert.Equal(t, "Finished", l.GetText(KeyFinished))
	assert.Equal(t, "Starting…", l.GetText(KeyStarting))
}

func TestLocalization_SetLanguage(t *testing.T) {
	l := NewLocalization()

	l.SetLanguage("pt")
	assert.Equal(t, "pt", l.GetCurrentLanguage())
	assert.Equal(t, "Concluído", l.GetText(KeyFinished))

	l.SetLanguage("ru-RU")
	assert.Equal(t, "ru", l.GetCurrentLanguage())
	assert.Equal(t, "Завершено", l.GetText(KeyFinished))

	l.SetLanguage("xx-invalid-!")
	assert.Equal(t, "ru", l.GetCurrentLanguage())

	l.SetLanguage("de")
	assert.Equal(t, "ru", l.GetCurrentLanguage())
}

func TestLocalization_SystemLanguage(t *testing.T) {
	t.Setenv("LC_ALL", "")
	t.Setenv("LC_MESSAGES", "")
	t.Setenv("LANG", "pt_BR.UTF-8")

	l := NewLocalization()
	l.SetLanguage(LanguageSystem)

	assert.Equal(t, "pt", l.GetCurrentLanguage())
}

func TestLocalization_Format(t *testing.T) {
	l := NewLocalization()

	result := l.Format(KeyErrorDownloading, map[string]any{"Message": "connection reset"})
	assert.Equal(t, "Error downloading: connection reset", result)
}

func TestLocalization_UnknownKey(t *testing.T) {
	l := NewLocalization()
	assert.Equal(t, "no_such_key", l.GetText("no_such_key"))
}

func TestLocalization_Plural(t *testing.T) {
	l := NewLocalization()

	assert.Equal(t, "1 byte", l.Plural(KeyBytes, 1))
	assert.Equal(t, "2 bytes", l.Plural(KeyBytes, 2))
}

func TestLocalization_GetAvailableLanguages(t *testing.T) {
	languages := NewLocalization().GetAvailableLanguages()
	assert.Len(t, languages, 3)
	assert.Equal(t, "English", languages["en"])
}
