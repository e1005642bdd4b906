package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedLocales(t *testing.T) {
	require.NoError(t, Initialize())

	assert.Equal(t, []string{"en", "ru"}, GetSupportedLanguages())
	assert.True(t, IsSupported("ru"))
	assert.False(t, IsSupported("de"))

	assert.Equal(t, "Invalid username or password", T("en", KeyAuthInvalidCredentials))
	assert.Equal(t, "Неверное имя пользователя или пароль", T("ru", KeyAuthInvalidCredentials))

	// Unknown languages fall back to English, unknown keys to the key itself
	assert.Equal(t, "Invalid username or password", T("de", KeyAuthInvalidCredentials))
	assert.Equal(t, "no.such.key", T("en", "no.such.key"))
}

func TestLocalesHaveSameKeys(t *testing.T) {
	require.NoError(t, Initialize())

	en := instance.translations["en"]
	ru := instance.translations["ru"]
	for key := range en {
		assert.Contains(t, ru, key)
	}
	for key := range ru {
		assert.Contains(t, en, key)
	}
}
