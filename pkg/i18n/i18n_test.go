package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadBundle(t *testing.T) *Bundle {
	t.Helper()
	b, err := Load(EmbeddedLocales, []string{"en", "sk"})
	require.NoError(t, err)
	return b
}

func TestLoad_EmbeddedLocales(t *testing.T) {
	b := loadBundle(t)

	assert.Equal(t, "Home", b.T("en", "nav.home"))
	assert.Equal(t, "Domov", b.T("sk", "nav.home"))
}

func TestT_FallsBackToDefaultLocale(t *testing.T) {
	b := loadBundle(t)

	assert.Equal(t, "Home", b.T("de", "nav.home"))
}

func TestT_UnknownKeyReturnsKey(t *testing.T) {
	b := loadBundle(t)

	assert.Equal(t, "nav.nonexistent", b.T("en", "nav.nonexistent"))
}

func TestMessages_UnknownLocaleFallsBack(t *testing.T) {
	b := loadBundle(t)

	assert.Equal(t, b.Messages("en"), b.Messages("fr"))
}

func TestLoad_MissingLocaleFails(t *testing.T) {
	_, err := Load(EmbeddedLocales, []string{"en", "de"})
	assert.Error(t, err)
}
