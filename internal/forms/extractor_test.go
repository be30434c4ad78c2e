package forms

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BetterCallFirewall/tupisec/internal/models"
)

func TestExtractResolvesAbsoluteAction(t *testing.T) {
	html := `<html><body>
		<form action="/login" method="post">
			<input type="text" name="username">
			<input type="password" name="password">
			<input type="submit" value="Go">
		</form>
	</body></html>`

	e := New()
	got := e.Extract("https://example.com/account", html)
	require.Len(t, got, 1)
	assert.Equal(t, "https://example.com/login", got[0].Action)
	assert.Equal(t, "POST", got[0].Method)
	assert.True(t, got[0].HasPasswordField())
}

func TestExtractDetectsCSRFField(t *testing.T) {
	html := `<form action="/submit" method="post">
		<input type="hidden" name="csrf_token" value="abc">
		<input type="text" name="q">
	</form>`
	got := New().Extract("https://example.com/", html)
	require.Len(t, got, 1)
	assert.Equal(t, "csrf_token", got[0].CSRFField)
}

func TestExtractDefaultsMethodToGET(t *testing.T) {
	html := `<form action="/search"><input type="text" name="q"></form>`
	got := New().Extract("https://example.com/", html)
	require.Len(t, got, 1)
	assert.Equal(t, "GET", got[0].Method)
}

func TestFieldTypeClassification(t *testing.T) {
	html := `<form action="/x">
		<select name="s"></select>
		<textarea name="t"></textarea>
		<input type="checkbox" name="c">
		<input type="radio" name="r">
	</form>`
	got := New().Extract("https://example.com/", html)
	require.Len(t, got, 1)
	types := map[string]models.FieldType{}
	for _, f := range got[0].Fields {
		types[f.Name] = f.Type
	}
	assert.Equal(t, models.FieldSelect, types["s"])
	assert.Equal(t, models.FieldTextarea, types["t"])
	assert.Equal(t, models.FieldCheckbox, types["c"])
	assert.Equal(t, models.FieldRadio, types["r"])
}
