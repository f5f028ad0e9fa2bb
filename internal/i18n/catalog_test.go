package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTranslateUnknownKeyReturnsKey(t *testing.T) {
	c := NewCatalog(English)
	assert.Equal(t, "no.such.key", c.Translate("no.such.key", Korean))
}

func TestTranslateFallsBackToDefaultLanguage(t *testing.T) {
	c := NewCatalog(English)
	assert.Equal(t, "Normal", c.Translate(KeyGradeNormal, "fr"))
	assert.Equal(t, "정상", c.Translate(KeyGradeNormal, Korean))
}

func TestRenderNestedMessages(t *testing.T) {
	c := NewCatalog(English)
	msg := M(KeyPatternOutlier, M(KeyAllHigh))

	assert.Equal(t, "Unusual response pattern: All dimensions are unrealistically high", c.Render(msg, English))
	assert.Equal(t, "이상 응답 패턴: 모든 차원이 비현실적으로 높음", c.Render(msg, Korean))
}

func TestRenderReordersKoreanArguments(t *testing.T) {
	c := NewCatalog(English)
	msg := M(KeyRapidChange, 3.0, 2, 1.5)

	assert.Equal(t, "3.00 change over 2 days (1.50 per day)", c.Render(msg, English))
	assert.Equal(t, "2일 동안 3.00 변화 (일일 1.50)", c.Render(msg, Korean))
}

func TestResolveAcceptLanguage(t *testing.T) {
	c := NewCatalog(English)

	assert.Equal(t, Korean, c.Resolve("ko-KR,ko;q=0.9,en;q=0.5"))
	assert.Equal(t, English, c.Resolve("en-US"))
	assert.Equal(t, Korean, c.Resolve("ko"))
	assert.Equal(t, English, c.Resolve(""))
	assert.Equal(t, English, c.Resolve("!!!"))

	ko := NewCatalog(Korean)
	assert.Equal(t, Korean, ko.Default())
	assert.Equal(t, []string{Korean, English}, ko.Languages())
}

func TestAddOverridesEntry(t *testing.T) {
	c := NewCatalog(English)
	c.Add("custom.greeting", map[string]string{English: "Hello %s"})

	assert.Equal(t, "Hello Kim", c.Render(M("custom.greeting", "Kim"), Korean))
	assert.Equal(t, []string{"Hello A", "Normal"}, c.RenderAll([]Message{M("custom.greeting", "A"), M(KeyGradeNormal)}, English))
}
