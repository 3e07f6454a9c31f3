package render

import (
	"strings"
	"testing"

	"github.com/dmitrijs2005/finmate/internal/client/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKRW(t *testing.T) {
	assert.Equal(t, "₩12,000,000", KRW(12000000))
	assert.Equal(t, "₩0", KRW(0))
	assert.Equal(t, "₩1,035,000", Won(decimal.RequireFromString("1034999.6")))
	assert.Equal(t, "-", OptionalKRW(nil))
	assert.Equal(t, "₩34", OptionalKRW(models.Int64(34)))
	d := decimal.NewFromInt(2140000)
	assert.Equal(t, "₩2,140,000", OptionalWon(&d))
	assert.Equal(t, "-", OptionalWon(nil))
}

func TestPercent(t *testing.T) {
	assert.Equal(t, "3.50%", Percent(decimal.RequireFromString("3.5")))
	assert.Equal(t, "0.00%", Percent(decimal.Zero))
}

func TestTerminal(t *testing.T) {
	out, err := Terminal("# 추천\n\n정기예금 **A**를 추천합니다.", "notty", 60)
	require.NoError(t, err)
	assert.Contains(t, out, "추천")
	assert.Contains(t, out, "정기예금")
}

func TestHTMLRenderer(t *testing.T) {
	h := NewHTMLRenderer()

	out, err := h.Render("**굵게** [link](https://example.org)\n\n<script>alert(1)</script>")
	require.NoError(t, err)
	s := string(out)

	assert.Contains(t, s, "<strong>굵게</strong>")
	assert.Contains(t, s, `href="https://example.org"`)
	assert.Contains(t, s, "noreferrer")
	assert.Contains(t, s, `target="_blank"`)
	assert.NotContains(t, strings.ToLower(s), "<script")
}

func TestHTMLRenderer_StripsJavascriptLinks(t *testing.T) {
	out, err := NewHTMLRenderer().Render("[x](javascript:alert(1))")
	require.NoError(t, err)
	assert.NotContains(t, string(out), "javascript:")
}
