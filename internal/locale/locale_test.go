package locale

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
	"golang.org/x/text/language"
)

func TestToggle(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/docs/introduction_to_bumo", "/cn/docs/introduction_to_bumo"},
		{"/cn/docs/introduction_to_bumo", "/docs/introduction_to_bumo"},
		{"/docs/canonical", "/cn/docs/canonical"},
		{"/docs/cn-something", "/cn/docs/cn-something"},
		{"/docs/cn", "/cn/docs/cn"},
		{"/cnx/page", "/cn/cnx/page"},
		{"/", "/cn/"},
		{"/cn/", "/"},
		{"/cn", "/"},
		{"", "/cn/"},
		{"docs/x", "/cn/docs/x"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, Toggle(tt.path))
		})
	}
}

func TestIsSecondaryChecksFirstSegmentOnly(t *testing.T) {
	assert.True(t, IsSecondary("/cn/docs/x"))
	assert.True(t, IsSecondary("/cn"))
	assert.False(t, IsSecondary("/docs/cn/x"))
	assert.False(t, IsSecondary("/cnx"))
	assert.False(t, IsSecondary("/"))
}

func TestTarget(t *testing.T) {
	assert.Equal(t, "https://docs.bumo.io/cn/docs/introduction_to_bumo",
		Target("https://docs.bumo.io/", "/docs/introduction_to_bumo"))
	assert.Equal(t, "https://docs.bumo.io/docs/introduction_to_bumo",
		Target("https://docs.bumo.io", "/cn/docs/introduction_to_bumo"))
}

func TestLocalePath(t *testing.T) {
	assert.Equal(t, "/cn/docs/x", Chinese.Path("/docs/x"))
	assert.Equal(t, "/cn/docs/x", Chinese.Path("/cn/docs/x"))
	assert.Equal(t, "/docs/x", English.Path("/cn/docs/x"))
	assert.Equal(t, "/docs/x", English.Path("/docs/x"))
}

func TestFromPathAndTag(t *testing.T) {
	assert.Equal(t, Chinese, FromPath("/cn/docs/x"))
	assert.Equal(t, English, FromPath("/docs/x"))
	assert.Equal(t, language.SimplifiedChinese, Chinese.Tag())
	assert.Equal(t, language.English, English.Tag())
}

func TestSwitchURL(t *testing.T) {
	assert.Equal(t, "/_locale?from=%2Fdocs%2Fx", SwitchURL("/docs/x"))
}

func TestToggleRoundTrip(t *testing.T) {
	properties := gopter.NewProperties(nil)

	segment := gen.RegexMatch(`^[a-z0-9_-]{1,12}$`)

	properties.Property("toggle twice returns the original path", prop.ForAll(
		func(segs []string, secondary bool) bool {
			p := "/" + strings.Join(segs, "/")
			if secondary {
				p = "/cn" + p
			}
			// "/cn" canonicalizes to "/cn/", and "/cn/cn" strips down to it.
			if p == "/cn" || p == "/cn/cn" {
				return true
			}
			return Toggle(Toggle(p)) == p
		},
		gen.SliceOf(segment),
		gen.Bool(),
	))

	properties.Property("only an exact first segment is the prefix", prop.ForAll(
		func(first string, rest []string) bool {
			p := "/" + first + "/" + strings.Join(rest, "/")
			return IsSecondary(p) == (first == Prefix)
		},
		segment,
		gen.SliceOf(segment),
	))

	properties.TestingRun(t)
}

const header = `<!DOCTYPE html><html><body>
<div class="fixedHeaderContainer"><div class="headerWrapper wrapper">
<div class="navigationWrapper navigationSlider"><nav class="slidingNav">
<ul class="nav-site nav-site-internal">
<li><a href="/docs/introduction_to_bumo">Docs</a></li>
<li><a href="javascript:(0);" target="_self">中文</a></li>
</ul></nav></div></div></div>
<div class="mainContainer"><ul class="nav-site"><li><a href="javascript:(0);">stray</a></li></ul></div>
</body></html>`

func TestBindRewritesOnlyHeaderPlaceholder(t *testing.T) {
	out, n, err := BindHTML([]byte(header), "/docs/introduction_to_bumo")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	s := string(out)
	assert.Contains(t, s, `href="/_locale?from=%2Fdocs%2Fintroduction_to_bumo"`)
	assert.Contains(t, s, `href="/docs/introduction_to_bumo"`)
	assert.Equal(t, 1, strings.Count(s, `href="javascript:(0);"`), "anchor outside the wrapper must stay untouched")
}

func TestBindIsIdempotent(t *testing.T) {
	root, err := html.Parse(strings.NewReader(header))
	require.NoError(t, err)

	assert.Equal(t, 1, Bind(root, "/cn/"))
	assert.Equal(t, 0, Bind(root, "/cn/"))
}
