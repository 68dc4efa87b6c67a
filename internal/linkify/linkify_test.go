package linkify

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func anchor(href, label string) string {
	return `<a href="` + href + `" target="_blank" rel="noopener noreferrer">` + label + `</a>`
}

func TestNormalizeWithoutURLsIsIdentity(t *testing.T) {
	inputs := []string{
		"",
		"plain text",
		"a < b && c > d",
		"<p>Hello <b>world</b></p>",
		"ftp://files.example.com is not http",
		"http:/missing-slash.example.com",
		"<!-- comment --> &amp; &nbsp; trailing <",
		"<P CLASS=\"X\">Upper Case Tags</P>",
		`<img src="https://x.io"> a<b`,
		`<p title="https://x.io">unclosed <a href="`,
	}
	for _, in := range inputs {
		assert.Equal(t, in, Normalize(in), "input %q", in)
	}
}

func TestNormalizeLabels(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "github with www",
			in:   "Code at https://www.github.com/foo/bar today.",
			want: "Code at " + anchor("https://www.github.com/foo/bar", "View on GitHub") + " today.",
		},
		{
			name: "youtube",
			in:   "https://youtube.com/watch?v=abc",
			want: anchor("https://youtube.com/watch?v=abc", "Watch on YouTube"),
		},
		{
			name: "linkedin www prefix stripped",
			in:   "https://www.linkedin.com/in/x",
			want: anchor("https://www.linkedin.com/in/x", "View on LinkedIn"),
		},
		{
			name: "twitter over http",
			in:   "follow http://twitter.com/someone",
			want: "follow " + anchor("http://twitter.com/someone", "View on Twitter"),
		},
		{
			name: "unknown host labels itself",
			in:   "https://example.org/page",
			want: anchor("https://example.org/page", "example.org"),
		},
		{
			name: "unknown host keeps subdomain",
			in:   "https://blog.example.org/page",
			want: anchor("https://blog.example.org/page", "blog.example.org"),
		},
		{
			name: "host is lower-cased and port dropped",
			in:   "https://WWW.GitHub.com:443/x",
			want: anchor("https://WWW.GitHub.com:443/x", "View on GitHub"),
		},
		{
			name: "only a leading www is stripped",
			in:   "https://mirror.www.github.com/",
			want: anchor("https://mirror.www.github.com/", "mirror.www.github.com"),
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Normalize(tc.in))
		})
	}
}

func TestNormalizeMultipleURLsInOrder(t *testing.T) {
	in := "first https://github.com/a then https://example.org/b and https://www.youtube.com/c"
	want := "first " + anchor("https://github.com/a", "View on GitHub") +
		" then " + anchor("https://example.org/b", "example.org") +
		" and " + anchor("https://www.youtube.com/c", "Watch on YouTube")
	got := Normalize(in)
	require.Equal(t, want, got)
	assert.Less(t, strings.Index(got, "View on GitHub"), strings.Index(got, "example.org</a>"))
}

func TestNormalizeMalformedURLLeftUnchanged(t *testing.T) {
	in := "broken http://%zz/path and https://[::1 then https://github.com/ok"
	got := Normalize(in)
	assert.True(t, strings.HasPrefix(got, "broken http://%zz/path and https://[::1 then "), got)
	assert.True(t, strings.HasSuffix(got, anchor("https://github.com/ok", "View on GitHub")), got)
}

func TestNormalizeMarkupAware(t *testing.T) {
	t.Run("url before closing tag", func(t *testing.T) {
		in := "<p>See https://github.com/x</p>"
		want := "<p>See " + anchor("https://github.com/x", "View on GitHub") + "</p>"
		assert.Equal(t, want, Normalize(in))
	})

	t.Run("unfinished tag at end kept", func(t *testing.T) {
		in := "use https://github.com/x if a<b"
		want := "use " + anchor("https://github.com/x", "View on GitHub") + " if a<b"
		assert.Equal(t, want, Normalize(in))
	})

	t.Run("unterminated attribute at end kept", func(t *testing.T) {
		in := `see https://github.com/x <a href="`
		want := "see " + anchor("https://github.com/x", "View on GitHub") + ` <a href="`
		assert.Equal(t, want, Normalize(in))
	})

	t.Run("existing anchors untouched", func(t *testing.T) {
		in := `<a href="https://github.com/x">https://github.com/x</a> and https://example.org`
		want := `<a href="https://github.com/x">https://github.com/x</a> and ` + anchor("https://example.org", "example.org")
		assert.Equal(t, want, Normalize(in))
	})

	t.Run("attribute values untouched", func(t *testing.T) {
		in := `<img src="https://example.org/a.png" alt="x">`
		assert.Equal(t, in, Normalize(in))
	})

	t.Run("script text untouched", func(t *testing.T) {
		in := `<script>var u = "https://example.org";</script>`
		assert.Equal(t, in, Normalize(in))
	})

	t.Run("entities in query are decoded then re-escaped", func(t *testing.T) {
		in := "https://example.org/?a=1&amp;b=2"
		want := anchor("https://example.org/?a=1&amp;b=2", "example.org")
		assert.Equal(t, want, Normalize(in))
	})

	t.Run("quotes cannot break the attribute", func(t *testing.T) {
		got := Normalize(`https://example.org/"onmouseover="x`)
		assert.Contains(t, got, `href="https://example.org/&#34;onmouseover=&#34;x"`)
	})
}

func TestNormalizeIdempotent(t *testing.T) {
	in := "<p>a https://github.com/a b https://example.org/c</p>"
	once := Normalize(in)
	assert.Equal(t, once, Normalize(once))
}

func TestNormalizerOptions(t *testing.T) {
	n := New(
		WithLabels(map[string]string{
			"WWW.Medium.com": "Read on Medium",
			"github.com":     "Source",
			"empty.io":       " ",
		}),
		WithClass("post-link"),
	)

	assert.Equal(t, "Read on Medium", n.Label("medium.com"))
	assert.Equal(t, "Source", n.Label("www.github.com"))
	assert.Equal(t, "empty.io", n.Label("empty.io"))
	assert.Equal(t, "View on LinkedIn", n.Label("linkedin.com"))

	got := n.Normalize("https://medium.com/p/1")
	assert.Equal(t, `<a href="https://medium.com/p/1" class="post-link" target="_blank" rel="noopener noreferrer">Read on Medium</a>`, got)

	// the package-level table is not affected by options
	assert.Equal(t, "View on GitHub", New().Label("github.com"))
}

func TestWithLabelsAliasesResolveDeterministically(t *testing.T) {
	for i := 0; i < 50; i++ {
		n := New(WithLabels(map[string]string{
			"www.medium.com": "Old",
			"medium.com":     "New",
			"WWW.DEV.TO":     "A",
			"www.dev.to":     "B",
		}))
		require.Equal(t, "New", n.Label("medium.com"))
		require.Equal(t, "B", n.Label("dev.to"))
	}
}
