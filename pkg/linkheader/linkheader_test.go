package linkheader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLastPage(t *testing.T) {
	tests := []struct {
		name     string
		header   string
		wantPage int
		wantOK   bool
	}{
		{
			name:     "single last entry",
			header:   `<https://gorest.co.in/public/v2/users?page=2>; rel="last"`,
			wantPage: 2,
			wantOK:   true,
		},
		{
			name: "full gorest header",
			header: `<https://gorest.co.in/public/v2/users?page=1>; rel="current", ` +
				`<https://gorest.co.in/public/v2/users?page=2>; rel="next", ` +
				`<https://gorest.co.in/public/v2/users?page=317>; rel="last"`,
			wantPage: 317,
			wantOK:   true,
		},
		{
			name:     "extra whitespace and params",
			header:   `  < https://example.com/v2/users?per_page=20&page=9 > ;  title="a, b; c" ;rel = "last"  `,
			wantPage: 9,
			wantOK:   true,
		},
		{
			name:     "unquoted rel and other host",
			header:   `<http://localhost:8080/users?page=4>; rel=last`,
			wantPage: 4,
			wantOK:   true,
		},
		{
			name:     "multiple relation types",
			header:   `<https://x.test/users?page=3>; rel="next last"`,
			wantPage: 3,
			wantOK:   true,
		},
		{
			name:   "no last relation",
			header: `<https://x.test/users?page=2>; rel="next"`,
		},
		{
			name:   "last without page parameter",
			header: `<https://x.test/users?cursor=abc>; rel="last"`,
		},
		{
			name:   "non numeric page",
			header: `<https://x.test/users?page=two>; rel="last"`,
		},
		{
			name:   "zero page",
			header: `<https://x.test/users?page=0>; rel="last"`,
		},
		{
			name: "first last entry wins",
			header: `<https://x.test/users?page=5>; rel="last", ` +
				`<https://x.test/users?page=8>; rel="last"`,
			wantPage: 5,
			wantOK:   true,
		},
		{
			name: "first last entry without page",
			header: `<https://x.test/users?cursor=abc>; rel="last", ` +
				`<https://x.test/users?page=8>; rel="last"`,
		},
		{
			name:   "empty header",
			header: "",
		},
		{
			name:   "garbage",
			header: `rel="last"; page=3`,
		},
		{
			name:   "unterminated url",
			header: `<https://x.test/users?page=3; rel="last"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, ok := LastPage(tt.header)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantPage, page)
		})
	}
}

func TestParse(t *testing.T) {
	links := Parse(`<https://a.test/?page=1>; rel="prev"; type="text/html", <https://a.test/?page=3>; rel="next"`)
	require.Len(t, links, 2)

	assert.Equal(t, "https://a.test/?page=1", links[0].URL)
	assert.Equal(t, []string{"prev"}, links[0].Rels)
	assert.Equal(t, "text/html", links[0].Params["type"])
	assert.True(t, links[1].HasRel("NEXT"))

	next, ok := Find(`<https://a.test/?page=1>; rel="prev", <https://a.test/?page=3>; rel="next"`, "next")
	require.True(t, ok)
	page, ok := PageOf(next)
	require.True(t, ok)
	assert.Equal(t, 3, page)

	_, ok = Find("", "next")
	assert.False(t, ok)
}
