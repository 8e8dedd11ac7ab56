package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRender(t *testing.T) {
	tp := New()

	tests := []struct {
		name     string
		input    string
		contains []string
		excludes []string
	}{
		{name: "emphasis", input: "*crispy* and **hot**", contains: []string{"<em>crispy</em>", "<strong>hot</strong>"}},
		{name: "strikethrough", input: "~~old price~~", contains: []string{"<del>old price</del>"}},
		{name: "list", input: "- rice\n- lentils", contains: []string{"<ul>", "<li>rice</li>"}},
		{name: "script is removed", input: "tasty<script>alert(1)</script>", contains: []string{"tasty"}, excludes: []string{"<script", "alert(1)"}},
		{name: "event handlers are removed", input: `<img src="x.png" onerror="alert(1)">`, excludes: []string{"onerror"}},
		{name: "javascript links are removed", input: "[click](javascript:alert(1))", excludes: []string{"javascript:"}},
		{name: "links get nofollow", input: "see https://example.com", contains: []string{`rel="nofollow`, `href="https://example.com"`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := tp.Render(tt.input)
			for _, s := range tt.contains {
				assert.Contains(t, out, s)
			}
			for _, s := range tt.excludes {
				assert.NotContains(t, out, s)
			}
		})
	}

	assert.Equal(t, "", tp.Render("   "))
}

func TestStripTags(t *testing.T) {
	tp := New()

	assert.Equal(t, "Hello there", tp.StripTags("<b>Hello</b> <i>there</i>"))
	assert.Equal(t, "Fish & chips", tp.StripTags("Fish & chips"))
	assert.Equal(t, "", tp.StripTags("<script>alert(1)</script>"))
	assert.Equal(t, "5 > 3", tp.StripTags("5 > 3"))
}
