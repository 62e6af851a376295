package curator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveOriginalURL(t *testing.T) {
	t.Parallel()

	const proxied = "https://www.inoreader.com/article/3a9c6e4f2b"

	cases := []struct {
		name    string
		link    string
		content string
		want    string
		wantOK  bool
	}{
		{name: "not proxied", link: "https://example.com/a", want: "https://example.com/a", wantOK: true},
		{
			name:    "og url",
			link:    proxied,
			content: `<html><head><meta property="og:url" content="https://news.example.com/story"></head><body><a href="https://other.example.com">x</a></body></html>`,
			want:    "https://news.example.com/story",
			wantOK:  true,
		},
		{
			name:    "skips reader hrefs",
			link:    proxied,
			content: `<a href="https://www.inoreader.com/feed/x">feed</a> <a href="/relative">rel</a> <a href="https://eng.example.com/post">post</a>`,
			want:    "https://eng.example.com/post",
			wantOK:  true,
		},
		{
			name:    "source phrase in text",
			link:    proxied,
			content: "Originally published. Source: https://blog.example.net/entry, enjoy",
			want:    "https://blog.example.net/entry",
			wantOK:  true,
		},
		{
			name:    "any url in text",
			link:    proxied,
			content: "see https://www.inoreader.com/x and https://papers.example.org/p1.",
			want:    "https://papers.example.org/p1",
			wantOK:  true,
		},
		{name: "nothing found", link: proxied, content: "<p>just text</p>", want: proxied},
		{name: "no content", link: proxied, want: proxied},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, ok := ResolveOriginalURL(tc.link, tc.content)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.wantOK, ok)
		})
	}
}
