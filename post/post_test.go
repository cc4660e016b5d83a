package post

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSitemap = `<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9"
        xmlns:blog="https://theagileengineer.net/schemas/blog"
        xmlns:image="http://www.google.com/schemas/sitemap-image/1.1">
  <url>
    <loc>https://theagileengineer.net/</loc>
    <lastmod>2024-04-01</lastmod>
  </url>
  <url>
    <loc>https://theagileengineer.net/posts/older-post.html</loc>
    <lastmod>2024-01-15</lastmod>
  </url>
  <url>
    <loc>https://theagileengineer.net/posts/undated_post.html</loc>
  </url>
  <url>
    <loc> https://theagileengineer.net/posts/newest.html </loc>
    <lastmod>2024-03-01</lastmod>
    <blog:title>Why &amp; How We Ship</blog:title>
    <image:image>
      <image:loc>https://theagileengineer.net/images/cover.png</image:loc>
      <image:title>Cover image</image:title>
    </image:image>
  </url>
  <url>
    <lastmod>2024-02-01</lastmod>
  </url>
  <url>
    <loc>https://theagileengineer.net/about.html</loc>
  </url>
</urlset>`

func date(s string) *time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return &t
}

func TestExtract(t *testing.T) {
	res := Extract([]byte(testSitemap), DefaultMarker)

	require.Len(t, res.Posts, 3)
	assert.Equal(t, 1, res.Skipped)

	assert.Equal(t, "https://theagileengineer.net/posts/older-post.html", res.Posts[0].Location)
	assert.Equal(t, "Older Post", res.Posts[0].Title)
	require.NotNil(t, res.Posts[0].LastModified)
	assert.True(t, res.Posts[0].LastModified.Equal(*date("2024-01-15")))

	assert.Equal(t, "Undated Post", res.Posts[1].Title)
	assert.Nil(t, res.Posts[1].LastModified)

	assert.Equal(t, "https://theagileengineer.net/posts/newest.html", res.Posts[2].Location)
	assert.Equal(t, "Why & How We Ship", res.Posts[2].Title)

	for _, p := range res.Posts {
		assert.Contains(t, p.Location, "/posts/")
	}
}

func TestExtractIsolatesMalformedEntries(t *testing.T) {
	doc := `<urlset>
<url><loc>/posts/first.html</loc></url>
<url><loc>/posts/broken.html</loc><!-- never closed </url>
<url><loc></loc></url>
<url><loc>   </loc></url>
<url><loc>/posts/second.html</loc><lastmod>not a date</lastmod></url>
</urlset>`
	res := Extract([]byte(doc), DefaultMarker)

	require.Len(t, res.Posts, 2)
	assert.Equal(t, "First", res.Posts[0].Title)
	assert.Equal(t, "Second", res.Posts[1].Title)
	assert.Nil(t, res.Posts[1].LastModified)
	assert.Equal(t, 3, res.Skipped)
}

func TestExtractEmpty(t *testing.T) {
	tests := []string{
		``,
		`this is not xml at all`,
		`<urlset></urlset>`,
		`<urlset><url><loc>https://example.com/about.html</loc></url></urlset>`,
		`<urlset><url><loc>/posts/unterminated.html</loc>`,
	}
	for _, doc := range tests {
		res := Extract([]byte(doc), DefaultMarker)
		assert.Empty(t, res.Posts, "document %q", doc)
	}
}

func TestExtractEmptyTitleIsDerived(t *testing.T) {
	doc := `<urlset><url><loc>/posts/hello-world.html</loc><blog:title>  </blog:title></url></urlset>`
	res := Extract([]byte(doc), "")
	require.Len(t, res.Posts, 1)
	assert.Equal(t, "Hello World", res.Posts[0].Title)
}

func TestExtractCustomMarker(t *testing.T) {
	doc := `<urlset>
<url><loc>/articles/one.html</loc></url>
<url><loc>/posts/two.html</loc></url>
</urlset>`
	res := Extract([]byte(doc), "/articles/")
	require.Len(t, res.Posts, 1)
	assert.Equal(t, "/articles/one.html", res.Posts[0].Location)
}

func TestDeriveTitle(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"https://theagileengineer.net/posts/my-first-post.html", "My First Post"},
		{"https://theagileengineer.net/posts/already-titled", "Already Titled"},
		{"/posts/snake_case__and--dashes.md", "Snake Case And Dashes"},
		{"/posts/trailing-slash/", "Trailing Slash"},
		{"/posts/version.1.2.html", "Version.1.2"},
		{"/posts/.hidden", ".hidden"},
		{"/posts/ünïcode-tïtle.html", "Ünïcode Tïtle"},
		{"", UntitledPost},
		{"/", UntitledPost},
		{"///", UntitledPost},
		{"/posts/---.html", UntitledPost},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, DeriveTitle(tt.input), "failed for input: %q", tt.input)
	}
}

func TestDeriveTitleIdempotent(t *testing.T) {
	tests := []string{
		"My First Post",
		"Already Titled",
		"Mr. Smith Goes To Washington",
		DeriveTitle("/posts/some-derived_title.html"),
	}
	for _, title := range tests {
		assert.Equal(t, title, DeriveTitle(title))
		assert.Equal(t, DeriveTitle(title), DeriveTitle(DeriveTitle(title)))
	}
}

func TestSort(t *testing.T) {
	posts := []Post{
		{Location: "/posts/undated-a.html"},
		{Location: "/posts/january.html", LastModified: date("2024-01-15")},
		{Location: "/posts/undated-b.html"},
		{Location: "/posts/march.html", LastModified: date("2024-03-01")},
		{Location: "/posts/january-again.html", LastModified: date("2024-01-15")},
	}
	Sort(posts)

	var got []string
	for _, p := range posts {
		got = append(got, strings.TrimPrefix(p.Location, "/posts/"))
	}
	assert.Equal(t, []string{
		"march.html",
		"january.html",
		"january-again.html",
		"undated-a.html",
		"undated-b.html",
	}, got)
}

func TestSortDatedBeforeEpoch(t *testing.T) {
	posts := []Post{
		{Location: "/posts/undated.html"},
		{Location: "/posts/ancient.html", LastModified: date("1969-07-20")},
	}
	Sort(posts)
	assert.Equal(t, "/posts/ancient.html", posts[0].Location)
}

func TestFormatDate(t *testing.T) {
	res := Extract([]byte(`<url><loc>/posts/a.html</loc><lastmod>2024-03-01</lastmod></url>`), DefaultMarker)
	require.Len(t, res.Posts, 1)
	assert.Equal(t, "Mar 1, 2024", res.Posts[0].FormattedDate())

	assert.Equal(t, "No date", FormatDate(nil))

	res = Extract([]byte(`<url><loc>/posts/b.html</loc><lastmod>2024-12-31T23:30:00+00:00</lastmod></url>`), DefaultMarker)
	require.Len(t, res.Posts, 1)
	assert.Equal(t, "Dec 31, 2024", res.Posts[0].FormattedDate())
}

func TestRelativeLocation(t *testing.T) {
	assert.Equal(t, "posts/a.html", Post{Location: "/posts/a.html"}.RelativeLocation())
	assert.Equal(t, "https://example.com/posts/a.html", Post{Location: "https://example.com/posts/a.html"}.RelativeLocation())
}
