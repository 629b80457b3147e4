// Package scrape extracts photo metadata and gallery image URLs from
// provider HTML pages.
package scrape

import (
	"bytes"
	"net/url"
	"path"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/vrsandeep/natgeo-wallpapers/internal/config"
	"github.com/vrsandeep/natgeo-wallpapers/internal/models"
	"golang.org/x/net/html"
)

// minTitleLength is the shortest og:title treated as a real caption.
const minTitleLength = 5

var imageExtensions = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".gif": true}

var cropVariants = []string{"_16x9", "_3x2", "_4x3", "_2x1", "_2x3", "_3x4", "_square"}

// Parser reads the Open Graph tags of a photo page and the gallery of a
// collection page.
type Parser struct {
	imageCDN string
	markers  []string
	// embedded matches CDN URLs inside inline scripts and hydration JSON.
	embedded *regexp.Regexp
}

// NewParser builds a Parser using the CDN prefix and gallery markers from cfg.
func NewParser(cfg *config.Config) *Parser {
	markers := make([]string, 0, len(cfg.Collection.GalleryMarkers))
	for _, m := range cfg.Collection.GalleryMarkers {
		if m = strings.ToLower(strings.TrimSpace(m)); m != "" {
			markers = append(markers, m)
		}
	}

	prefix := `https?://[^"'\s<>]+`
	if cfg.Source.ImageCDN != "" {
		prefix = regexp.QuoteMeta(cfg.Source.ImageCDN)
	}
	return &Parser{
		imageCDN: cfg.Source.ImageCDN,
		markers:  markers,
		embedded: regexp.MustCompile(prefix + `[^"'\s?\\<>]*`),
	}
}

func document(body []byte) (*goquery.Document, error) {
	root, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	return goquery.NewDocumentFromNode(root), nil
}

// metaContent returns the content of the first <meta> whose property (or
// name) attribute equals key.
func metaContent(doc *goquery.Document, key string) (string, bool) {
	var content string
	found := false
	doc.Find("meta").EachWithBreak(func(i int, s *goquery.Selection) bool {
		prop, ok := s.Attr("property")
		if !ok {
			prop, ok = s.Attr("name")
		}
		if !ok || prop != key {
			return true
		}
		c, ok := s.Attr("content")
		if !ok {
			return true
		}
		content = strings.TrimSpace(c)
		found = true
		return false
	})
	return content, found
}

// ParseSingle extracts the image URL and caption of a photo page.
// An uninformative caption is replaced with the image's filename stem.
func (p *Parser) ParseSingle(body []byte) (*models.PhotoMetadata, error) {
	doc, err := document(body)
	if err != nil {
		return nil, err
	}

	image, ok := metaContent(doc, "og:image")
	if !ok || image == "" {
		return nil, ErrMissingImageTag
	}
	title, ok := metaContent(doc, "og:title")
	if !ok {
		return nil, ErrMissingTitleTag
	}
	if !informative(title) {
		title = FilenameStem(image)
	}

	return &models.PhotoMetadata{ImageURL: image, Title: title}, nil
}

func informative(title string) bool {
	return len([]rune(title)) >= minTitleLength && title != "test"
}

// CollectionTitle returns the article's og:title, or "" when it is absent
// or too short to be useful.
func (p *Parser) CollectionTitle(body []byte) string {
	doc, err := document(body)
	if err != nil {
		return ""
	}
	title, _ := metaContent(doc, "og:title")
	if len([]rune(title)) < minTitleLength {
		return ""
	}
	return title
}

// ParseCollection returns the gallery image URLs of a collection page in
// document order, without duplicates. Image tags are read first; when none
// of them qualifies the raw page is searched for embedded CDN URLs.
func (p *Parser) ParseCollection(body []byte) ([]string, error) {
	doc, err := document(body)
	if err != nil {
		return nil, err
	}

	var urls []string
	seen := make(map[string]bool)
	add := func(raw string) {
		u, ok := p.accept(raw)
		if !ok || seen[u] {
			return
		}
		seen[u] = true
		urls = append(urls, u)
	}

	doc.Find("img, source").Each(func(i int, s *goquery.Selection) {
		for _, attr := range []string{"src", "data-src"} {
			if v, ok := s.Attr(attr); ok {
				add(v)
			}
		}
		if srcset, ok := s.Attr("srcset"); ok {
			for _, candidate := range strings.Split(srcset, ",") {
				if fields := strings.Fields(candidate); len(fields) > 0 {
					add(fields[0])
				}
			}
		}
	})

	if len(urls) == 0 {
		for _, raw := range p.embedded.FindAllString(string(body), -1) {
			add(raw)
		}
	}

	if len(urls) == 0 {
		return nil, ErrNoImagesFound
	}
	return urls, nil
}

// accept normalizes raw and reports whether it is a full-size gallery image.
func (p *Parser) accept(raw string) (string, bool) {
	u := strings.TrimSpace(raw)
	if i := strings.IndexAny(u, "?#"); i >= 0 {
		u = u[:i]
	}
	if strings.HasPrefix(u, "//") {
		u = "https:" + u
	}
	if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
		return "", false
	}
	if p.imageCDN != "" && !strings.HasPrefix(u, p.imageCDN) {
		return "", false
	}
	if !imageExtensions[strings.ToLower(path.Ext(u))] {
		return "", false
	}
	for _, crop := range cropVariants {
		if strings.Contains(u, crop) {
			return "", false
		}
	}
	if len(p.markers) > 0 {
		name := strings.ToLower(path.Base(u))
		matched := false
		for _, m := range p.markers {
			if strings.Contains(name, m) {
				matched = true
				break
			}
		}
		if !matched {
			return "", false
		}
	}
	return u, true
}

// FilenameStem returns the last path segment of rawURL without its
// extension and query string.
func FilenameStem(rawURL string) string {
	p := rawURL
	if u, err := url.Parse(rawURL); err == nil && u.Path != "" {
		p = u.Path
	}
	base := path.Base(p)
	if base == "/" || base == "." {
		return ""
	}
	return strings.TrimSuffix(base, path.Ext(base))
}

// CollectionSlug returns the last non-empty path segment of a collection
// URL, or "collection".
func CollectionSlug(rawURL string) string {
	p := rawURL
	if u, err := url.Parse(rawURL); err == nil {
		p = u.Path
	}
	segments := strings.Split(p, "/")
	for i := len(segments) - 1; i >= 0; i-- {
		if s := strings.TrimSpace(segments[i]); s != "" {
			return s
		}
	}
	return "collection"
}
