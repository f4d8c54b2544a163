// Package lookup fetches kanji details from an online dictionary.
package lookup

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/unicode/norm"
)

var ErrNotFound = errors.New("kanji not found")

type Entry struct {
	Character string
	Meanings  []string
	Kun       []string
	On        []string
	Strokes   int
	JLPT      string
	Grade     string
	Frequency string
	URL       string
}

type Client interface {
	Lookup(ctx context.Context, character string) (Entry, error)
}

// JishoClient scrapes the kanji pages of jisho.org, or of any server laid out
// the same way.
type JishoClient struct {
	BaseURL string
	http    *http.Client
}

// NewHTTPClient returns a client that goes through proxy when one is set.
func NewHTTPClient(proxy string, timeout time.Duration) (*http.Client, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if proxy != "" {
		u, err := url.Parse(proxy)
		if err != nil {
			return nil, fmt.Errorf("parse proxy: %w", err)
		}
		transport.Proxy = http.ProxyURL(u)
	}
	return &http.Client{Transport: transport, Timeout: timeout}, nil
}

func NewJishoClient(baseURL, proxy string) (*JishoClient, error) {
	if baseURL == "" {
		baseURL = "https://jisho.org"
	}
	c, err := NewHTTPClient(proxy, 15*time.Second)
	if err != nil {
		return nil, err
	}
	return &JishoClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		http:    c,
	}, nil
}

func (c *JishoClient) pageURL(character string) string {
	return c.BaseURL + "/search/" + url.PathEscape(character+" #kanji")
}

func (c *JishoClient) Lookup(ctx context.Context, character string) (Entry, error) {
	character = norm.NFC.String(strings.TrimSpace(character))
	if character == "" {
		return Entry{}, ErrNotFound
	}
	u := c.pageURL(character)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return Entry{}, err
	}
	req.Header.Set("accept", "text/html,application/xhtml+xml")
	req.Header.Set("accept-language", "en;q=0.9,ja;q=0.8")
	req.Header.Set("user-agent", "kanjidrill")

	slog.Debug("lookup", "url", u)
	resp, err := c.http.Do(req)
	if err != nil {
		return Entry{}, fmt.Errorf("lookup %s: %w", character, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return Entry{}, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return Entry{}, fmt.Errorf("lookup %s: unexpected status %s", character, resp.Status)
	}

	e, err := Parse(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return e, err
	}
	if e.Character == "" {
		e.Character = character
	}
	e.URL = u
	return e, nil
}

var digits = regexp.MustCompile(`\d+`)

func text(n *html.Node) string {
	if n == nil {
		return ""
	}
	return strings.Join(strings.Fields(htmlquery.InnerText(n)), " ")
}

func list(nodes []*html.Node) []string {
	var out []string
	for _, n := range nodes {
		if t := text(n); t != "" {
			out = append(out, norm.NFC.String(t))
		}
	}
	return out
}

// Parse reads a kanji details page.
func Parse(r io.Reader, contentType string) (Entry, error) {
	var e Entry
	r, err := charset.NewReader(r, contentType)
	if err != nil {
		return e, err
	}
	doc, err := html.Parse(r)
	if err != nil {
		return e, err
	}

	meanings := htmlquery.FindOne(doc, `//div[contains(@class,"kanji-details__main-meanings")]`)
	if meanings == nil {
		return e, ErrNotFound
	}
	for _, m := range strings.Split(text(meanings), ",") {
		if m = strings.TrimSpace(m); m != "" {
			e.Meanings = append(e.Meanings, m)
		}
	}

	e.Character = norm.NFC.String(text(htmlquery.FindOne(doc, `//h1[contains(@class,"character")]`)))
	e.Kun = list(htmlquery.Find(doc, `//dl[contains(@class,"kun_yomi")]//dd/a`))
	e.On = list(htmlquery.Find(doc, `//dl[contains(@class,"on_yomi")]//dd/a`))

	if s := digits.FindString(text(htmlquery.FindOne(doc, `//div[contains(@class,"kanji-details__stroke_count")]`))); s != "" {
		e.Strokes, _ = strconv.Atoi(s)
	}
	e.JLPT = text(htmlquery.FindOne(doc, `//div[contains(@class,"jlpt")]/strong`))
	e.Grade = text(htmlquery.FindOne(doc, `//div[contains(@class,"grade")]/strong`))
	e.Frequency = text(htmlquery.FindOne(doc, `//div[contains(@class,"frequency")]/strong`))
	return e, nil
}
