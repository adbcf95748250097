// Package steam fills catalog entries from Steam store pages.
package steam

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"games_library/internal/models"

	"github.com/PuerkitoBio/goquery"
)

const (
	DefaultBaseURL  = "https://store.steampowered.com"
	DefaultLanguage = "english"

	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
)

var (
	ErrBadURL      = errors.New("not a steam store app url")
	ErrNotFound    = errors.New("no game found")
	ErrNotGamePage = errors.New("page has no game details")
	ErrStatus      = errors.New("unexpected status from steam")
)

var (
	appPath    = regexp.MustCompile(`/app/(\d+)`)
	whitespace = regexp.MustCompile(`\s+`)
)

// Details is what a store page tells about a game.
type Details struct {
	AppID          string
	URL            string
	Title          string
	Description    string
	Developer      string
	ReleaseDate    string
	AverageReviews string
	Tags           []string
	Price          string
	HeaderImage    string
}

// Apply copies every non-empty field of d onto g. Id and the local image
// paths of g are kept.
func (d Details) Apply(g models.Game) models.Game {
	g = g.Clone()

	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&g.Title, d.Title)
	set(&g.Description, d.Description)
	set(&g.Developer, d.Developer)
	set(&g.ReleaseDate, d.ReleaseDate)
	set(&g.AverageReviews, d.AverageReviews)
	set(&g.Price, d.Price)
	if len(d.Tags) > 0 {
		g.Tags = append([]string(nil), d.Tags...)
	}

	return g
}

type Client struct {
	http     *http.Client
	baseURL  string
	language string
	log      *slog.Logger
}

type Option func(*Client)

// WithBaseURL points the client at another store host.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func New(timeout time.Duration, language string, log *slog.Logger, opts ...Option) *Client {
	if language == "" {
		language = DefaultLanguage
	}

	c := &Client{
		http:     &http.Client{Timeout: timeout},
		baseURL:  DefaultBaseURL,
		language: language,
		log:      log,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// AppID extracts the numeric app id from a store url.
func AppID(rawURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrBadURL, err)
	}

	m := appPath.FindStringSubmatch(u.Path)
	if m == nil {
		return "", fmt.Errorf("%w: %q", ErrBadURL, rawURL)
	}

	return m[1], nil
}

// Fetch loads and parses the store page behind rawURL.
func (c *Client) Fetch(ctx context.Context, rawURL string) (*Details, error) {
	const op = "steam.Client.Fetch"

	id, err := AppID(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	pageURL := fmt.Sprintf("%s/app/%s/", c.baseURL, id)

	body, err := c.get(ctx, pageURL, url.Values{"l": {c.language}})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer body.Close()

	d, err := Parse(body)
	if err != nil {
		c.log.Error("failed to parse store page",
			slog.String("operation", op),
			slog.String("url", pageURL),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	d.AppID = id
	d.URL = pageURL

	return d, nil
}

// Search returns the store url of the first game suggested for term.
func (c *Client) Search(ctx context.Context, term string) (string, error) {
	const op = "steam.Client.Search"

	params := url.Values{}
	params.Set("term", term)
	params.Set("f", "games")
	params.Set("l", c.language)
	params.Set("realm", "1")

	body, err := c.get(ctx, c.baseURL+"/search/suggest", params)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	defer body.Close()

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	var link string
	doc.Find("a.match").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href, ok := s.Attr("href")
		if ok && href != "" {
			link = href
			return false
		}
		return true
	})

	if link == "" {
		return "", fmt.Errorf("%s: %w: %q", op, ErrNotFound, term)
	}

	return link, nil
}

func (c *Client) get(ctx context.Context, rawURL string, params url.Values) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.URL.RawQuery = params.Encode()

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.8")
	req.AddCookie(&http.Cookie{Name: "Steam_Language", Value: c.language})
	req.AddCookie(&http.Cookie{Name: "birthtime", Value: "473385601"})
	req.AddCookie(&http.Cookie{Name: "wants_mature_content", Value: "1"})

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("%w: %d", ErrStatus, resp.StatusCode)
	}

	return resp.Body, nil
}

// Parse reads the game details out of a store page.
func Parse(r io.Reader) (*Details, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}

	d := &Details{
		Title:          text(doc.Find("#appHubAppName, .apphub_AppName").First()),
		Description:    text(doc.Find("div.game_description_snippet").First()),
		Developer:      text(doc.Find("#developers_list a").First()),
		ReleaseDate:    text(doc.Find("div.release_date div.date").First()),
		AverageReviews: text(doc.Find("#userReviews .game_review_summary").First()),
		Price:          price(doc),
	}

	if src, ok := doc.Find("img.game_header_image_full").Attr("src"); ok {
		d.HeaderImage = src
	}

	doc.Find("a.app_tag").Each(func(_ int, s *goquery.Selection) {
		if tag := text(s); tag != "" && tag != "+" {
			d.Tags = append(d.Tags, tag)
		}
	})

	if d.Title == "" {
		return nil, ErrNotGamePage
	}

	return d, nil
}

func price(doc *goquery.Document) string {
	purchase := doc.Find("div.game_area_purchase_game").First()

	if p := text(purchase.Find("div.discount_final_price").First()); p != "" {
		return p
	}
	return text(purchase.Find("div.game_purchase_price").First())
}

func text(s *goquery.Selection) string {
	return strings.TrimSpace(whitespace.ReplaceAllString(s.Text(), " "))
}
