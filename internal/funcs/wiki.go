package funcs

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

const defaultWikiURL = "https://en.wikipedia.org/api/rest_v1/page/summary/"

type wikiService struct {
	http    *http.Client
	baseURL string
}

func (w *wikiService) summary(topic string) (map[string]any, error) {
	if strings.TrimSpace(topic) == "" {
		return nil, fmt.Errorf("wikipedia_summary needs a topic")
	}

	base := w.baseURL
	if base == "" {
		base = defaultWikiURL
	}

	req, err := http.NewRequest(http.MethodGet, base+url.PathEscape(topic), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "iris/1.0")

	resp, err := w.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("wikipedia lookup: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("wikipedia lookup: status %d", resp.StatusCode)
	}

	var page struct {
		Title   string `json:"title"`
		Extract string `json:"extract"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("wikipedia lookup: %w", err)
	}

	title := page.Title
	if title == "" {
		title = topic
	}
	summary := page.Extract
	if summary == "" {
		summary = "No summary available."
	}
	return map[string]any{"title": title, "summary": summary}, nil
}
