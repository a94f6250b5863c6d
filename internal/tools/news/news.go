// Package news searches the Naver news API
package news

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/amoylab/toolserver/internal/common/config"
	"github.com/amoylab/toolserver/internal/tool"
	"github.com/amoylab/toolserver/internal/tools/remote"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

const (
	searchPath     = "/v1/search/news.json"
	defaultDisplay = 10
	maxDisplay     = 100
)

var tagPattern = regexp.MustCompile(`<[^>]*>`)

type Service struct {
	logger        *zap.Logger
	client        *remote.Client
	latestDisplay int
}

// NewClient builds the upstream client carrying the Naver credentials
func NewClient(logger *zap.Logger, cfg config.NewsToolConfig, opts ...remote.Option) *remote.Client {
	opts = append([]remote.Option{
		remote.WithHeader("X-Naver-Client-Id", cfg.ClientID),
		remote.WithHeader("X-Naver-Client-Secret", cfg.ClientSecret),
	}, opts...)
	return remote.New(logger, cfg.BaseURL, cfg.Timeout, opts...)
}

func NewService(logger *zap.Logger, client *remote.Client, cfg config.NewsToolConfig) *Service {
	display := cfg.Display
	if display <= 0 {
		display = 5
	}
	return &Service{
		logger:        logger.Named("tools.news"),
		client:        client,
		latestDisplay: display,
	}
}

type searchInput struct {
	Query   string `json:"query"`
	Display int    `json:"display"`
}

// Tools returns the news tools
func (s *Service) Tools() ([]tool.Tool, error) {
	search, err := tool.FromMCP(mcp.NewTool("searchNews",
		mcp.WithDescription("Searches Naver news for a keyword and returns the latest articles."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Keyword to search, e.g. stocks, IT, economy")),
		mcp.WithNumber("display", mcp.Description("Number of results, 10 by default and at most 100"),
			mcp.Min(1), mcp.Max(maxDisplay)),
	), tool.Signature{Typed: tool.Typed(s.searchNews)})
	if err != nil {
		return nil, err
	}

	latest, err := tool.FromMCP(mcp.NewTool("getLatestNews",
		mcp.WithDescription("Returns a short list of the latest news on a topic."),
		mcp.WithString("topic", mcp.Required(), mcp.Description("News topic, e.g. IT, politics, sports")),
	), tool.Signature{String: s.getLatestNews})
	if err != nil {
		return nil, err
	}
	return []tool.Tool{search, latest}, nil
}

func (s *Service) searchNews(ctx context.Context, in searchInput) (any, error) {
	return s.search(ctx, in.Query, in.Display)
}

// getLatestNews receives its arguments as a JSON document string
func (s *Service) getLatestNews(ctx context.Context, args string) (any, error) {
	return s.search(ctx, gjson.Get(args, "topic").String(), s.latestDisplay)
}

func (s *Service) search(ctx context.Context, query string, display int) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", errors.New("query is required")
	}
	if display <= 0 {
		display = defaultDisplay
	}
	if display > maxDisplay {
		display = maxDisplay
	}

	s.logger.Info("searching news", zap.String("query", query), zap.Int("display", display))
	body, err := s.client.Get(ctx, searchPath, url.Values{
		"query":   {query},
		"display": {strconv.Itoa(display)},
	})
	if err != nil {
		return "", err
	}

	items := gjson.GetBytes(body, "items").Array()
	if len(items) == 0 {
		return fmt.Sprintf("No news found for '%s'.", query), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "=== News for '%s' ===\n", query)
	fmt.Fprintf(&sb, "%d articles\n\n", len(items))
	for i, item := range items {
		fmt.Fprintf(&sb, "[%d] %s\n", i+1, stripTags(item.Get("title").String()))
		fmt.Fprintf(&sb, "Summary: %s\n", stripTags(item.Get("description").String()))
		fmt.Fprintf(&sb, "Link: %s\n", item.Get("link").String())
		fmt.Fprintf(&sb, "Date: %s\n", item.Get("pubDate").String())
		sb.WriteString("---\n\n")
	}
	return sb.String(), nil
}

// stripTags removes the highlight markup Naver puts around matches
func stripTags(s string) string {
	return html.UnescapeString(tagPattern.ReplaceAllString(s, ""))
}
