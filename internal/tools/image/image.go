// Package image finds photos on Unsplash
package image

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/amoylab/toolserver/internal/common/config"
	"github.com/amoylab/toolserver/internal/tool"
	"github.com/amoylab/toolserver/internal/tools/remote"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// NewClient builds the upstream client authenticated with the access key
func NewClient(logger *zap.Logger, cfg config.ImageToolConfig, opts ...remote.Option) *remote.Client {
	opts = append([]remote.Option{
		remote.WithHeader("Authorization", "Client-ID "+cfg.AccessKey),
		remote.WithHeader("Accept-Version", "v1"),
	}, opts...)
	return remote.New(logger, cfg.BaseURL, cfg.Timeout, opts...)
}

type Service struct {
	logger *zap.Logger
	client *remote.Client
}

func NewService(logger *zap.Logger, client *remote.Client) *Service {
	return &Service{
		logger: logger.Named("tools.image"),
		client: client,
	}
}

type searchInput struct {
	Keyword string `json:"keyword"`
}

// Tools returns the image tools
func (s *Service) Tools() ([]tool.Tool, error) {
	t, err := tool.FromMCP(mcp.NewTool("searchImage",
		mcp.WithDescription("Returns the URL of the best matching Unsplash photo for a keyword."),
		mcp.WithString("keyword", mcp.Required(), mcp.Description("What the photo should show")),
	), tool.Signature{Typed: tool.Typed(s.searchImage)})
	if err != nil {
		return nil, err
	}
	return []tool.Tool{t}, nil
}

func (s *Service) searchImage(ctx context.Context, in searchInput) (any, error) {
	keyword := strings.TrimSpace(in.Keyword)
	if keyword == "" {
		return nil, errors.New("keyword is required")
	}

	body, err := s.client.Get(ctx, "/search/photos", url.Values{
		"query":    {keyword},
		"per_page": {"1"},
		"page":     {"1"},
	})
	if err != nil {
		return nil, err
	}

	results := gjson.GetBytes(body, "results")
	if !results.IsArray() || len(results.Array()) == 0 {
		return nil, fmt.Errorf("no image found for %q", keyword)
	}
	imageURL := results.Get("0.urls.regular").String()
	if imageURL == "" {
		return nil, fmt.Errorf("image for %q has no url", keyword)
	}
	s.logger.Debug("found image", zap.String("keyword", keyword), zap.String("url", imageURL))
	return imageURL, nil
}
