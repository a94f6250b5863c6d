// Package tools assembles the enabled tool sets into a registry
package tools

import (
	"errors"
	"fmt"

	"github.com/amoylab/toolserver/internal/cache"
	"github.com/amoylab/toolserver/internal/common/config"
	"github.com/amoylab/toolserver/internal/storage"
	"github.com/amoylab/toolserver/internal/tool"
	"github.com/amoylab/toolserver/internal/tools/catalog"
	"github.com/amoylab/toolserver/internal/tools/image"
	"github.com/amoylab/toolserver/internal/tools/news"
	"github.com/amoylab/toolserver/internal/tools/product"
	"github.com/amoylab/toolserver/internal/tools/remote"
	"github.com/amoylab/toolserver/internal/tools/todo"

	"go.uber.org/zap"
)

// Set is a built registry together with the resources its tools hold
type Set struct {
	Registry *tool.Registry
	closers  []func() error
}

// Close releases the storage and cache behind the tools
func (s *Set) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type provider interface {
	Tools() ([]tool.Tool, error)
}

// Build opens what the enabled tool sets need and registers their tools.
// Registration order follows the config: todo, catalog, product, news, image.
func Build(logger *zap.Logger, cfg *config.ToolServerConfig) (*Set, error) {
	set := &Set{}
	var providers []provider

	if cfg.Tools.Todo.Enabled {
		store, err := storage.NewDBStore(logger, &cfg.Storage.Database)
		if err != nil {
			return nil, fmt.Errorf("open todo storage: %w", err)
		}
		set.closers = append(set.closers, store.Close)
		providers = append(providers, todo.NewService(logger, store))
	}

	if cfg.Tools.Catalog.Enabled {
		providers = append(providers, catalog.NewService(logger))
	}

	tc := cfg.Tools
	if tc.Product.Enabled || tc.News.Enabled || tc.Image.Enabled {
		c, err := cache.New(logger, &cfg.Cache)
		if err != nil {
			_ = set.Close()
			return nil, fmt.Errorf("open cache: %w", err)
		}
		set.closers = append(set.closers, c.Close)
		withCache := remote.WithCache(c, cfg.Cache.TTL)

		if tc.Product.Enabled {
			client := remote.New(logger.Named("remote.product"), tc.Product.BaseURL, tc.Product.Timeout, withCache)
			providers = append(providers, product.NewService(logger, client, tc.Product))
		}
		if tc.News.Enabled {
			client := news.NewClient(logger.Named("remote.news"), tc.News, withCache)
			providers = append(providers, news.NewService(logger, client, tc.News))
		}
		if tc.Image.Enabled {
			client := image.NewClient(logger.Named("remote.image"), tc.Image, withCache)
			providers = append(providers, image.NewService(logger, client))
		}
	}

	b := tool.NewBuilder(logger)
	for _, p := range providers {
		ts, err := p.Tools()
		if err == nil {
			err = b.RegisterAll(ts...)
		}
		if err != nil {
			_ = set.Close()
			return nil, err
		}
	}

	set.Registry = b.Build()
	logger.Info("tools registered", zap.Int("count", set.Registry.Len()))
	return set, nil
}
