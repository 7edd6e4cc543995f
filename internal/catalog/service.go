package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"golang.org/x/sync/singleflight"
)

type Service struct {
	content ContentClient
	cache   ProductCache
	sfg     singleflight.Group // Prevents cache stampede
}

func NewService(content ContentClient, cache ProductCache) *Service {
	return &Service{
		content: content,
		cache:   cache,
	}
}

// ProductBySlug returns the product document, or nil when the content
// source has no such product.
func (s *Service) ProductBySlug(ctx context.Context, slug string) (*Product, error) {
	// Use singleflight to prevent multiple concurrent cache misses for same slug
	v, err, _ := s.sfg.Do(slug, func() (interface{}, error) {

		product, err := s.cache.Get(ctx, slug)
		if err == nil {
			return product, nil // product is in cache
		}

		if !errors.Is(err, ErrCacheMiss) {
			log.Printf("cache get error: %v \n", err) // log cache error but continue
		}

		raw, errFetch := s.content.Fetch(ctx, productBySlugQuery, map[string]string{"slug": slug})
		if errFetch != nil {
			return nil, errFetch
		}
		if raw == nil {
			return (*Product)(nil), nil // not found, not an error
		}

		var fetched Product
		if errDecode := json.Unmarshal(raw, &fetched); errDecode != nil {
			return nil, fmt.Errorf("decode product document: %w", errDecode)
		}

		// set cache
		go func() {
			errSet := s.cache.Set(context.Background(), slug, &fetched)
			if errSet != nil {
				log.Printf("cache set error: %v \n", errSet)
			}
		}()

		return &fetched, nil
	})

	if err != nil {
		return nil, err
	}

	return v.(*Product), nil
}

// Products returns every published product. The list is not cached; the
// content source already serves it from its CDN.
func (s *Service) Products(ctx context.Context) ([]Product, error) {
	raw, err := s.content.Fetch(ctx, allProductsQuery, nil)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return []Product{}, nil
	}

	var products []Product
	if err := json.Unmarshal(raw, &products); err != nil {
		return nil, fmt.Errorf("decode product list: %w", err)
	}
	return products, nil
}
