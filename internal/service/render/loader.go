package render

import (
	"context"
	"fmt"
	"image"
	"io"
	"net/http"
	"sync"
	"time"

	_ "image/jpeg"
	_ "image/png"

	models "reportdesk/internal/domain/models/report"
	reportSvc "reportdesk/internal/domain/services/report"

	"golang.org/x/sync/errgroup"
)

// maxImageFetchBytes bounds a single image download.
const maxImageFetchBytes = 15 << 20

// HTTPImageLoader fetches images from their public URLs.
type HTTPImageLoader struct {
	client *http.Client
}

func NewHTTPImageLoader() *HTTPImageLoader {
	return &HTTPImageLoader{client: &http.Client{Timeout: 20 * time.Second}}
}

// Load downloads and decodes a PNG or JPEG.
func (l *HTTPImageLoader) Load(ctx context.Context, url string) (image.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build image request: %w", err)
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch image %s: status %d", url, resp.StatusCode)
	}
	img, _, err := image.Decode(io.LimitReader(resp.Body, maxImageFetchBytes))
	if err != nil {
		return nil, fmt.Errorf("decode image %s: %w", url, err)
	}
	return img, nil
}

// prefetched is an ImageLoader over images already in memory.
type prefetched struct {
	mu     sync.Mutex
	images map[string]image.Image
	next   reportSvc.ImageLoader
}

func (p *prefetched) Load(ctx context.Context, url string) (image.Image, error) {
	p.mu.Lock()
	img, ok := p.images[url]
	p.mu.Unlock()
	if ok {
		return img, nil
	}
	return p.next.Load(ctx, url)
}

// prefetch loads every image referenced by doc with at most workers
// concurrent fetches. The first failure cancels the rest.
func prefetch(ctx context.Context, doc *Document, loader reportSvc.ImageLoader, workers int) (reportSvc.ImageLoader, error) {
	if loader == nil {
		return nil, nil
	}

	urls := map[string]struct{}{}
	for _, page := range doc.Pages {
		if page.Kind != models.KindImage {
			continue
		}
		images := doc.Store.Get(page.SectionID).Content.Images
		if page.Index < len(images) && images[page.Index] != "" {
			urls[images[page.Index]] = struct{}{}
		}
	}

	p := &prefetched{images: make(map[string]image.Image, len(urls)), next: loader}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for url := range urls {
		g.Go(func() error {
			img, err := loader.Load(gctx, url)
			if err != nil {
				return err
			}
			p.mu.Lock()
			p.images[url] = img
			p.mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return p, nil
}
