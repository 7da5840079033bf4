package ogimage

import (
	"bytes"
	"context"
	"html/template"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/storefront/backend/internal/infrastructure/cache"
	"go.uber.org/zap"
)

// MaxTitleLength is the longest title drawn on a card
const MaxTitleLength = 100

var cardTemplate = template.Must(template.New("card").Parse(`<!DOCTYPE html>
<html><head><meta charset="UTF-8">
<style>
  html, body { margin: 0; width: {{.Width}}px; height: {{.Height}}px; }
  body { display: flex; flex-direction: column; align-items: center; justify-content: center;
         background: #000; color: #fff; font-family: Inter, Helvetica, Arial, sans-serif; }
  .logo { width: 160px; height: 160px; border: 1px solid #404040; border-radius: 24px;
          display: flex; align-items: center; justify-content: center; font-size: 72px; }
  h1 { margin-top: 48px; font-size: 64px; font-weight: 700; text-align: center; max-width: 1000px; }
</style></head>
<body><div class="logo">{{.Initial}}</div><h1>{{.Title}}</h1></body></html>`))

type cardData struct {
	Title   string
	Initial string
	Width   int
	Height  int
}

// Service renders and caches cards
type Service struct {
	renderer Renderer
	store    cache.Store
	ttl      time.Duration
	siteName string
	logger   *zap.Logger
}

// NewService creates a card service. Cards are cached under the content tag.
func NewService(renderer Renderer, store cache.Store, ttl time.Duration, siteName string, logger *zap.Logger) *Service {
	return &Service{
		renderer: renderer,
		store:    store,
		ttl:      ttl,
		siteName: siteName,
		logger:   logger,
	}
}

// Image returns the PNG card for title, falling back to the site name
func (s *Service) Image(ctx context.Context, title string) ([]byte, error) {
	title = s.normalizeTitle(title)
	png, hit, err := cache.Remember(ctx, s.store, "ogimage:"+title, s.ttl, []string{cache.TagContent},
		func(ctx context.Context) ([]byte, error) {
			html, err := s.CardHTML(title)
			if err != nil {
				return nil, err
			}
			return s.renderer.Render(ctx, html)
		})
	if err != nil {
		s.logger.Warn("Failed to render OG image", zap.String("title", title), zap.Error(err))
		return nil, err
	}
	s.logger.Debug("OG image served", zap.String("title", title), zap.Bool("cache_hit", hit))
	return png, nil
}

// CardHTML renders the card document for title
func (s *Service) CardHTML(title string) (string, error) {
	initial := "?"
	if r, _ := utf8.DecodeRuneInString(s.siteName); r != utf8.RuneError {
		initial = strings.ToUpper(string(r))
	}
	var buf bytes.Buffer
	err := cardTemplate.Execute(&buf, cardData{Title: title, Initial: initial, Width: Width, Height: Height})
	return buf.String(), err
}

func (s *Service) normalizeTitle(title string) string {
	title = strings.Join(strings.Fields(title), " ")
	if title == "" {
		return s.siteName
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		runes := []rune(title)
		title = string(runes[:MaxTitleLength-1]) + "…"
	}
	return title
}

// Close releases the renderer
func (s *Service) Close() error {
	return s.renderer.Close()
}
