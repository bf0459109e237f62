package translate

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-redis/redis/v9"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/text/language"
)

// ErrNotTranslated is returned when no source knows a key.
var ErrNotTranslated = errors.New("translate: key not translated")

type localeKey struct{}

// WithLocale returns a context carrying the preferred locale.
func WithLocale(ctx context.Context, tag language.Tag) context.Context {
	return context.WithValue(ctx, localeKey{}, tag)
}

// LocaleFrom returns the locale stored by WithLocale.
func LocaleFrom(ctx context.Context) (language.Tag, bool) {
	tag, ok := ctx.Value(localeKey{}).(language.Tag)
	return tag, ok
}

// Service translates keys through the translation endpoint. Answers are cached
// in redis and the embedded catalog is used when the endpoint can not answer.
type Service struct {
	// Endpoint is the URL of the translation endpoint, empty to use the
	// catalog only.
	Endpoint string

	// Locale is used when the context carries none.
	Locale language.Tag

	// Redis caches endpoint answers, nil disables the cache.
	Redis *redis.Client

	// TTL is the lifetime of cached answers.
	TTL time.Duration

	Catalog *Catalog

	HTTP *http.Client
}

// New creates a translation service with the embedded catalog.
func New(endpoint string, locale string, rdb *redis.Client, ttl time.Duration) (*Service, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, err
	}
	catalog, err := LoadCatalog(tag)
	if err != nil {
		return nil, err
	}
	return &Service{
		Endpoint: endpoint,
		Locale:   tag,
		Redis:    rdb,
		TTL:      ttl,
		Catalog:  catalog,
		HTTP:     &http.Client{Timeout: 5 * time.Second},
	}, nil
}

// locale returns the shipped locale closest to the one of ctx, so cache keys
// and endpoint queries only ever use catalog locales.
func (s *Service) locale(ctx context.Context) language.Tag {
	tag, ok := LocaleFrom(ctx)
	if !ok {
		tag = s.Locale
	}
	if s.Catalog != nil {
		return s.Catalog.Match(tag)
	}
	return tag
}

func cacheKey(tag language.Tag, key string) string {
	return fmt.Sprintf("translate:%s:%s", tag, key)
}

// Translate returns the localized string of key.
func (s *Service) Translate(ctx context.Context, key string) (string, error) {
	tag := s.locale(ctx)
	logger := log.WithField("key", key).WithField("locale", tag.String())

	if s.Redis != nil {
		v, err := s.Redis.Get(ctx, cacheKey(tag, key)).Result()
		switch {
		case err == nil:
			return v, nil
		case errors.Is(err, redis.Nil):
		default:
			logger.WithError(err).Debug("Translation cache unavailable")
		}
	}

	if s.Endpoint != "" {
		v, err := s.fetch(ctx, tag, key)
		if err == nil {
			if s.Redis != nil {
				if err := s.Redis.Set(ctx, cacheKey(tag, key), v, s.TTL).Err(); err != nil {
					logger.WithError(err).Debug("Failed to cache translation")
				}
			}
			return v, nil
		}
		logger.WithError(err).Debug("Translation endpoint failed, using catalog")
	}

	if s.Catalog != nil {
		if v, ok := s.Catalog.Lookup(tag, key); ok {
			return v, nil
		}
	}
	return "", ErrNotTranslated
}

// Lookup is Translate that falls back to the key itself.
func (s *Service) Lookup(ctx context.Context, key string) string {
	v, err := s.Translate(ctx, key)
	if err != nil {
		return key
	}
	return v
}

func (s *Service) fetch(ctx context.Context, tag language.Tag, key string) (string, error) {
	q := url.Values{"key": {key}, "locale": {tag.String()}}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.Endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept-Language", tag.String())
	hc := s.HTTP
	if hc == nil {
		hc = http.DefaultClient
	}
	resp, err := hc.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", errors.Errorf("translate: %s", resp.Status)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return "", err
	}
	v := strings.TrimSpace(string(body))
	if v == "" {
		return "", ErrNotTranslated
	}
	return v, nil
}
