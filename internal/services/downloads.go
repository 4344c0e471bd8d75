package services

import (
	"crypto/rand"
	"encoding/base64"
	"sync"
	"time"
)

type storedDownload struct {
	download  *Download
	expiresAt time.Time
}

// DownloadStore holds generated files until the client fetches them once or
// the TTL lapses.
type DownloadStore struct {
	mu    sync.Mutex
	ttl   time.Duration
	items map[string]storedDownload
	now   func() time.Time
}

func NewDownloadStore(ttl time.Duration) *DownloadStore {
	return &DownloadStore{
		ttl:   ttl,
		items: make(map[string]storedDownload),
		now:   time.Now,
	}
}

func (s *DownloadStore) Put(d *Download) (token string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.purgeExpiredLocked(now)

	token = newRandomToken(24)
	s.items[token] = storedDownload{download: d, expiresAt: now.Add(s.ttl)}
	return token
}

// Take returns the download and releases it.
func (s *DownloadStore) Take(token string) (*Download, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.purgeExpiredLocked(s.now())

	v, ok := s.items[token]
	if !ok {
		return nil, false
	}
	delete(s.items, token)
	return v.download, true
}

func (s *DownloadStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.purgeExpiredLocked(s.now())
	return len(s.items)
}

func (s *DownloadStore) purgeExpiredLocked(now time.Time) {
	for k, v := range s.items {
		if now.After(v.expiresAt) {
			delete(s.items, k)
		}
	}
}

func newRandomToken(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}
