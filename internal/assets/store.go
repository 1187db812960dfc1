// Package assets loads wheel images in the background and answers the
// renderer's "is this image ready" question.
package assets

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/iburimskiy/prize-wheel/internal/logger"
)

// ErrNotLoaded is returned by Image for references that are missing,
// still loading or failed to decode.
var ErrNotLoaded = errors.New("assets: image not loaded")

type entry struct {
	img image.Image
	err error
	ok  bool
}

// Store decodes images referenced by file path or data URI. Loads run in
// their own goroutines; readers only ever see finished images.
type Store struct {
	baseDir string

	mu      sync.RWMutex
	entries map[string]*entry
	wg      sync.WaitGroup
}

// NewStore resolves relative paths against baseDir.
func NewStore(baseDir string) *Store {
	return &Store{baseDir: baseDir, entries: make(map[string]*entry)}
}

// Load starts loading every ref not already known. Empty refs are ignored.
func (s *Store) Load(refs ...string) {
	for _, ref := range refs {
		if ref == "" {
			continue
		}
		s.mu.Lock()
		if _, known := s.entries[ref]; known {
			s.mu.Unlock()
			continue
		}
		e := &entry{}
		s.entries[ref] = e
		s.mu.Unlock()

		s.wg.Add(1)
		go func(ref string, e *entry) {
			defer s.wg.Done()
			img, err := s.decode(ref)

			s.mu.Lock()
			e.img, e.err, e.ok = img, err, err == nil
			s.mu.Unlock()

			if err != nil {
				logger.Warn("image load failed", zap.String("ref", shortRef(ref)), zap.Error(err))
				return
			}
			logger.Debug("image loaded", zap.String("ref", shortRef(ref)),
				zap.Int("width", img.Bounds().Dx()), zap.Int("height", img.Bounds().Dy()))
		}(ref, e)
	}
}

// IsReady reports whether ref has been decoded successfully.
func (s *Store) IsReady(ref string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[ref]
	return ok && e.ok
}

// Image returns the decoded image for ref.
func (s *Store) Image(ref string) (image.Image, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[ref]
	if !ok || !e.ok {
		if ok && e.err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNotLoaded, e.err)
		}
		return nil, ErrNotLoaded
	}
	return e.img, nil
}

// Put registers an already decoded image under ref.
func (s *Store) Put(ref string, img image.Image) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[ref] = &entry{img: img, ok: true}
}

// Wait blocks until every pending load finishes or ctx is done.
func (s *Store) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Store) decode(ref string) (image.Image, error) {
	r, err := s.open(ref)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return img, nil
}

func (s *Store) open(ref string) (io.ReadCloser, error) {
	if strings.HasPrefix(ref, "data:") {
		data, err := decodeDataURI(ref)
		if err != nil {
			return nil, err
		}
		return io.NopCloser(bytes.NewReader(data)), nil
	}
	path := ref
	if !filepath.IsAbs(path) {
		path = filepath.Join(s.baseDir, path)
	}
	return os.Open(path)
}

// decodeDataURI extracts the payload of "data:[<mediatype>][;base64],<data>".
func decodeDataURI(ref string) ([]byte, error) {
	meta, payload, ok := strings.Cut(strings.TrimPrefix(ref, "data:"), ",")
	if !ok {
		return nil, errors.New("data uri: missing ','")
	}
	if strings.HasSuffix(meta, ";base64") {
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, fmt.Errorf("data uri: %w", err)
		}
		return data, nil
	}
	data, err := url.PathUnescape(payload)
	if err != nil {
		return nil, fmt.Errorf("data uri: %w", err)
	}
	return []byte(data), nil
}

// shortRef keeps data URIs out of the logs.
func shortRef(ref string) string {
	if strings.HasPrefix(ref, "data:") {
		meta, _, _ := strings.Cut(ref, ",")
		return meta + ",…"
	}
	return ref
}
