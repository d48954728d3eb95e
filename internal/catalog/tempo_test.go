package catalog

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/desertthunder/runlist/internal/shared"
	mocks "github.com/desertthunder/runlist/internal/testing"
)

func bpmClient(status int, body string, err error) *http.Client {
	resp := &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewBufferString(body)),
	}
	return &http.Client{Transport: mocks.NewMockRoundTripper(resp, err)}
}

func TestGetSongBPM(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the first parseable tempo", func(t *testing.T) {
		client := bpmClient(200, `{"search":[{"tempo":"128"},{"tempo":"90"}]}`, nil)
		provider := NewGetSongBPM("key", "", client)

		tempo, err := provider.Tempo(ctx, "Artist", "Title")
		if err != nil {
			t.Fatalf("lookup failed: %v", err)
		}
		if tempo != 128 {
			t.Errorf("expected 128, got %v", tempo)
		}
	})

	t.Run("skips unparseable tempos", func(t *testing.T) {
		client := bpmClient(200, `{"search":[{"tempo":"fast"},{"tempo":"0"},{"tempo":"90.5"}]}`, nil)
		provider := NewGetSongBPM("key", "", client)

		tempo, err := provider.Tempo(ctx, "Artist", "Title")
		if err != nil {
			t.Fatalf("lookup failed: %v", err)
		}
		if tempo != 90.5 {
			t.Errorf("expected 90.5, got %v", tempo)
		}
	})

	t.Run("no match yields ErrNoTempo", func(t *testing.T) {
		client := bpmClient(200, `{"search":[]}`, nil)
		provider := NewGetSongBPM("key", "", client)

		if _, err := provider.Tempo(ctx, "Artist", "Title"); !errors.Is(err, shared.ErrNoTempo) {
			t.Errorf("expected ErrNoTempo, got %v", err)
		}
	})

	t.Run("missing API key yields ErrNoTempo", func(t *testing.T) {
		provider := NewGetSongBPM("", "", nil)

		if _, err := provider.Tempo(ctx, "Artist", "Title"); !errors.Is(err, shared.ErrNoTempo) {
			t.Errorf("expected ErrNoTempo, got %v", err)
		}
	})

	t.Run("client error yields ErrAPIRequest", func(t *testing.T) {
		client := bpmClient(404, `{}`, nil)
		provider := NewGetSongBPM("key", "", client)

		if _, err := provider.Tempo(ctx, "Artist", "Title"); !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", err)
		}
	})

	t.Run("server error yields ErrServiceUnavailable", func(t *testing.T) {
		client := bpmClient(500, `{}`, nil)
		provider := NewGetSongBPM("key", "", client)

		if _, err := provider.Tempo(ctx, "Artist", "Title"); !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
	})

	t.Run("transport error yields ErrAPIRequest", func(t *testing.T) {
		client := &http.Client{Transport: mocks.NewMockRoundTripper(nil, errors.New("connection refused"))}
		provider := NewGetSongBPM("key", "", client)

		if _, err := provider.Tempo(ctx, "Artist", "Title"); !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", err)
		}
	})
}

type staticTempo struct {
	tempo float64
	err   error
}

func (s staticTempo) Tempo(context.Context, string, string) (float64, error) {
	return s.tempo, s.err
}

func TestTempoChain(t *testing.T) {
	ctx := context.Background()

	t.Run("first answer wins", func(t *testing.T) {
		chain := TempoChain{
			staticTempo{err: shared.ErrNoTempo},
			staticTempo{tempo: 174},
			staticTempo{tempo: 90},
		}

		tempo, err := chain.Tempo(ctx, "Artist", "Title")
		if err != nil {
			t.Fatalf("lookup failed: %v", err)
		}
		if tempo != 174 {
			t.Errorf("expected 174, got %v", tempo)
		}
	})

	t.Run("empty chain yields ErrNoTempo", func(t *testing.T) {
		if _, err := (TempoChain{}).Tempo(ctx, "Artist", "Title"); !errors.Is(err, shared.ErrNoTempo) {
			t.Errorf("expected ErrNoTempo, got %v", err)
		}
	})
}
