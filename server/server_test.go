package server

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/wordvec/analytics"
	"github.com/viant/wordvec/lemma"
	"github.com/viant/wordvec/store"
	"github.com/viant/wordvec/vector"
	"github.com/viant/wordvec/vocab"
	"github.com/viant/wordvec/wordlist"
)

func newStore(t *testing.T) *store.Store {
	t.Helper()
	model, err := vocab.NewMemory(
		[]string{"king", "queen", "man", "woman", "princess", "apple", "pear"},
		[][]float32{
			{0.9, 0.8, 0.1, 0.0},
			{0.85, 0.82, 0.15, 0.9},
			{0.1, 0.7, 0.0, 0.05},
			{0.05, 0.72, 0.05, 0.95},
			{0.6, 0.7, 0.2, 0.85},
			{0.0, 0.1, 0.9, 0.3},
			{0.05, 0.15, 0.85, 0.35},
		},
	)
	require.NoError(t, err)
	return store.FromModel(model)
}

func newServer(t *testing.T, vectors analytics.Vectors, opts ...Option) *Server {
	t.Helper()
	// 2024-01-01 selects "pear" from this list.
	words := wordlist.List{"king", "queen", "apple", "pear", "man"}
	service, err := analytics.New(vectors, lemma.Lowercase, words,
		analytics.WithClock(func() time.Time { return time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC) }),
		analytics.WithLocation(time.UTC),
	)
	require.NoError(t, err)
	return New(service, opts...)
}

func postForm(t *testing.T, h http.Handler, path string, values url.Values) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return serve(t, h, req)
}

func postJSON(t *testing.T, h http.Handler, path, body string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	return serve(t, h, req)
}

func serve(t *testing.T, h http.Handler, req *http.Request) (int, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	var body map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	}
	return rec.Code, body
}

func resultWords(body map[string]any) []string {
	var out []string
	for _, item := range body["results"].([]any) {
		out = append(out, item.(map[string]any)["word"].(string))
	}
	return out
}

func TestAnalogy(t *testing.T) {
	h := newServer(t, newStore(t)).Handler()

	code, body := postForm(t, h, "/api/analogy", url.Values{"word_a": {"King"}, "word_b": {"man"}, "word_c": {"woman"}, "n": {"2"}})
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "king - man + woman", body["equation"])
	assert.Equal(t, []string{"queen", "princess"}, resultWords(body))
	assert.Nil(t, body["error"])

	_, body = postForm(t, h, "/api/analogy", url.Values{"word_a": {"king"}, "word_b": {" "}, "word_c": {"woman"}})
	assert.Equal(t, "Please fill in all three words", body["error"])

	_, body = postJSON(t, h, "/api/analogy", `{"word_a":"king","word_b":"zzz","word_c":"yyy"}`)
	assert.Equal(t, "Unknown word(s): zzz, yyy", body["error"])
	assert.Empty(t, body["results"])
	code, body = postForm(t, h, "/api/analogy", url.Values{"word_a": {"king"}, "word_b": {"man"}, "word_c": {"woman"}, "n": {"9223372036854775807"}})
	assert.Equal(t, http.StatusOK, code)
	assert.Len(t, resultWords(body), 4)
}

func TestSimilarity(t *testing.T) {
	h := newServer(t, newStore(t)).Handler()

	code, body := postJSON(t, h, "/api/similarity", `{"word1":"king","word2":"queen"}`)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, 89.82, body["similarity"])
	assert.InDelta(t, 0.7963, body["raw_similarity"], 1e-4)

	_, body = postJSON(t, h, "/api/similarity", `{"word1":"zzz","word2":"queen"}`)
	assert.Equal(t, "Unknown word: zzz", body["error"])
	assert.Nil(t, body["similarity"])

	_, body = postJSON(t, h, "/api/similarity", `{"word1":"king"}`)
	assert.Equal(t, "Please enter two words", body["error"])

	code, _ = postJSON(t, h, "/api/similarity", `{"word1":`)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestVisualize(t *testing.T) {
	h := newServer(t, newStore(t)).Handler()

	_, body := postForm(t, h, "/api/visualize", url.Values{"words": {"king, queen,, zzz"}})
	assert.Nil(t, body["error"])
	assert.Len(t, body["coordinates"], 2)
	assert.Equal(t, []any{"zzz"}, body["missing"])

	_, body = postJSON(t, h, "/api/visualize", `{"words":["king","apple","pear"]}`)
	assert.Len(t, body["coordinates"], 3)

	_, body = postForm(t, h, "/api/visualize", url.Values{"words": {"king, "}})
	assert.Equal(t, "Please enter at least 2 words", body["error"])
	assert.Empty(t, body["coordinates"])

	_, body = postForm(t, h, "/api/visualize", url.Values{"words": {"king, zzz"}})
	assert.Equal(t, "Need at least 2 valid words with vectors", body["error"])
	assert.Equal(t, []any{"zzz"}, body["missing"])
}

func TestGame(t *testing.T) {
	h := newServer(t, newStore(t)).Handler()

	_, body := postForm(t, h, "/api/game/guess", url.Values{"guess": {"Pear"}})
	assert.Equal(t, true, body["correct"])
	assert.Equal(t, 100.0, body["similarity"])

	_, body = postForm(t, h, "/api/game/guess", url.Values{"guess": {"apple"}})
	assert.Equal(t, false, body["correct"])
	assert.Equal(t, 99.73, body["similarity"])

	_, body = postForm(t, h, "/api/game/guess", url.Values{"guess": {"zzz"}})
	assert.Equal(t, "Unknown word: zzz", body["error"])
	assert.Nil(t, body["similarity"])
	assert.Equal(t, false, body["correct"])

	_, body = postForm(t, h, "/api/game/guess", url.Values{})
	assert.Equal(t, "Please enter a word", body["error"])

	code, body := serve(t, h, httptest.NewRequest(http.MethodGet, "/api/game/hint", nil))
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, 4.0, body["length"])
	assert.Equal(t, "p", body["first_letter"])
	assert.Equal(t, "apple", body["similar"])
}

func TestDailyWord_DebugOnly(t *testing.T) {
	code, body := serve(t, newServer(t, newStore(t)).Handler(), httptest.NewRequest(http.MethodGet, "/api/game/word", nil))
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "Not available", body["error"])

	code, body = serve(t, newServer(t, newStore(t), WithDebug(true)).Handler(), httptest.NewRequest(http.MethodGet, "/api/game/word", nil))
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "pear", body["word"])
}

func TestStatusAndRouting(t *testing.T) {
	vectors := newStore(t)
	h := newServer(t, vectors, WithStats(vectors)).Handler()

	code, body := serve(t, h, httptest.NewRequest(http.MethodGet, "/status", nil))
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, 7.0, body["words"])
	assert.Equal(t, 4.0, body["dimension"])
	assert.Equal(t, "2024-01-01", body["date"])

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/analogy", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

type brokenIndex struct{ *store.Store }

func (brokenIndex) NearestNeighbors(context.Context, vector.Vector, int) ([]vector.Neighbor, error) {
	return nil, errors.New("index offline")
}

func TestUnexpectedErrors(t *testing.T) {
	h := newServer(t, brokenIndex{newStore(t)}).Handler()
	code, body := postForm(t, h, "/api/analogy", url.Values{"word_a": {"king"}, "word_b": {"man"}, "word_c": {"woman"}})
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "internal error", body["error"])
}

func TestModelLoadFailure(t *testing.T) {
	failing := store.New(func(context.Context) (vector.Model, error) {
		return nil, errors.New("vocabulary file missing")
	})
	h := newServer(t, failing).Handler()
	code, body := postForm(t, h, "/api/similarity", url.Values{"word1": {"king"}, "word2": {"queen"}})
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "internal error", body["error"])

	code, body = postForm(t, h, "/api/game/guess", url.Values{"guess": {"apple"}})
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "internal error", body["error"])
}

func TestServe_GracefulShutdown(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	srv := newServer(t, newStore(t), WithTimeouts(time.Second, time.Second, time.Second))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, listener) }()

	resp, err := http.Get("http://" + listener.Addr().String() + "/status")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
