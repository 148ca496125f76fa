package verifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitraverify/verifyd/src/types"
)

func TestVerifyDecodesResult(t *testing.T) {
	var gotBody map[string]interface{}
	var gotVersion string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/verify", r.URL.Path)
		gotVersion = r.Header.Get("X-Client-Version")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"result": map[string]interface{}{
				"status":      "questionable",
				"confidence":  0.8,
				"explanation": "sensational framing",
			},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	got, err := c.Verify(context.Background(), types.ContentText, map[string]interface{}{"content": "Doctors confirm miracle cure"})
	require.NoError(t, err)

	assert.Equal(t, types.StatusQuestionable, got.Status)
	assert.Equal(t, 0.8, got.Confidence)
	assert.Equal(t, "text", gotBody["content_type"])
	assert.Equal(t, "Doctors confirm miracle cure", gotBody["content"])
	assert.NotEmpty(t, gotVersion)
}

func TestVerifyNon2xxIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "backend unavailable", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	_, err := c.Verify(context.Background(), types.ContentURL, map[string]interface{}{"url": "http://x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestVerifyMissingResultIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	_, err := c.Verify(context.Background(), types.ContentText, nil)
	assert.Error(t, err)
}

func TestVerifyTimesOut(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 50*time.Millisecond)
	_, err := c.Verify(context.Background(), types.ContentText, map[string]interface{}{"content": "slow"})
	assert.Error(t, err)
}

func TestSendFeedback(t *testing.T) {
	var gotBody map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/feedback", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	require.NoError(t, c.SendFeedback(context.Background(), "wrong verdict on my post"))
	assert.Equal(t, "wrong verdict on my post", gotBody["feedback"])
}
