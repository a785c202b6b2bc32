package data

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

const sampleSnapshot = `{"conversations":[{"id":"c1","participants":["me","bob"],"last_message_at":"2026-02-09T09:00:00Z","last_message_preview":"hi","unread_count":1,"created_at":"2026-02-01T00:00:00Z","other_user":{"id":"bob","name":"Bob"}}]}`

func TestHTTPProviderSendsNoCacheRequest(t *testing.T) {
	var got *http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Clone(context.Background())
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(sampleSnapshot))
	}))
	defer srv.Close()

	provider, err := NewHTTPProvider(HTTPProviderConfig{Endpoint: srv.URL + "/api/conversations?scope=mine", Token: "secret"})
	require.NoError(t, err)

	conversations, err := provider.FetchConversations(context.Background())
	require.NoError(t, err)
	require.Len(t, conversations, 1)
	require.Equal(t, "Bob", conversations[0].OtherUser.Name)

	require.NotNil(t, got)
	require.Equal(t, http.MethodGet, got.Method)
	require.Equal(t, "/api/conversations", got.URL.Path)
	require.Equal(t, "mine", got.URL.Query().Get("scope"))
	require.NotEmpty(t, got.URL.Query().Get(cacheBustParam))
	require.Equal(t, "no-cache, no-store", got.Header.Get("Cache-Control"))
	require.Equal(t, "no-cache", got.Header.Get("Pragma"))
	require.Equal(t, "Bearer secret", got.Header.Get("Authorization"))
	_, err = uuid.Parse(got.Header.Get(requestIDHeader))
	require.NoError(t, err)
}

func TestHTTPProviderDefaultsPath(t *testing.T) {
	provider, err := NewHTTPProvider(HTTPProviderConfig{Endpoint: "https://example.test"})
	require.NoError(t, err)
	require.Equal(t, "https://example.test/api/conversations", provider.Endpoint())

	provider, err = NewHTTPProvider(HTTPProviderConfig{Endpoint: "https://example.test/"})
	require.NoError(t, err)
	require.Equal(t, "https://example.test/", provider.Endpoint())

	_, err = NewHTTPProvider(HTTPProviderConfig{Endpoint: "ftp://example.test"})
	require.Error(t, err)
	_, err = NewHTTPProvider(HTTPProviderConfig{})
	require.Error(t, err)
}

func TestHTTPProviderMapsFailures(t *testing.T) {
	status := http.StatusOK
	body := sampleSnapshot
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()

	provider, err := NewHTTPProvider(HTTPProviderConfig{Endpoint: srv.URL})
	require.NoError(t, err)

	status = http.StatusUnauthorized
	_, err = provider.FetchConversations(context.Background())
	var fe *FetchError
	require.True(t, errors.As(err, &fe))
	require.Equal(t, FetchStatus, fe.Kind)
	require.Equal(t, http.StatusUnauthorized, fe.Status)
	require.ErrorIs(t, err, ErrFetchFailed)
	require.False(t, IsMalformed(err))

	status = http.StatusOK
	body = `{"conversations":[{"id":""}]}`
	_, err = provider.FetchConversations(context.Background())
	require.True(t, errors.As(err, &fe))
	require.Equal(t, FetchMalformed, fe.Kind)
	require.ErrorIs(t, err, ErrFetchFailed)
	require.NotErrorIs(t, err, ErrUndecodableSnapshot)

	body = `<html>bad gateway</html>`
	_, err = provider.FetchConversations(context.Background())
	require.True(t, errors.As(err, &fe))
	require.Equal(t, FetchDecode, fe.Kind)
	require.ErrorIs(t, err, ErrUndecodableSnapshot)
	require.ErrorIs(t, err, ErrMalformedSnapshot)
	require.True(t, IsMalformed(err))
	require.ErrorIs(t, err, ErrMalformedSnapshot)
	require.True(t, IsMalformed(err))

	srv.Close()
	_, err = provider.FetchConversations(context.Background())
	require.True(t, errors.As(err, &fe))
	require.Equal(t, FetchTransport, fe.Kind)
}
