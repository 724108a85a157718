package tradier_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	tradier "wheelscreener/internal/tradier"
)

func TestGetExpirations(t *testing.T) {
	t.Parallel()

	// Arrange: create a mock controller
	ctrl := gomock.NewController(t)

	// Arrange: create a mock HTTP client
	httpClient := NewMockHTTPClient(ctrl)

	// Assert: stub the Do method
	httpClient.EXPECT().
		Do(gomock.Any()).
		DoAndReturn(func(req *http.Request) (*http.Response, error) {
			require.Equal(t, http.MethodGet, req.Method)
			require.Contains(t, req.URL.Path, "/markets/options/expirations")
			require.Equal(t, "SOFI", req.URL.Query().Get("symbol"))

			buffer := &bytes.Buffer{}
			require.NoError(t, json.NewEncoder(buffer).Encode(map[string]any{
				"expirations": map[string]any{
					"date": []string{"2026-08-28", "2026-09-04", "2026-09-18"},
				},
			}))

			return &http.Response{
				StatusCode: http.StatusOK,
				Body:       io.NopCloser(buffer),
			}, nil
		}).
		Times(1)

	// Arrange: setup a new Tradier API client
	client, err := tradier.NewClient("test-key", tradier.WithHTTPClient(httpClient))
	require.NoError(t, err)
	require.NotNil(t, client)

	// Act: call GetExpirations
	dates, err := client.GetExpirations(t.Context(), "SOFI")
	require.NoError(t, err)

	// Assert: the dates arrive in API order
	require.Equal(t, []string{"2026-08-28", "2026-09-04", "2026-09-18"}, dates)
}

func TestGetExpirations_SingleDate(t *testing.T) {
	t.Parallel()

	// Arrange: create a mock controller
	ctrl := gomock.NewController(t)

	// Arrange: create a mock HTTP client
	httpClient := NewMockHTTPClient(ctrl)

	// Assert: stub the Do method with the scalar form the API uses for a
	// single date
	httpClient.EXPECT().
		Do(gomock.Any()).
		DoAndReturn(func(req *http.Request) (*http.Response, error) {
			buffer := bytes.NewBufferString(`{"expirations":{"date":"2026-09-18"}}`)

			return &http.Response{
				StatusCode: http.StatusOK,
				Body:       io.NopCloser(buffer),
			}, nil
		}).
		Times(1)

	// Arrange: setup a new Tradier API client
	client, err := tradier.NewClient("test-key", tradier.WithHTTPClient(httpClient))
	require.NoError(t, err)
	require.NotNil(t, client)

	// Act: call GetExpirations
	dates, err := client.GetExpirations(t.Context(), "SOFI")
	require.NoError(t, err)

	// Assert: the scalar is normalized to a one-element list
	require.Equal(t, []string{"2026-09-18"}, dates)
}

func TestGetExpirations_NoExpirations(t *testing.T) {
	t.Parallel()

	// Arrange: create a mock controller
	ctrl := gomock.NewController(t)

	// Arrange: create a mock HTTP client
	httpClient := NewMockHTTPClient(ctrl)

	// Assert: stub the Do method with the null payload for symbols without
	// listed options
	httpClient.EXPECT().
		Do(gomock.Any()).
		DoAndReturn(func(req *http.Request) (*http.Response, error) {
			buffer := bytes.NewBufferString(`{"expirations":null}`)

			return &http.Response{
				StatusCode: http.StatusOK,
				Body:       io.NopCloser(buffer),
			}, nil
		}).
		Times(1)

	// Arrange: setup a new Tradier API client
	client, err := tradier.NewClient("test-key", tradier.WithHTTPClient(httpClient))
	require.NoError(t, err)
	require.NotNil(t, client)

	// Act: call GetExpirations
	dates, err := client.GetExpirations(t.Context(), "BRK.A")
	require.NoError(t, err)
	require.Empty(t, dates)
}

func TestGetExpirations_ErrUnexpectedStatusCode(t *testing.T) {
	t.Parallel()

	// Arrange: create a mock controller
	ctrl := gomock.NewController(t)

	// Arrange: create a mock HTTP client
	httpClient := NewMockHTTPClient(ctrl)

	// Assert: stub the Do method
	httpClient.EXPECT().
		Do(gomock.Any()).
		DoAndReturn(func(req *http.Request) (*http.Response, error) {
			return &http.Response{
				StatusCode: http.StatusTooManyRequests,
				Body:       io.NopCloser(bytes.NewReader([]byte{})),
			}, nil
		}).
		Times(1)

	// Arrange: setup a new Tradier API client
	client, err := tradier.NewClient("test-key", tradier.WithHTTPClient(httpClient))
	require.NoError(t, err)
	require.NotNil(t, client)

	// Act: call GetExpirations
	dates, err := client.GetExpirations(t.Context(), "SOFI")
	require.Error(t, err)
	require.Nil(t, dates)
}
