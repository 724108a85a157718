package tradier_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	tradier "wheelscreener/internal/tradier"
)

func TestGetQuote(t *testing.T) {
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
			require.Equal(t, "Bearer test-key", req.Header.Get("Authorization"))
			require.Equal(t, "application/json", req.Header.Get("Accept"))
			require.Contains(t, req.URL.Path, "/markets/quotes")
			require.Equal(t, "SOFI", req.URL.Query().Get("symbols"))

			buffer := &bytes.Buffer{}
			require.NoError(t, json.NewEncoder(buffer).Encode(mockQuoteResponse))

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

	// Act: call GetQuote
	quote, err := client.GetQuote(t.Context(), "SOFI")
	require.NoError(t, err)

	// Assert: the quote should be unmarshalled from the mock response
	require.Equal(t, "SOFI", quote.Symbol)
	require.Equal(t, "SoFi Technologies Inc", quote.Description)
	require.Equal(t, "7.85", quote.Last.String())
	require.Equal(t, "44233120", quote.Volume.String())
}

func TestGetQuote_UnknownSymbol(t *testing.T) {
	t.Parallel()

	// Arrange: create a mock controller
	ctrl := gomock.NewController(t)

	// Arrange: create a mock HTTP client
	httpClient := NewMockHTTPClient(ctrl)

	// Assert: stub the Do method with the degenerate unknown-symbol payload
	httpClient.EXPECT().
		Do(gomock.Any()).
		DoAndReturn(func(req *http.Request) (*http.Response, error) {
			buffer := bytes.NewBufferString(`{"quotes":"null"}`)

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

	// Act: call GetQuote for a symbol the API does not know
	_, err = client.GetQuote(t.Context(), "NOPE")
	require.ErrorIs(t, err, tradier.ErrNoQuote)
}

func TestGetQuote_EmptyEnvelope(t *testing.T) {
	t.Parallel()

	// Arrange: create a mock controller
	ctrl := gomock.NewController(t)

	// Arrange: create a mock HTTP client
	httpClient := NewMockHTTPClient(ctrl)

	// Assert: stub the Do method with a body missing the quotes structure
	httpClient.EXPECT().
		Do(gomock.Any()).
		DoAndReturn(func(req *http.Request) (*http.Response, error) {
			buffer := &bytes.Buffer{}
			require.NoError(t, json.NewEncoder(buffer).Encode(map[string]any{}))

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

	// Act: call GetQuote
	_, err = client.GetQuote(t.Context(), "SOFI")
	require.ErrorIs(t, err, tradier.ErrNoQuote)
}

func TestGetQuote_NullFields(t *testing.T) {
	t.Parallel()

	// Arrange: create a mock controller
	ctrl := gomock.NewController(t)

	// Arrange: create a mock HTTP client
	httpClient := NewMockHTTPClient(ctrl)

	// Assert: stub the Do method with null numeric fields
	httpClient.EXPECT().
		Do(gomock.Any()).
		DoAndReturn(func(req *http.Request) (*http.Response, error) {
			buffer := bytes.NewBufferString(`{"quotes":{"quote":{"last":null,"volume":null}}}`)

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

	// Act: call GetQuote
	quote, err := client.GetQuote(t.Context(), "SOFI")
	require.NoError(t, err)

	// Assert: null numerics decode to zero, missing symbol falls back to the
	// requested one.
	require.True(t, quote.Last.IsZero())
	require.True(t, quote.Volume.IsZero())
	require.Equal(t, "SOFI", quote.Symbol)
}

func TestGetQuote_ErrPerformingRequest(t *testing.T) {
	t.Parallel()

	// Arrange: create a mock controller
	ctrl := gomock.NewController(t)

	// Arrange: create a mock HTTP client
	httpClient := NewMockHTTPClient(ctrl)

	// Assert: stub the Do method
	httpClient.EXPECT().
		Do(gomock.Any()).
		DoAndReturn(func(req *http.Request) (*http.Response, error) {
			return nil, fmt.Errorf("error")
		}).
		Times(1)

	// Arrange: setup a new Tradier API client
	client, err := tradier.NewClient("test-key", tradier.WithHTTPClient(httpClient))
	require.NoError(t, err)
	require.NotNil(t, client)

	// Act: call GetQuote
	_, err = client.GetQuote(t.Context(), "SOFI")
	require.Error(t, err)
}

func TestGetQuote_ErrUnexpectedStatusCode(t *testing.T) {
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
				StatusCode: http.StatusInternalServerError,
				Body:       io.NopCloser(bytes.NewReader([]byte{})),
			}, nil
		}).
		Times(1)

	// Arrange: setup a new Tradier API client
	client, err := tradier.NewClient("test-key", tradier.WithHTTPClient(httpClient))
	require.NoError(t, err)
	require.NotNil(t, client)

	// Act: call GetQuote
	_, err = client.GetQuote(t.Context(), "SOFI")
	require.Error(t, err)
}

func TestGetQuote_ErrDecodingResponse(t *testing.T) {
	t.Parallel()

	// Arrange: create a mock controller
	ctrl := gomock.NewController(t)

	// Arrange: create a mock HTTP client
	httpClient := NewMockHTTPClient(ctrl)

	// Assert: stub the Do method
	httpClient.EXPECT().
		Do(gomock.Any()).
		DoAndReturn(func(req *http.Request) (*http.Response, error) {
			buffer := &bytes.Buffer{}
			buffer.WriteString("invalid json")

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

	// Act: call GetQuote
	_, err = client.GetQuote(t.Context(), "SOFI")
	require.Error(t, err)
}

// mockQuoteResponse is a mock response from the Tradier quotes endpoint.
var mockQuoteResponse = map[string]any{
	"quotes": map[string]any{
		"quote": map[string]any{
			"symbol":      "SOFI",
			"description": "SoFi Technologies Inc",
			"last":        7.85,
			"volume":      44233120,
		},
	},
}
