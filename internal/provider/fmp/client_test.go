package fmp_test

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"findata/internal/provider"
	"findata/internal/provider/fmp"
)

func jsonBody(t *testing.T, body string) *http.Response {
	t.Helper()
	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(bytes.NewBufferString(body)),
	}
}

func TestClient_SendsAPIKeyAsQueryParam(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	doer := NewMockDoer(ctrl)

	doer.EXPECT().
		Do(gomock.Any()).
		DoAndReturn(func(req *http.Request) (*http.Response, error) {
			require.Equal(t, "secret", req.URL.Query().Get("apikey"))
			return jsonBody(t, `[]`), nil
		}).
		Times(1)

	client := fmp.New("secret", fmp.WithDoer(doer))
	_, err := client.Search(context.Background(), "apple")
	require.NoError(t, err)
}

func TestClient_WithBaseURL(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	doer := NewMockDoer(ctrl)

	baseURL := "http://localhost:9090"
	doer.EXPECT().
		Do(gomock.Any()).
		DoAndReturn(func(req *http.Request) (*http.Response, error) {
			require.Truef(t, strings.HasPrefix(req.URL.String(), baseURL), "url: %s", req.URL.String())
			return jsonBody(t, `[]`), nil
		}).
		Times(1)

	client := fmp.New("secret", fmp.WithDoer(doer), fmp.WithBaseURL(baseURL))
	_, err := client.Quote(context.Background(), "XYZ")
	require.NoError(t, err)
}

func TestClient_AuthRejectionIsConfigError(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	doer := NewMockDoer(ctrl)

	doer.EXPECT().
		Do(gomock.Any()).
		Return(&http.Response{
			StatusCode: http.StatusUnauthorized,
			Body:       io.NopCloser(bytes.NewBufferString(`{"Error Message":"Invalid API KEY"}`)),
		}, nil).
		Times(1)

	client := fmp.New("bad-key", fmp.WithDoer(doer))
	_, err := client.Quote(context.Background(), "XYZ")
	require.Error(t, err)
	require.True(t, provider.IsConfig(err), "401 must classify as configuration: %v", err)
}

func TestClient_ServerErrorIsTransient(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	doer := NewMockDoer(ctrl)

	doer.EXPECT().
		Do(gomock.Any()).
		Return(&http.Response{
			StatusCode: http.StatusBadGateway,
			Body:       io.NopCloser(bytes.NewBufferString(``)),
		}, nil).
		Times(1)

	client := fmp.New("secret", fmp.WithDoer(doer))
	_, err := client.Quote(context.Background(), "XYZ")
	require.Error(t, err)
	require.False(t, provider.IsConfig(err))
	require.False(t, provider.IsUnsupported(err))
}

func TestClient_WeeklyHistoryUnsupported(t *testing.T) {
	t.Parallel()

	client := fmp.New("secret")
	_, err := client.HistoricalPrices(context.Background(), "XYZ", provider.IntervalWeekly, 10)
	require.ErrorIs(t, err, provider.ErrUnsupported)
}
