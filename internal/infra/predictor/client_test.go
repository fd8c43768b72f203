package predictor

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/crop-advisor/internal/domain/crop"
	apperrors "github.com/yanqian/crop-advisor/pkg/errors"
)

var referenceVector = crop.FeatureVector{50, 50, 50, 25, 70, 6.5, 200}

func TestPredictSendsFeatureBody(t *testing.T) {
	var (
		gotMethod string
		gotType   string
		gotBody   string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotType = r.Header.Get("Content-Type")
		data, _ := io.ReadAll(r.Body)
		gotBody = string(data)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"prediction":[0]}`))
	}))
	defer server.Close()

	c, err := NewClient(server.URL, time.Second).Predict(context.Background(), referenceVector)
	require.NoError(t, err)
	require.Equal(t, crop.Rice, c)
	require.Equal(t, http.MethodPost, gotMethod)
	require.Equal(t, "application/json", gotType)
	require.Equal(t, `{"features":[50,50,50,25,70,6.5,200]}`, gotBody)
}

func TestPredictResolvesLabels(t *testing.T) {
	cases := map[string]crop.Crop{
		`{"prediction":[0]}`:       crop.Rice,
		`{"prediction":[21]}`:      crop.Coffee,
		`{"prediction":[3, 7, 9]}`: crop.KidneyBeans,
	}
	for body, want := range cases {
		server := staticServer(http.StatusOK, body)
		got, err := NewClient(server.URL, time.Second).Predict(context.Background(), referenceVector)
		server.Close()
		require.NoError(t, err, body)
		require.Equal(t, want, got, body)
	}
}

func TestPredictNonSuccessStatus(t *testing.T) {
	for _, status := range []int{http.StatusBadRequest, http.StatusInternalServerError, http.StatusServiceUnavailable} {
		server := staticServer(status, `{"detail":"boom"}`)
		_, err := NewClient(server.URL, time.Second).Predict(context.Background(), referenceVector)
		server.Close()
		require.Error(t, err)
		require.True(t, apperrors.IsCode(err, crop.CodeRequestFailed), "status %d", status)
		require.Contains(t, err.Error(), "recommendation failed")
	}
}

func TestPredictDecodingFailures(t *testing.T) {
	cases := map[string]string{
		`not json`:                 "malformed prediction response",
		`{"prediction":[]}`:        "malformed prediction response",
		`{"other":1}`:              "malformed prediction response",
		`{"prediction":["rice"]}`:  "malformed prediction response",
		`{"prediction":[22]}`:      "invalid prediction index",
		`{"prediction":[-1]}`:      "invalid prediction index",
		`{"prediction":[4.5]}`:     "malformed prediction response",
		`{"prediction":[1000000]}`: "invalid prediction index",
	}
	for body, msg := range cases {
		server := staticServer(http.StatusOK, body)
		_, err := NewClient(server.URL, time.Second).Predict(context.Background(), referenceVector)
		server.Close()
		require.Error(t, err, body)
		require.True(t, apperrors.IsCode(err, crop.CodeDecoding), body)
		require.Contains(t, err.Error(), msg, body)
	}
}

func TestPredictTransportFailure(t *testing.T) {
	server := staticServer(http.StatusOK, `{"prediction":[0]}`)
	url := server.URL
	server.Close()

	_, err := NewClient(url, time.Second).Predict(context.Background(), referenceVector)
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, crop.CodeTransport))
	require.Contains(t, err.Error(), "prediction service unreachable: ")
}

func TestPredictTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	_, err := NewClient(server.URL, 50*time.Millisecond).Predict(context.Background(), referenceVector)
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, crop.CodeTransport))
}

func TestNewClientDefaults(t *testing.T) {
	c := NewClient("  ", 0)
	require.Equal(t, DefaultEndpoint, c.Endpoint())
	require.Equal(t, defaultTimeout, c.httpClient.Timeout)
}

func staticServer(status int, body string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
}
