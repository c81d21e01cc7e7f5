package brightdata_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aretw0/scout/pkg/adapters/brightdata"
	"github.com/aretw0/scout/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrigger(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/datasets/v3/trigger", r.URL.Path)
		assert.Equal(t, "custom-jobs", r.URL.Query().Get("dataset_id"))
		assert.Equal(t, "discover_new", r.URL.Query().Get("type"))
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))

		var inputs []map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&inputs))
		if assert.Len(t, inputs, 1) {
			assert.Equal(t, "Brussels", inputs[0]["location"])
		}

		io.WriteString(w, `{"snapshot_id":"s_abc"}`)
	}))
	defer srv.Close()

	client := brightdata.New(brightdata.NewProvider(srv.URL, "tok"), map[string]string{domain.DatasetJobs: "custom-jobs"})
	id, err := client.Trigger(context.Background(), domain.CollectionRequest{
		Kind:   domain.DatasetJobs,
		Inputs: []map[string]any{{"location": "Brussels"}},
		Params: map[string]string{"type": "discover_new"},
	})
	require.NoError(t, err)
	assert.Equal(t, "s_abc", id)
}

func TestTrigger_UnknownKind(t *testing.T) {
	client := brightdata.New(brightdata.NewProvider("http://127.0.0.1:1", "tok"), nil)

	_, err := client.Trigger(context.Background(), domain.CollectionRequest{Kind: "planets"})
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)
}

func TestProgressAndSnapshot(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/datasets/v3/progress/s_1":
			io.WriteString(w, `{"snapshot_id":"s_1","status":"running"}`)
		case "/datasets/v3/snapshot/s_1":
			assert.Equal(t, "json", r.URL.Query().Get("format"))
			io.WriteString(w, `[{"name":"Acme"}]`)
		case "/datasets/v3/snapshot/s_2":
			w.WriteHeader(http.StatusAccepted)
			io.WriteString(w, `{"status":"running"}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	client := brightdata.New(brightdata.NewProvider(srv.URL, "tok"), nil)

	p, err := client.Progress(context.Background(), "s_1")
	require.NoError(t, err)
	assert.Equal(t, "running", p.Status)
	assert.Contains(t, string(p.Raw), "s_1")

	body, err := client.Snapshot(context.Background(), "s_1")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"name":"Acme"}]`, string(body))

	_, err = client.Snapshot(context.Background(), "s_2")
	assert.ErrorIs(t, err, domain.ErrSnapshotNotReady)

	_, err = client.Progress(context.Background(), "unknown")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
