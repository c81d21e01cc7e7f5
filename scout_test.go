package scout_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/scout"
	"github.com/aretw0/scout/internal/config"
	"github.com/aretw0/scout/pkg/tools"
)

func TestVersion(t *testing.T) {
	assert.NotEmpty(t, scout.Version)
}

func TestNew_RegistersEveryTool(t *testing.T) {
	svc, err := scout.New(config.Default())
	require.NoError(t, err)
	defer svc.Close()

	assert.Len(t, svc.Registry().List(), 12)
	assert.NoError(t, svc.Ping(context.Background()))
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Cache.Backend = "floppy"
	_, err := scout.New(cfg)
	assert.Error(t, err)
}

func TestCall_MissingCredential(t *testing.T) {
	svc, err := scout.New(config.Default())
	require.NoError(t, err)

	_, err = svc.Call(context.Background(), "get_job_posting_details", map[string]any{"jobId": "1"})
	var te *tools.ToolError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, tools.CodeInternalError, te.Code)
	assert.Contains(t, te.Message, "missing provider credential")
}

func TestCall_EndToEnd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/get-job-details", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("x-rapidapi-key"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"message":"","data":{"id":"42","title":"Platform Engineer"}}`))
	}))
	defer srv.Close()

	mr := miniredis.RunT(t)

	cfg := config.Default()
	cfg.LinkedIn.BaseURL = srv.URL
	cfg.LinkedIn.APIKey = "secret"
	cfg.Cache.Backend = config.CacheRedis
	cfg.Cache.Redis.Addr = mr.Addr()

	svc, err := scout.New(cfg)
	require.NoError(t, err)
	defer svc.Close()
	require.NoError(t, svc.Ping(context.Background()))

	res, err := svc.Call(context.Background(), "get_job_posting_details", map[string]any{"jobId": "42"})
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal([]byte(res.Text()), &out))
	assert.Equal(t, "Platform Engineer", out["title"])
	assert.True(t, mr.Exists("scout:cache:job:42"))

	families, err := svc.Gatherer().Gather()
	require.NoError(t, err)
	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["scout_provider_requests_total"])
	assert.True(t, names["scout_tool_calls_total"])
}
