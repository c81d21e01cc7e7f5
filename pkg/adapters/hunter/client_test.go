package hunter_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aretw0/scout/pkg/adapters/hunter"
	"github.com/aretw0/scout/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T, status int, body string) *hunter.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/email-finder", r.URL.Path)
		assert.Equal(t, "secret", r.URL.Query().Get("api_key"))
		assert.Equal(t, "acme.com", r.URL.Query().Get("domain"))
		assert.Equal(t, "Jane", r.URL.Query().Get("first_name"))
		w.WriteHeader(status)
		io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return hunter.New(hunter.NewProvider(srv.URL, "secret"))
}

var jane = hunter.Person{Domain: "acme.com", FirstName: "Jane", LastName: "Doe", Company: "Acme"}

func TestFindEmail_Found(t *testing.T) {
	client := newClient(t, http.StatusOK, `{"data":{"email":"jane.doe@acme.com","score":97,"verification":{"status":"valid"}}}`)

	res, err := client.FindEmail(context.Background(), jane)
	require.NoError(t, err)
	assert.Equal(t, "jane.doe@acme.com", res.Email)
	require.NotNil(t, res.Valid)
	assert.True(t, *res.Valid)
	assert.True(t, res.Success)
	assert.Empty(t, res.Message)
}

func TestFindEmail_ScoreFallback(t *testing.T) {
	client := newClient(t, http.StatusOK, `{"data":{"email":"jane@acme.com","score":60}}`)

	res, err := client.FindEmail(context.Background(), jane)
	require.NoError(t, err)
	require.NotNil(t, res.Valid)
	assert.False(t, *res.Valid)
}

func TestFindEmail_NotFoundStatuses(t *testing.T) {
	for _, status := range []int{http.StatusNotFound, http.StatusUnavailableForLegalReasons} {
		client := newClient(t, status, `{"errors":[{"id":"not_found"}]}`)

		res, err := client.FindEmail(context.Background(), jane)
		require.NoError(t, err)
		assert.Equal(t, domain.EmailNotFound, res.Message)
		assert.Empty(t, res.Email)
	}
}

func TestFindEmail_NullEmail(t *testing.T) {
	client := newClient(t, http.StatusOK, `{"data":{"email":null,"score":0}}`)

	res, err := client.FindEmail(context.Background(), jane)
	require.NoError(t, err)
	assert.Equal(t, domain.EmailNotFound, res.Message)
}

func TestFindEmail_InsufficientCredits(t *testing.T) {
	client := newClient(t, http.StatusPaymentRequired, `{"errors":[{"id":"too_many_requests"}]}`)

	_, err := client.FindEmail(context.Background(), jane)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientCredits)
	assert.Contains(t, err.Error(), "insufficient credits")
}

func TestFindEmail_MissingKey(t *testing.T) {
	client := hunter.New(hunter.NewProvider("http://127.0.0.1:1", ""))

	_, err := client.FindEmail(context.Background(), jane)
	assert.ErrorIs(t, err, domain.ErrMissingCredential)
}
