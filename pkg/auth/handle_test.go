package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tendant/simple-crm/pkg/controller"
)

func TestLoginHandler(t *testing.T) {
	f := newFixture(t)
	f.addUser(t, "alice", "Str0ng!Pass", true)
	h := NewHandle(f.users, f.hasher, f.tokens)
	srv := httptest.NewServer(Handler(h, func(next http.Handler) http.Handler { return next }))
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/login", "application/json",
		strings.NewReader(`{"username":"alice","password":"Str0ng!Pass"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var pair map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&pair))
	assert.NotEmpty(t, pair["accessToken"])
	assert.NotEmpty(t, pair["refreshToken"])

	resp2, err := http.Post(srv.URL+"/login", "application/json",
		strings.NewReader(`{"username":"alice","password":"nope"}`))
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp2.StatusCode)

	var body controller.ErrorResponse
	require.NoError(t, json.NewDecoder(resp2.Body).Decode(&body))
	assert.Equal(t, "INVALID_CREDENTIALS", string(body.Code))

	resp3, err := http.Post(srv.URL+"/refresh", "application/json", strings.NewReader(`{"refreshToken":"x"}`))
	require.NoError(t, err)
	defer resp3.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp3.StatusCode)
}
