package e2etest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

// call performs a request against the view-model server and decodes the
// JSON response into out when it is not nil
func call(t *testing.T, env *TestEnv, method, path string, body interface{}, out interface{}) int {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, env.ServerBaseURL+path, reader)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if out != nil {
		require.NoError(t, json.Unmarshal(raw, out), string(raw))
	}
	return resp.StatusCode
}

func login(t *testing.T, env *TestEnv) {
	t.Helper()
	status := call(t, env, http.MethodPost, "/api/v1/session/login",
		map[string]string{"email": mockEmail, "password": mockPassword}, nil)
	require.Equal(t, http.StatusOK, status)
}
