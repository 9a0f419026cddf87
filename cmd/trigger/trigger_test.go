package trigger

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVariables(t *testing.T) {
	vars, err := parseVariables([]string{"A=1", "B=x=y", "C="})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"A": "1", "B": "x=y", "C": ""}, vars)

	vars, err = parseVariables(nil)
	require.NoError(t, err)
	assert.Nil(t, vars)

	_, err = parseVariables([]string{"NOVALUE"})
	assert.Error(t, err)

	_, err = parseVariables([]string{"=value"})
	assert.Error(t, err)
}

func TestFireCommand(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/projects/p1/trigger/pipeline", r.URL.Path)

		body := map[string]any{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "trg-abc", body["token"])
		assert.Equal(t, map[string]any{"DEPLOY": "staging"}, body["variables"])

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"pl1","ref":"master","status":"pending"}`))
	}))
	defer srv.Close()

	var out bytes.Buffer
	Cmd.SetOut(&out)
	Cmd.SetArgs([]string{
		"fire", "p1",
		"--server", srv.URL,
		"--token", "trg-abc",
		"--ref", "master",
		"--var", "DEPLOY=staging",
		"--output", "text",
	})

	require.NoError(t, Cmd.Execute())
	assert.Equal(t, "Created pipeline pl1 for master (pending)\n", out.String())
}

func TestFireCommandSurfacesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"404 Not Found"}`))
	}))
	defer srv.Close()

	var out bytes.Buffer
	Cmd.SetOut(&out)
	Cmd.SetErr(&out)
	Cmd.SetArgs([]string{"fire", "p1", "--server", srv.URL, "--token", "trg-bad", "--var", "A=1"})

	err := Cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404 Not Found")
}

func TestListCommandYAML(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.Header.Get("PRIVATE-TOKEN"))
		w.Write([]byte(`[{"id":"t1","token":"trg-1234","description":"deploy hook"}]`))
	}))
	defer srv.Close()

	var out bytes.Buffer
	Cmd.SetOut(&out)
	Cmd.SetArgs([]string{"list", "p1", "--server", srv.URL, "--private-token", "secret", "--output", "yaml"})

	require.NoError(t, Cmd.Execute())
	assert.Contains(t, out.String(), "description: deploy hook")
}
