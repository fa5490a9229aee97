package serve

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"fjacquet/fin-statements/cmd/root"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServeCommand_Metadata(t *testing.T) {
	assert.Equal(t, "serve", Cmd.Use)
	assert.NotNil(t, Cmd.RunE)
	assert.NotNil(t, Cmd.Flags().Lookup("addr"))
}

func TestNewServer_FromContainer(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	chdir(t, dir)
	cfg, c := root.AppConfig, root.AppContainer
	t.Cleanup(func() { root.AppConfig, root.AppContainer = cfg, c })
	root.Settings = root.GlobalFlags{}
	require.NoError(t, root.Initialize())

	srv := NewServer(root.GetContainer(), "127.0.0.1:0")

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
