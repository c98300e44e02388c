package container

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/alchemorsel/kitchen/internal/ports/inbound"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
)

func TestModuleGraphIsComplete(t *testing.T) {
	require.NoError(t, fx.ValidateApp(Module, fx.Supply(ConfigPath(""))))
}

func freePort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	return ln.Addr().(*net.TCPAddr).Port
}

func TestAppStartsSeedsAndServes(t *testing.T) {
	dir := t.TempDir()
	port := freePort(t)
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(fmt.Sprintf(`
app:
  log_level: error
server:
  port: %d
database:
  path: ":memory:"
settings:
  path: %s
  watch: true
seed:
  enabled: true
`, port, filepath.Join(dir, "settings.json"))), 0o600))

	var svc inbound.KitchenService
	app := fxtest.New(t,
		Module,
		fx.Supply(ConfigPath(path)),
		fx.Populate(&svc),
	)
	app.RequireStart()
	defer app.RequireStop()

	recipes, err := svc.ListRecipes(context.Background(), inbound.RecipeQuery{})
	require.NoError(t, err)
	assert.NotEmpty(t, recipes)

	resp, err := http.Get(fmt.Sprintf("http://127.0.0.1:%d/health", port))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
