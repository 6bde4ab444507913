package conf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadValidConfig(t *testing.T) {
	path := writeConfig(t, `
server:
  http:
    addr: 0.0.0.0:8000
    timeout: 5s
data:
  database:
    driver: mysql
    source: root:root@tcp(127.0.0.1:3306)/hubble
  redis:
    addr: 127.0.0.1:6379
sweep:
  spec: "0 */5 * * * *"
  batch_size: 50
log:
  level: info
  format: json
  output: stdout
`)

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:8000", c.Server.Http.Addr)
	assert.Equal(t, 50, c.Sweep.BatchSize)
	assert.Equal(t, "info", c.Log.Level)
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	// 缺少 server.http.addr：Load 内部校验直接拒绝
	path := writeConfig(t, `
server:
  http:
    timeout: 5s
data:
  database:
    source: root:root@tcp(127.0.0.1:3306)/hubble
log:
  level: info
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.http.addr")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
