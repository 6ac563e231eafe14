package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/templo-inventario/pkg/config"
	"github.com/jhoicas/templo-inventario/pkg/logger"
)

// Un fallo de arranque vuelve como error de run y no termina el proceso dentro de la función.
func TestRun_FalloAlAbrirAlmacen_DevuelveError(t *testing.T) {
	notADir := filepath.Join(t.TempDir(), "archivo")
	require.NoError(t, os.WriteFile(notADir, []byte("x"), 0o600))

	cfg := &config.Config{}
	cfg.App.Name = "test"
	cfg.Store.Driver = config.StoreFile
	cfg.Store.Dir = filepath.Join(notADir, "datos")

	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "test", Level: "error", Output: &buf})

	err := run(cfg, log)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "abrir almacén de registros")
}
