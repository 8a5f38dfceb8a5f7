package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSONConServicioYComponente(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Env: "production", Level: "info", Service: "inventario-envios", Version: "1.2.3", Out: &buf})

	comp := l.Component("outbox_relay")
	comp.Info().Msg("hola")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "inventario-envios", line["service"])
	assert.Equal(t, "1.2.3", line["version"])
	assert.Equal(t, "outbox_relay", line["component"])
	assert.Equal(t, "hola", line["message"])
}

func TestNew_NivelFiltraMensajes(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Env: "production", Level: "warn", Out: &buf})

	l.Info().Msg("ignorado")
	assert.Zero(t, buf.Len())

	l.Warn().Msg("visible")
	assert.Contains(t, buf.String(), "visible")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zerolog.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zerolog.InfoLevel, parseLevel("desconocido"))
}
