package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("production writes json", func(t *testing.T) {
		var buf bytes.Buffer

		New(&buf, true).Info("hello", "user_id", 7)

		var line map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
		assert.Equal(t, "hello", line["msg"])
		assert.Equal(t, float64(7), line["user_id"])
	})

	t.Run("production drops debug", func(t *testing.T) {
		var buf bytes.Buffer

		New(&buf, true).Debug("noise")

		assert.Zero(t, buf.Len())
	})

	t.Run("development writes text", func(t *testing.T) {
		var buf bytes.Buffer

		New(&buf, false).Debug("hello", "user_id", 7)

		assert.True(t, strings.Contains(buf.String(), "msg=hello"))
		assert.Contains(t, buf.String(), "user_id=7")
	})
}
