package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestInit_JSONFormat 测试JSON格式输出带字段
func TestInit_JSONFormat(t *testing.T) {
	Init("debug", "json")
	defer Init("info", "text")

	var buf bytes.Buffer
	SetOutput(&buf)

	L().WithFields(logrus.Fields{"book_id": "b1"}).Info("图书已创建")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "b1", entry["book_id"])
	assert.Equal(t, "图书已创建", entry["msg"])
	assert.Equal(t, logrus.DebugLevel, L().GetLevel())
}

// TestInit_UnknownLevel 测试无法识别的级别退回info
func TestInit_UnknownLevel(t *testing.T) {
	Init("verbose", "text")
	assert.Equal(t, logrus.InfoLevel, L().GetLevel())
}
