// Package logger 提供基于logrus的结构化日志
//
// 使用方式：
//
//	logger.Init(cfg.Log.Level, cfg.Log.Format)
//	logger.L().WithFields(logrus.Fields{"book_id": id}).Info("图书已创建")
//
// 未调用Init时L()返回info级别、文本格式的默认Logger，测试中无需初始化
package logger

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	mu  sync.RWMutex
	std = newLogger(logrus.InfoLevel, "text", os.Stdout)
)

func newLogger(level logrus.Level, format string, out io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(out)
	l.SetLevel(level)
	if strings.EqualFold(format, "json") {
		l.SetFormatter(&logrus.JSONFormatter{TimestampFormat: "2006-01-02 15:04:05"})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: "2006-01-02 15:04:05"})
	}
	return l
}

// Init 按配置重建全局Logger
// level: debug | info | warn | error，无法识别时退回info
// format: text | json
func Init(level, format string) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}

	mu.Lock()
	std = newLogger(lvl, format, os.Stdout)
	mu.Unlock()
}

// SetOutput 替换输出目标（测试中用于捕获日志）
func SetOutput(w io.Writer) {
	mu.Lock()
	std.SetOutput(w)
	mu.Unlock()
}

// L 返回全局Logger
func L() *logrus.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return std
}

// With 以单个字段创建Entry
func With(key string, value any) *logrus.Entry {
	return L().WithField(key, value)
}
