package output

import (
	"encoding/json"
	"io"
	"os"

	"github.com/fatih/color"
)

// 消息样式按级别共享，避免每次输出都重建Color对象
var (
	successStyle = color.New(color.FgGreen, color.Bold)
	errorStyle   = color.New(color.FgRed, color.Bold)
	infoStyle    = color.New(color.FgCyan)
	warningStyle = color.New(color.FgYellow)
)

// PrintJSON 输出JSON格式到标准输出
func PrintJSON(data interface{}) error {
	return PrintJSONTo(os.Stdout, data)
}

// PrintJSONTo 输出JSON格式到指定writer
func PrintJSONTo(w io.Writer, data interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// Success 输出成功消息
func Success(format string, args ...interface{}) {
	message(successStyle, "✅ ", format, args...)
}

// Error 输出错误消息
func Error(format string, args ...interface{}) {
	message(errorStyle, "❌ ", format, args...)
}

// Info 输出信息
func Info(format string, args ...interface{}) {
	message(infoStyle, "ℹ️  ", format, args...)
}

// Warning 输出警告
func Warning(format string, args ...interface{}) {
	message(warningStyle, "⚠️  ", format, args...)
}

func message(style *color.Color, prefix, format string, args ...interface{}) {
	style.Printf(prefix+format+"\n", args...)
}
