package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTable_DistanceColumnRightAligned(t *testing.T) {
	// 关闭颜色转义，保证输出可按纯文本断言
	old := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = old }()

	table := NewTable([]string{"SEGMENT", "DISTANCE_KM"}).AlignRight(1)
	table.AddDistanceRow("A", 5)
	table.AddDistanceRow("B", 8.25)
	table.AddDistanceRow("LONG-SEGMENT-ID", 12)

	var buf bytes.Buffer
	table.RenderTo(&buf)
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 5, "表头+分隔线+三行数据")

	// 距离列右对齐，数值末位应该在同一列上
	assert.True(t, strings.HasSuffix(strings.TrimRight(lines[2], " "), "5.000"))
	assert.True(t, strings.HasSuffix(strings.TrimRight(lines[3], " "), "8.250"))
	idxA := strings.Index(lines[2], "5.000")
	idxB := strings.Index(lines[3], "8.250")
	assert.Equal(t, idxA+len("5.000"), idxB+len("8.250"), "右对齐的数值列末位应对齐")

	// 段ID列左对齐，长ID撑开列宽
	assert.True(t, strings.HasPrefix(lines[4], "LONG-SEGMENT-ID"))
	assert.True(t, strings.HasPrefix(lines[2], "A "))
}

func TestFormatKM(t *testing.T) {
	assert.Equal(t, "12.000", FormatKM(12))
	assert.Equal(t, "7.125", FormatKM(7.125))
	assert.Equal(t, "0.000", FormatKM(0))
}

func TestPrintJSONTo(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PrintJSONTo(&buf, map[string]float64{"A": 5}))
	assert.JSONEq(t, `{"A": 5}`, buf.String())
}
