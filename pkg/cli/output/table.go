package output

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
)

// Table 终端表格输出，支持数值列右对齐
type Table struct {
	headers    []string
	rows       [][]string
	widths     []int
	rightAlign []bool
}

// NewTable 创建表格
func NewTable(headers []string) *Table {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	return &Table{
		headers:    headers,
		rows:       make([][]string, 0),
		widths:     widths,
		rightAlign: make([]bool, len(headers)),
	}
}

// AlignRight 将指定列标记为右对齐，用于段数、距离等数值列
func (t *Table) AlignRight(cols ...int) *Table {
	for _, col := range cols {
		if col >= 0 && col < len(t.rightAlign) {
			t.rightAlign[col] = true
		}
	}
	return t
}

// AddRow 添加行
func (t *Table) AddRow(row []string) {
	// 更新列宽
	for i, cell := range row {
		if i < len(t.widths) && len(cell) > t.widths[i] {
			t.widths[i] = len(cell)
		}
	}
	t.rows = append(t.rows, row)
}

// AddDistanceRow 添加"段ID+距离"行，距离按公里保留三位小数
func (t *Table) AddDistanceRow(id string, km float64) {
	t.AddRow([]string{id, FormatKM(km)})
}

// FormatKM 距离列的统一格式，公里保留三位小数
func FormatKM(km float64) string {
	return strconv.FormatFloat(km, 'f', 3, 64)
}

// Render 渲染表格到标准输出
func (t *Table) Render() {
	t.RenderTo(os.Stdout)
}

// RenderTo 渲染表格到指定writer
func (t *Table) RenderTo(w io.Writer) {
	// 打印表头
	headerColor := color.New(color.FgCyan, color.Bold)
	for i, h := range t.headers {
		headerColor.Fprintf(w, "%s  ", t.pad(h, i))
	}
	fmt.Fprintln(w)

	// 打印分隔线
	for i := range t.headers {
		fmt.Fprint(w, strings.Repeat("-", t.widths[i]))
		fmt.Fprint(w, "  ")
	}
	fmt.Fprintln(w)

	// 打印数据行
	for _, row := range t.rows {
		for i, cell := range row {
			if i < len(t.widths) {
				fmt.Fprintf(w, "%s  ", t.pad(cell, i))
			}
		}
		fmt.Fprintln(w)
	}
}

// pad 按列宽和对齐方向补齐单元格
func (t *Table) pad(cell string, col int) string {
	if t.rightAlign[col] {
		return fmt.Sprintf("%*s", t.widths[col], cell)
	}
	return fmt.Sprintf("%-*s", t.widths[col], cell)
}
