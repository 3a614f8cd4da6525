package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	// 全局变量
	serverURL  string
	outputJSON bool
)

// rootCmd 根命令
var rootCmd = &cobra.Command{
	Use:   "flownet",
	Short: "Flownet CLI - 流网遍历服务命令行工具",
	Long: `Flownet CLI 是一个用于管理河流流网的命令行工具。

支持的功能：
  - 管理流网（摄入段表、列出、查看、删除）
  - 遍历查询（上游溯源、主干溯源、下游追踪）
  - 计算全网出口距离表
  - 管理水文站点（登记、上游站点查询、站点间沿网距离）
  - 启动HTTP API服务

使用示例：
  # 摄入段表为新流网
  flownet network ingest ./segments.csv --name "Yahara Basin"

  # 上游溯源
  flownet trace upstream <network-id> <segment-id>

  # 计算出口距离表
  flownet trace distances <network-id>

  # 启动HTTP服务
  flownet server start --port 8080`,
}

// Execute 执行根命令
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// 全局参数
	rootCmd.PersistentFlags().StringVarP(&serverURL, "server", "s", "http://localhost:8080", "Flownet服务器地址")
	rootCmd.PersistentFlags().BoolVarP(&outputJSON, "json", "j", false, "使用JSON格式输出")

	// 添加子命令
	rootCmd.AddCommand(networkCmd)
	rootCmd.AddCommand(traceCmd)
	rootCmd.AddCommand(gageCmd)
	rootCmd.AddCommand(serverCmd)
	rootCmd.AddCommand(versionCmd)
}
