package cmd

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/LENAX/flownet/pkg/api/dto"
	"github.com/LENAX/flownet/pkg/cli/client"
	"github.com/LENAX/flownet/pkg/cli/output"
)

// gageCmd gage子命令
var gageCmd = &cobra.Command{
	Use:   "gage",
	Short: "水文站点管理命令",
	Long:  `管理水文站点，包括登记、列出、上游站点查询和站点间沿网距离。`,
}

// gageRegisterCmd 登记站点
var gageRegisterCmd = &cobra.Command{
	Use:   "register <network-id> <file>",
	Short: "从JSON文件登记站点",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[1])
		if err != nil {
			output.Error("读取文件失败: %v", err)
			return err
		}

		var req dto.RegisterGagesRequest
		if err := json.Unmarshal(data, &req); err != nil {
			output.Error("解析站点文件失败: %v", err)
			return err
		}

		c := client.New(serverURL)
		result, err := c.RegisterGages(args[0], req)
		if err != nil {
			output.Error("登记失败: %v", err)
			return err
		}

		if outputJSON {
			return output.PrintJSON(result)
		}

		output.Success("已登记%d个站点", result.Total)
		return nil
	},
}

// gageListCmd 列出站点
var gageListCmd = &cobra.Command{
	Use:   "list <network-id>",
	Short: "列出流网的全部站点",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(serverURL)
		result, err := c.ListGages(args[0])
		if err != nil {
			output.Error("查询失败: %v", err)
			return err
		}

		if outputJSON {
			return output.PrintJSON(result)
		}

		if len(result.Items) == 0 {
			output.Info("暂无站点")
			return nil
		}
		renderGageTable(result.Items)
		return nil
	},
}

// gageUpstreamCmd 上游站点查询
var gageUpstreamCmd = &cobra.Command{
	Use:   "upstream <network-id> <segment-id>",
	Short: "查询段上游汇水网络内的站点",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(serverURL)
		result, err := c.UpstreamGages(args[0], args[1])
		if err != nil {
			output.Error("查询失败: %v", err)
			return err
		}

		if outputJSON {
			return output.PrintJSON(result)
		}

		if len(result.Items) == 0 {
			output.Info("上游汇水网络内无站点")
			return nil
		}
		renderGageTable(result.Items)
		return nil
	},
}

// gageDistanceCmd 站点间沿网距离
var gageDistanceCmd = &cobra.Command{
	Use:   "distance <network-id> <from-gage-id> <to-gage-id>",
	Short: "计算两个站点的沿网距离",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(serverURL)
		result, err := c.GageDistance(args[0], args[1], args[2])
		if err != nil {
			output.Error("查询失败: %v", err)
			return err
		}

		if outputJSON {
			return output.PrintJSON(result)
		}

		output.Success("沿网距离: %.3f 公里", result.DistanceKM)
		return nil
	},
}

// renderGageTable 渲染站点表格
func renderGageTable(gages []dto.GageDetail) {
	table := output.NewTable([]string{"ID", "NAME", "SEGMENT", "SOURCE", "CREATED"})
	for _, g := range gages {
		source := g.SourceCode
		if source == "" {
			source = "-"
		}
		table.AddRow([]string{
			g.ID,
			g.Name,
			g.SegmentID,
			source,
			g.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
	table.Render()
}

func init() {
	gageCmd.AddCommand(gageRegisterCmd)
	gageCmd.AddCommand(gageListCmd)
	gageCmd.AddCommand(gageUpstreamCmd)
	gageCmd.AddCommand(gageDistanceCmd)
}
