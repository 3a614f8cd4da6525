package cmd

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/LENAX/flownet/pkg/api/dto"
	"github.com/LENAX/flownet/pkg/cli/client"
	"github.com/LENAX/flownet/pkg/cli/output"
)

var networkName string

// networkCmd network子命令
var networkCmd = &cobra.Command{
	Use:   "network",
	Short: "流网管理命令",
	Long:  `管理流网，包括摄入段表、列出、查看和删除。`,
}

// networkListCmd 列出流网
var networkListCmd = &cobra.Command{
	Use:   "list",
	Short: "列出所有流网",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(serverURL)
		result, err := c.ListNetworks()
		if err != nil {
			output.Error("查询失败: %v", err)
			return err
		}

		if outputJSON {
			return output.PrintJSON(result)
		}

		if len(result.Items) == 0 {
			output.Info("暂无流网")
			return nil
		}

		table := output.NewTable([]string{"ID", "NAME", "SEGMENTS", "DIVERSIONS", "CREATED"}).AlignRight(2, 3)
		for _, n := range result.Items {
			table.AddRow([]string{
				n.ID,
				n.Name,
				fmt.Sprintf("%d", n.SegmentCount),
				fmt.Sprintf("%d", n.DiversionCount),
				n.CreatedAt.Format("2006-01-02 15:04:05"),
			})
		}
		table.Render()
		return nil
	},
}

// networkShowCmd 查看流网详情
var networkShowCmd = &cobra.Command{
	Use:   "show <network-id>",
	Short: "查看流网详情",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(serverURL)
		result, err := c.GetNetwork(args[0])
		if err != nil {
			output.Error("查询失败: %v", err)
			return err
		}

		if outputJSON {
			return output.PrintJSON(result)
		}

		fmt.Printf("流网:   %s\n", result.Name)
		fmt.Printf("ID:     %s\n", result.ID)
		fmt.Printf("段数:   %d\n", result.SegmentCount)
		fmt.Printf("分流边: %d\n", result.DiversionCount)
		fmt.Printf("出口:   %s\n", strings.Join(result.OutletIDs, ", "))
		fmt.Printf("创建于: %s\n", result.CreatedAt.Format("2006-01-02 15:04:05"))
		return nil
	},
}

// networkIngestCmd 摄入段表为新流网
var networkIngestCmd = &cobra.Command{
	Use:   "ingest <file>",
	Short: "摄入段表文件（CSV或JSON）为新流网",
	Long: `摄入段表文件为新流网。

CSV格式（带表头）：
  id,to_id,length_km,drainage_area_sqkm
  A,,5.0,100.0
  B,A,3.0,60.0

JSON格式与 POST /api/v1/networks 请求体一致。`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := loadIngestRequest(args[0])
		if err != nil {
			output.Error("读取段表失败: %v", err)
			return err
		}
		if networkName != "" {
			req.Name = networkName
		}
		if req.Name == "" {
			req.Name = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
		}

		c := client.New(serverURL)
		result, err := c.IngestNetwork(*req)
		if err != nil {
			output.Error("摄入失败: %v", err)
			return err
		}

		if outputJSON {
			return output.PrintJSON(result)
		}

		output.Success("流网摄入成功: %s (%s), 共%d段", result.Name, result.ID, result.SegmentCount)
		return nil
	},
}

// networkDeleteCmd 删除流网
var networkDeleteCmd = &cobra.Command{
	Use:   "delete <network-id>",
	Short: "删除流网",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(serverURL)
		if err := c.DeleteNetwork(args[0]); err != nil {
			output.Error("删除失败: %v", err)
			return err
		}

		output.Success("流网已删除: %s", args[0])
		return nil
	},
}

// loadIngestRequest 按扩展名解析段表文件
func loadIngestRequest(path string) (*dto.IngestNetworkRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if strings.EqualFold(filepath.Ext(path), ".json") {
		var req dto.IngestNetworkRequest
		if err := json.Unmarshal(data, &req); err != nil {
			return nil, fmt.Errorf("解析JSON段表失败: %w", err)
		}
		return &req, nil
	}
	return parseSegmentCSV(data)
}

// parseSegmentCSV 解析CSV段表（列：id, to_id, length_km, drainage_area_sqkm）
func parseSegmentCSV(data []byte) (*dto.IngestNetworkRequest, error) {
	reader := csv.NewReader(strings.NewReader(string(data)))
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("解析CSV段表失败: %w", err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("CSV段表为空")
	}

	// 按表头定位列
	cols := make(map[string]int)
	for i, name := range records[0] {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	idCol, ok := cols["id"]
	if !ok {
		return nil, fmt.Errorf("CSV段表缺少id列")
	}

	var req dto.IngestNetworkRequest
	for lineNo, row := range records[1:] {
		seg := dto.SegmentInput{ID: strings.TrimSpace(row[idCol])}
		if i, ok := cols["to_id"]; ok && i < len(row) {
			seg.ToID = strings.TrimSpace(row[i])
		}
		if i, ok := cols["length_km"]; ok && i < len(row) && row[i] != "" {
			v, err := strconv.ParseFloat(strings.TrimSpace(row[i]), 64)
			if err != nil {
				return nil, fmt.Errorf("第%d行length_km非法: %w", lineNo+2, err)
			}
			seg.LengthKM = v
		}
		if i, ok := cols["drainage_area_sqkm"]; ok && i < len(row) && row[i] != "" {
			v, err := strconv.ParseFloat(strings.TrimSpace(row[i]), 64)
			if err != nil {
				return nil, fmt.Errorf("第%d行drainage_area_sqkm非法: %w", lineNo+2, err)
			}
			seg.DrainageArea = v
		}
		req.Segments = append(req.Segments, seg)
	}
	return &req, nil
}

func init() {
	networkIngestCmd.Flags().StringVarP(&networkName, "name", "n", "", "流网名称（默认取文件名）")

	networkCmd.AddCommand(networkListCmd)
	networkCmd.AddCommand(networkShowCmd)
	networkCmd.AddCommand(networkIngestCmd)
	networkCmd.AddCommand(networkDeleteCmd)
}
