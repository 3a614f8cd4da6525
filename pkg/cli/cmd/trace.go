package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/LENAX/flownet/pkg/cli/client"
	"github.com/LENAX/flownet/pkg/cli/output"
)

var (
	traceMaxDistance       float64
	traceIncludeDiversions bool
	distancesPerComponent  bool
)

// traceCmd trace子命令
var traceCmd = &cobra.Command{
	Use:   "trace",
	Short: "遍历与距离查询命令",
	Long:  `执行流网遍历查询，包括上游溯源、主干溯源、下游追踪和出口距离表。`,
}

// traceUpstreamCmd 上游溯源
var traceUpstreamCmd = &cobra.Command{
	Use:   "upstream <network-id> <segment-id>",
	Short: "上游溯源（含起点段的全部上游汇水网络）",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(serverURL)
		result, err := c.UpstreamTrace(args[0], args[1], traceMaxDistance)
		if err != nil {
			output.Error("查询失败: %v", err)
			return err
		}

		if outputJSON {
			return output.PrintJSON(result)
		}

		output.Info("上游溯源: 起点=%s, 共%d段", result.StartID, result.Count)
		fmt.Println(strings.Join(result.SegmentIDs, " "))
		return nil
	},
}

// traceMainstemCmd 主干溯源
var traceMainstemCmd = &cobra.Command{
	Use:   "mainstem <network-id> <segment-id>",
	Short: "主干溯源（每个汇流点只取主支流）",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(serverURL)
		result, err := c.MainstemTrace(args[0], args[1])
		if err != nil {
			output.Error("查询失败: %v", err)
			return err
		}

		if outputJSON {
			return output.PrintJSON(result)
		}

		output.Info("主干溯源: 起点=%s, 共%d段", result.StartID, result.Count)
		fmt.Println(strings.Join(result.SegmentIDs, " -> "))
		return nil
	},
}

// traceDownstreamCmd 下游追踪
var traceDownstreamCmd = &cobra.Command{
	Use:   "downstream <network-id> <segment-id>",
	Short: "下游追踪（沿主流向走到出口）",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(serverURL)
		result, err := c.DownstreamTrace(args[0], args[1], traceIncludeDiversions)
		if err != nil {
			output.Error("查询失败: %v", err)
			return err
		}

		if outputJSON {
			return output.PrintJSON(result)
		}

		output.Info("下游追踪: 起点=%s, 共%d段", result.StartID, result.Count)
		fmt.Println(strings.Join(result.SegmentIDs, " -> "))
		return nil
	},
}

// traceDistancesCmd 出口距离表
var traceDistancesCmd = &cobra.Command{
	Use:   "distances <network-id>",
	Short: "计算全网每段到出口的路径距离",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(serverURL)
		result, err := c.Distances(args[0], distancesPerComponent)
		if err != nil {
			output.Error("查询失败: %v", err)
			return err
		}

		if outputJSON {
			return output.PrintJSON(result)
		}

		ids := make([]string, 0, len(result.Distances))
		for id := range result.Distances {
			ids = append(ids, id)
		}
		sort.Strings(ids)

		table := output.NewTable([]string{"SEGMENT", "DISTANCE_KM"}).AlignRight(1)
		for _, id := range ids {
			table.AddDistanceRow(id, result.Distances[id])
		}
		table.Render()
		return nil
	},
}

func init() {
	traceUpstreamCmd.Flags().Float64VarP(&traceMaxDistance, "max-distance", "m", 0, "沿网距离上限（公里，0表示不限制）")
	traceDownstreamCmd.Flags().BoolVarP(&traceIncludeDiversions, "diversions", "d", false, "沿分流边展开下游追踪")
	traceDistancesCmd.Flags().BoolVarP(&distancesPerComponent, "per-component", "P", false, "多分量输入按分量独立计算")

	traceCmd.AddCommand(traceUpstreamCmd)
	traceCmd.AddCommand(traceMainstemCmd)
	traceCmd.AddCommand(traceDownstreamCmd)
	traceCmd.AddCommand(traceDistancesCmd)
}
