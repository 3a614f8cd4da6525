package flownet

import (
	"fmt"
	"math"
	"sort"
)

// BuildOptions 流图构建选项
type BuildOptions struct {
	Diversions []Diversion // 分流边集合（可为空）
}

// flowGraph FlowNetwork实现（小写，不导出）
// 构建完成后所有字段只读
type flowGraph struct {
	segments  map[string]Segment
	upstream  map[string][]string // 反向邻接：段ID -> 直接上游段ID列表（按ID排序）
	divOut    map[string][]string // 分流正向邻接：段ID -> 分流下游段ID列表（按ID排序）
	onCycle   map[string]struct{} // 位于循环流向上的段
	cyclePath []string            // 检测到的第一条循环路径
	outlets   []string            // 出口段ID（按ID排序）
}

// Build 从段表构建流图（对外导出）
func Build(segments []Segment) (FlowNetwork, error) {
	return BuildWithOptions(segments, BuildOptions{})
}

// BuildWithOptions 从段表构建流图（带选项）
// 校验：ID唯一、长度非负且有限、分流边端点存在于段表中
// 循环检测在构建期完成并记录循环成员；图仍会返回（未触及循环的查询可用），
// 但任何会访问到循环成员的遍历在返回结果前都会以GraphIntegrityError失败
func BuildWithOptions(segments []Segment, options BuildOptions) (FlowNetwork, error) {
	if len(segments) == 0 {
		return nil, &InvalidInputError{Reason: "段表为空"}
	}

	// 1. 索引段表并校验输入
	segs := make(map[string]Segment, len(segments))
	for _, s := range segments {
		if s.ID == "" {
			return nil, &InvalidInputError{Reason: "存在空的段ID"}
		}
		if _, exists := segs[s.ID]; exists {
			return nil, &InvalidInputError{Reason: fmt.Sprintf("段ID重复: %s", s.ID)}
		}
		if s.Length < 0 || math.IsNaN(s.Length) || math.IsInf(s.Length, 0) {
			return nil, &InvalidInputError{Reason: fmt.Sprintf("段 %s 的长度非法: %v", s.ID, s.Length)}
		}
		if s.ToID == s.ID {
			return nil, &InvalidInputError{Reason: fmt.Sprintf("段 %s 的下游指向自身", s.ID)}
		}
		segs[s.ID] = s
	}

	// 2. 构建反向邻接索引（只索引指向段表内的主流向边；
	//    指向子集外的to_id视为流出查询范围，属于正常情况）
	upstream := make(map[string][]string)
	for _, s := range segs {
		if s.ToID == "" {
			continue
		}
		if _, inSubset := segs[s.ToID]; !inSubset {
			continue
		}
		upstream[s.ToID] = append(upstream[s.ToID], s.ID)
	}
	for id := range upstream {
		sort.Strings(upstream[id])
	}

	// 3. 校验并索引分流边（分流终点指向子集外时视为流出，不建边）
	divOut := make(map[string][]string)
	for _, d := range options.Diversions {
		if _, exists := segs[d.FromID]; !exists {
			return nil, &InvalidInputError{Reason: fmt.Sprintf("分流边起点 %s 不在段表中", d.FromID)}
		}
		if d.FromID == d.ToID {
			return nil, &InvalidInputError{Reason: fmt.Sprintf("分流边 %s 指向自身", d.FromID)}
		}
		if _, exists := segs[d.ToID]; !exists {
			continue
		}
		divOut[d.FromID] = append(divOut[d.FromID], d.ToID)
	}
	for id := range divOut {
		sort.Strings(divOut[id])
	}

	// 4. 主流向循环检测（主流向出度至多为1，沿to_id链做三色标记）
	onCycle, cyclePath := detectCycle(segs)

	// 5. 计算出口段（to_id为哨兵值或指向子集外）
	outlets := make([]string, 0)
	for id, s := range segs {
		if s.ToID == "" {
			outlets = append(outlets, id)
			continue
		}
		if _, inSubset := segs[s.ToID]; !inSubset {
			outlets = append(outlets, id)
		}
	}
	sort.Strings(outlets)

	return &flowGraph{
		segments:  segs,
		upstream:  upstream,
		divOut:    divOut,
		onCycle:   onCycle,
		cyclePath: cyclePath,
		outlets:   outlets,
	}, nil
}

// detectCycle 检测主流向to_id关系中的循环（内部方法）
// 使用三色标记法：0=白色（未访问），1=灰色（正在访问），2=黑色（已访问）
// 返回循环成员集合和第一条检测到的循环路径
func detectCycle(segs map[string]Segment) (map[string]struct{}, []string) {
	color := make(map[string]int, len(segs))
	onCycle := make(map[string]struct{})
	var firstPath []string

	// 主流向出度至多为1，每条灰色链要么汇入黑色节点，要么闭合成环
	ids := make([]string, 0, len(segs))
	for id := range segs {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, start := range ids {
		if color[start] != 0 {
			continue
		}

		// 沿to_id推进，记录本轮灰色链
		chain := make([]string, 0)
		cur := start
		for {
			if _, inSubset := segs[cur]; !inSubset {
				break // 流出子集
			}
			if color[cur] == 2 {
				break // 汇入已确认无环的链
			}
			if color[cur] == 1 {
				// 灰色节点重现，链上从cur开始的后缀构成循环
				idx := 0
				for i, id := range chain {
					if id == cur {
						idx = i
						break
					}
				}
				cycle := chain[idx:]
				for _, id := range cycle {
					onCycle[id] = struct{}{}
				}
				if firstPath == nil {
					firstPath = append(append([]string{}, cycle...), cur) // 闭合循环
				}
				break
			}
			color[cur] = 1
			chain = append(chain, cur)
			next := segs[cur].ToID
			if next == "" {
				break
			}
			cur = next
		}

		// 本轮链上的节点全部标黑
		for _, id := range chain {
			color[id] = 2
		}
	}

	return onCycle, firstPath
}

// Validate 校验主流向关系的完整性
// 存在循环时返回GraphIntegrityError；未触及循环的查询仍可使用原图
func (g *flowGraph) Validate() error {
	if len(g.onCycle) > 0 {
		return g.integrityErr()
	}
	return nil
}

// Segment 获取指定段
func (g *flowGraph) Segment(id string) (Segment, bool) {
	s, ok := g.segments[id]
	return s, ok
}

// Segments 获取所有段（按ID排序）
func (g *flowGraph) Segments() []Segment {
	ids := make([]string, 0, len(g.segments))
	for id := range g.segments {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	result := make([]Segment, 0, len(ids))
	for _, id := range ids {
		result = append(result, g.segments[id])
	}
	return result
}

// UpstreamNeighbors 获取直接上游邻居ID（按ID排序）
func (g *flowGraph) UpstreamNeighbors(id string) []string {
	neighbors := g.upstream[id]
	result := make([]string, len(neighbors))
	copy(result, neighbors)
	return result
}

// Outlets 获取所有出口段ID
func (g *flowGraph) Outlets() []string {
	result := make([]string, len(g.outlets))
	copy(result, g.outlets)
	return result
}

// Size 段数量
func (g *flowGraph) Size() int {
	return len(g.segments)
}

// integrityErr 构造循环完整性错误（内部方法）
func (g *flowGraph) integrityErr() error {
	return &GraphIntegrityError{CyclePath: append([]string{}, g.cyclePath...)}
}
