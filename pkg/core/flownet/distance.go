package flownet

import "sort"

// DistanceToOutlet 计算每段到所在分量出口的累积路径距离（对外导出）
// 默认策略为严格模式：输入必须是单个连通分量，否则返回AmbiguousOutletError
func (g *flowGraph) DistanceToOutlet() (DistanceTable, error) {
	return g.DistanceToOutletWithOptions(DistanceOptions{})
}

// DistanceToOutletWithOptions 带选项的距离计算
// 距离定义：该段自身长度 + 沿主流向到出口途经各段长度之和（出口下游端点距离为0）
// 每个分量从其唯一出口沿反向邻接做一次反拓扑扫描完成累加，避免逐段重复走链
func (g *flowGraph) DistanceToOutletWithOptions(options DistanceOptions) (DistanceTable, error) {
	// 1. 划分连通分量（主流向边的无向连通性）
	components := g.components()

	// 2. 严格模式下多分量输入直接判为出口不明确
	if !options.PerComponent && len(components) > 1 {
		return nil, &AmbiguousOutletError{
			SampleID: components[1][0],
			Outlets:  g.Outlets(),
		}
	}

	table := make(DistanceTable, len(g.segments))

	for _, comp := range components {
		// 3. 循环分量没有可达出口，属于完整性错误而非出口歧义
		for _, id := range comp {
			if _, bad := g.onCycle[id]; bad {
				return nil, g.integrityErr()
			}
		}

		// 4. 每个分量必须恰好有一个出口
		outlets := make([]string, 0, 1)
		for _, id := range comp {
			s := g.segments[id]
			if s.ToID == "" {
				outlets = append(outlets, id)
				continue
			}
			if _, inSubset := g.segments[s.ToID]; !inSubset {
				outlets = append(outlets, id)
			}
		}
		if len(outlets) != 1 {
			return nil, &AmbiguousOutletError{SampleID: comp[0], Outlets: outlets}
		}

		// 5. 从出口沿反向邻接向上游累加：dist(段) = 段长度 + dist(直接下游段)
		outlet := outlets[0]
		table[outlet] = g.segments[outlet].Length
		queue := []string{outlet}
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			for _, up := range g.upstream[cur] {
				table[up] = g.segments[up].Length + table[cur]
				queue = append(queue, up)
			}
		}
	}

	return table, nil
}

// components 计算主流向边上的无向连通分量（内部方法）
// 每个分量内的段ID按遍历序排列，首个元素为分量中ID最小的段
func (g *flowGraph) components() [][]string {
	ids := make([]string, 0, len(g.segments))
	for id := range g.segments {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	assigned := make(map[string]struct{}, len(ids))
	components := make([][]string, 0, 1)

	for _, start := range ids {
		if _, done := assigned[start]; done {
			continue
		}

		comp := []string{start}
		assigned[start] = struct{}{}
		queue := []string{start}

		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]

			// 无向邻居 = 直接下游（若在子集内） + 直接上游
			neighbors := make([]string, 0, 2)
			if toID := g.segments[cur].ToID; toID != "" {
				if _, inSubset := g.segments[toID]; inSubset {
					neighbors = append(neighbors, toID)
				}
			}
			neighbors = append(neighbors, g.upstream[cur]...)

			for _, n := range neighbors {
				if _, done := assigned[n]; done {
					continue
				}
				assigned[n] = struct{}{}
				comp = append(comp, n)
				queue = append(queue, n)
			}
		}

		components = append(components, comp)
	}

	return components
}
