package flownet

import "sort"

// UpstreamTrace 完整上游溯源（对外导出）
// 返回startID及所有流经startID的上游段，即完整上游汇水网络
func (g *flowGraph) UpstreamTrace(startID string) (TraversalResult, error) {
	return g.UpstreamTraceWithOptions(startID, UpstreamTraceOptions{})
}

// UpstreamTraceWithOptions 带选项的上游溯源
// BFS遍历反向邻接索引；汇流点可能有多个上游邻居，
// 用visited集合保证每个段至多访问一次（终止性与去重）
func (g *flowGraph) UpstreamTraceWithOptions(startID string, options UpstreamTraceOptions) (TraversalResult, error) {
	if _, exists := g.segments[startID]; !exists {
		return nil, &NotFoundError{ID: startID}
	}
	if _, bad := g.onCycle[startID]; bad {
		return nil, g.integrityErr()
	}

	// dist记录从startID起算的累积上游长度（startID自身为0）
	visited := map[string]struct{}{startID: {}}
	dist := map[string]float64{startID: 0}
	result := TraversalResult{startID}
	queue := []string{startID}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		for _, up := range g.upstream[cur] {
			if _, seen := visited[up]; seen {
				continue
			}
			if _, bad := g.onCycle[up]; bad {
				return nil, g.integrityErr()
			}
			d := dist[cur] + g.segments[up].Length
			if options.MaxDistance > 0 && d > options.MaxDistance {
				continue // 超出距离上限，截断该分支（部分结果，非错误）
			}
			visited[up] = struct{}{}
			dist[up] = d
			result = append(result, up)
			queue = append(queue, up)
		}
	}

	return result, nil
}

// MainstemTrace 主干溯源（对外导出）
// 每个汇流点只沿排序属性最大的上游分支回溯，产出从startID到主干源头的单链
// 排序属性优先用汇水面积；候选中有缺失时回退为段长度；仍相等时取较小ID保证确定性
func (g *flowGraph) MainstemTrace(startID string) (TraversalResult, error) {
	if _, exists := g.segments[startID]; !exists {
		return nil, &NotFoundError{ID: startID}
	}
	if _, bad := g.onCycle[startID]; bad {
		return nil, g.integrityErr()
	}

	result := TraversalResult{startID}
	visited := map[string]struct{}{startID: {}}
	cur := startID

	for {
		candidates := g.upstream[cur]
		if len(candidates) == 0 {
			break // 到达主干源头
		}

		best := g.pickMainstem(candidates)
		if _, bad := g.onCycle[best]; bad {
			return nil, g.integrityErr()
		}
		if _, seen := visited[best]; seen {
			return nil, g.integrityErr()
		}
		visited[best] = struct{}{}
		result = append(result, best)
		cur = best
	}

	return result, nil
}

// pickMainstem 在汇流点的上游候选中选出主干分支（内部方法）
func (g *flowGraph) pickMainstem(candidates []string) string {
	// 所有候选都有汇水面积时按面积比较，否则回退为按长度比较
	byArea := true
	for _, id := range candidates {
		if g.segments[id].DrainageArea <= 0 {
			byArea = false
			break
		}
	}

	attr := func(id string) float64 {
		if byArea {
			return g.segments[id].DrainageArea
		}
		return g.segments[id].Length
	}

	best := candidates[0]
	for _, id := range candidates[1:] {
		if attr(id) > attr(best) || (attr(id) == attr(best) && id < best) {
			best = id
		}
	}
	return best
}

// DownstreamTrace 下游追踪（对外导出）
// 沿主流向to_id从startID走到出口（或子集边界）
// includeDiversions为true时并入分流边，产出所有下游路径的并集（DAG形）
func (g *flowGraph) DownstreamTrace(startID string, includeDiversions bool) (TraversalResult, error) {
	if _, exists := g.segments[startID]; !exists {
		return nil, &NotFoundError{ID: startID}
	}

	visited := map[string]struct{}{startID: {}}
	result := TraversalResult{startID}
	queue := []string{startID}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		if _, bad := g.onCycle[cur]; bad {
			return nil, g.integrityErr()
		}

		// 收集当前段的下游边（主流向 + 可选分流）
		next := make([]string, 0, 1)
		if toID := g.segments[cur].ToID; toID != "" {
			if _, inSubset := g.segments[toID]; inSubset {
				next = append(next, toID)
			}
		}
		if includeDiversions {
			next = append(next, g.divOut[cur]...)
		}
		sort.Strings(next)

		for _, n := range next {
			if _, seen := visited[n]; seen {
				continue
			}
			visited[n] = struct{}{}
			result = append(result, n)
			queue = append(queue, n)
		}
	}

	return result, nil
}
