// Package flownet 提供河流网络的有向流图构建与遍历查询能力
package flownet

// Segment 流网中的一段河道（对外导出）
// 既是图中的节点，也携带指向直接下游段的唯一主流向边
type Segment struct {
	ID           string  // 段唯一标识
	ToID         string  // 直接下游段ID（空字符串表示终端段/出口，无下游）
	Length       float64 // 段长度（非负，单位由调用方保持一致，如km）
	DrainageArea float64 // 汇水面积（主干溯源的排序属性，可为0表示缺失）
}

// IsTerminal 判断是否为终端段（ToID为哨兵值）
func (s Segment) IsTerminal() bool {
	return s.ToID == ""
}

// Diversion 分流边（对外导出）
// 主流向之外的备用下游边，仅在包含分流的下游遍历中参与
type Diversion struct {
	FromID string // 分流起点段ID
	ToID   string // 分流终点段ID
}

// TraversalResult 遍历结果（按访问顺序排列的段ID列表）
type TraversalResult []string

// Contains 判断结果中是否包含指定段ID
func (r TraversalResult) Contains(id string) bool {
	for _, v := range r {
		if v == id {
			return true
		}
	}
	return false
}

// ToSet 转换为集合形式（便于调用方按成员关系过滤自己的属性表）
func (r TraversalResult) ToSet() map[string]struct{} {
	set := make(map[string]struct{}, len(r))
	for _, v := range r {
		set[v] = struct{}{}
	}
	return set
}

// DistanceTable 段ID到沿网累积距离的映射
// 距离为从该段（含自身长度）沿主流向到所在分量出口的长度之和
type DistanceTable map[string]float64
