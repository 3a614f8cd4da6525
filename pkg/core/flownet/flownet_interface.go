package flownet

// FlowNetwork 流网查询接口（对外导出）
// 由Build构建，构建完成后不可变，所有查询均为只读，可被多个goroutine并发调用
type FlowNetwork interface {
	// UpstreamTrace 完整上游溯源：返回start及所有流经start的上游段
	UpstreamTrace(startID string) (TraversalResult, error)
	// UpstreamTraceWithOptions 带选项的上游溯源（支持按累积距离截断）
	UpstreamTraceWithOptions(startID string, options UpstreamTraceOptions) (TraversalResult, error)
	// MainstemTrace 主干溯源：每个汇流点只沿排序属性最大的上游分支回溯
	MainstemTrace(startID string) (TraversalResult, error)
	// DownstreamTrace 下游追踪：沿to_id走到出口；includeDiversions时并入分流边
	DownstreamTrace(startID string, includeDiversions bool) (TraversalResult, error)
	// DistanceToOutlet 计算每段到所在分量出口的累积路径距离
	DistanceToOutlet() (DistanceTable, error)
	// DistanceToOutletWithOptions 带选项的距离计算（支持多分量独立计算策略）
	DistanceToOutletWithOptions(options DistanceOptions) (DistanceTable, error)
	// Validate 校验主流向关系的完整性（存在循环时返回GraphIntegrityError）
	Validate() error
	// Segment 获取指定段
	Segment(id string) (Segment, bool)
	// Segments 获取所有段（按ID排序）
	Segments() []Segment
	// UpstreamNeighbors 获取直接上游邻居ID（按ID排序）
	UpstreamNeighbors(id string) []string
	// Outlets 获取所有出口段ID（ToID为哨兵值或指向子集外）
	Outlets() []string
	// Size 段数量
	Size() int
}

// UpstreamTraceOptions 上游溯源选项
type UpstreamTraceOptions struct {
	// MaxDistance 累积上游长度上限（<=0表示不限）
	// 超过上限的分支被截断，返回部分结果而非错误
	MaxDistance float64
}

// DistanceOptions 距离计算选项
type DistanceOptions struct {
	// PerComponent 为true时对每个连通分量独立计算距离
	// 默认false：输入存在多个连通分量时返回AmbiguousOutletError
	PerComponent bool
}
