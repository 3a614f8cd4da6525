package flownet

import "fmt"

// NotFoundError 查询引用了流网中不存在的段ID（对外导出）
// 调用方应修正标识后重试，不会被静默降级为空结果
type NotFoundError struct {
	ID string // 缺失的段ID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("段 %s 不存在于流网中", e.ID)
}

// GraphIntegrityError to_id流向关系中检测到循环（对外导出）
// 属于数据完整性错误：图中未触及循环的部分仍可查询
type GraphIntegrityError struct {
	CyclePath []string // 构成循环的段ID路径
}

func (e *GraphIntegrityError) Error() string {
	return fmt.Sprintf("检测到循环流向: %v", e.CyclePath)
}

// AmbiguousOutletError 连通分量的出口段数量不为1，无法计算路径距离（对外导出）
// 调用方需缩小输入子集或启用按分量独立计算
type AmbiguousOutletError struct {
	SampleID string   // 问题分量中任一段ID（用于定位）
	Outlets  []string // 该范围内的候选出口（零个或多个）
}

func (e *AmbiguousOutletError) Error() string {
	if len(e.Outlets) == 0 {
		return fmt.Sprintf("包含段 %s 的分量没有出口段", e.SampleID)
	}
	return fmt.Sprintf("出口不唯一: %v", e.Outlets)
}

// InvalidInputError 构建输入非法（重复ID、负长度、非有限长度等）（对外导出）
// 在构建阶段抛出，此时尚无任何查询可用
type InvalidInputError struct {
	Reason string // 非法原因
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("流网输入非法: %s", e.Reason)
}
