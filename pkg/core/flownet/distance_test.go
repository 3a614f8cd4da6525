package flownet

import (
	"errors"
	"math"
	"testing"
)

func TestDistanceToOutlet(t *testing.T) {
	g := mustBuild(t, basinSegments())

	table, err := g.DistanceToOutlet()
	if err != nil {
		t.Fatalf("距离计算失败: %v", err)
	}

	// {A:5, B:8, C:7, D:12}
	expected := map[string]float64{"A": 5, "B": 8, "C": 7, "D": 12}
	if len(table) != len(expected) {
		t.Fatalf("距离表段数错误，期望: %d, 实际: %d", len(expected), len(table))
	}
	for id, want := range expected {
		if got := table[id]; math.Abs(got-want) > 1e-9 {
			t.Errorf("段 %s 的距离错误，期望: %v, 实际: %v", id, want, got)
		}
	}
}

// TestDistance_StrictlyIncreasingUpstream 沿任意单一路径向上游距离严格递增
func TestDistance_StrictlyIncreasingUpstream(t *testing.T) {
	segs := []Segment{
		{ID: "A", ToID: "", Length: 5},
		{ID: "B", ToID: "A", Length: 3},
		{ID: "C", ToID: "A", Length: 2},
		{ID: "D", ToID: "B", Length: 4},
		{ID: "E", ToID: "D", Length: 1.5},
	}
	g := mustBuild(t, segs)

	table, err := g.DistanceToOutlet()
	if err != nil {
		t.Fatalf("距离计算失败: %v", err)
	}

	for _, s := range g.Segments() {
		if s.ToID == "" {
			continue
		}
		down, ok := g.Segment(s.ToID)
		if !ok {
			continue
		}
		if table[s.ID] <= table[down.ID] {
			t.Errorf("段 %s 的距离(%v)应严格大于其下游 %s 的距离(%v)",
				s.ID, table[s.ID], down.ID, table[down.ID])
		}
	}
}

// TestDistance_OutletDownstreamEndIsZero 出口段距离等于其自身长度
// （出口下游端点的距离为0，段自身长度计入）
func TestDistance_OutletDownstreamEndIsZero(t *testing.T) {
	g := mustBuild(t, basinSegments())

	table, err := g.DistanceToOutlet()
	if err != nil {
		t.Fatalf("距离计算失败: %v", err)
	}

	outlet, _ := g.Segment("A")
	if math.Abs(table["A"]-outlet.Length) > 1e-9 {
		t.Errorf("出口段距离应等于自身长度 %v，实际: %v", outlet.Length, table["A"])
	}
}

// TestDistance_MultiComponentStrict 两条不相交的链：严格模式必须报出口不明确
func TestDistance_MultiComponentStrict(t *testing.T) {
	segs := []Segment{
		{ID: "A", ToID: "", Length: 5},
		{ID: "B", ToID: "A", Length: 3},
		{ID: "X", ToID: "", Length: 2},
		{ID: "Y", ToID: "X", Length: 4},
	}
	g := mustBuild(t, segs)

	_, err := g.DistanceToOutlet()
	var ambiguous *AmbiguousOutletError
	if !errors.As(err, &ambiguous) {
		t.Fatalf("多分量输入严格模式应返回AmbiguousOutletError，实际: %v", err)
	}
}

// TestDistance_MultiComponentPerComponent 按分量独立计算策略
func TestDistance_MultiComponentPerComponent(t *testing.T) {
	segs := []Segment{
		{ID: "A", ToID: "", Length: 5},
		{ID: "B", ToID: "A", Length: 3},
		{ID: "X", ToID: "", Length: 2},
		{ID: "Y", ToID: "X", Length: 4},
	}
	g := mustBuild(t, segs)

	table, err := g.DistanceToOutletWithOptions(DistanceOptions{PerComponent: true})
	if err != nil {
		t.Fatalf("按分量独立计算失败: %v", err)
	}

	expected := map[string]float64{"A": 5, "B": 8, "X": 2, "Y": 6}
	for id, want := range expected {
		if got := table[id]; math.Abs(got-want) > 1e-9 {
			t.Errorf("段 %s 的距离错误，期望: %v, 实际: %v", id, want, got)
		}
	}
}

// TestDistance_NoOutlet 分量内没有出口时的报错优先级
func TestDistance_NoOutlet(t *testing.T) {
	// 无出口分量必然含循环，由完整性检查先行拦截
	segs := []Segment{
		{ID: "A", ToID: "B", Length: 1},
		{ID: "B", ToID: "A", Length: 1},
	}
	g := mustBuild(t, segs)

	_, err := g.DistanceToOutlet()
	var integrity *GraphIntegrityError
	if !errors.As(err, &integrity) {
		t.Fatalf("循环分量应返回GraphIntegrityError，实际: %v", err)
	}
}

// TestDistance_OutsideSubsetOutlet 排往子集外的段同样构成出口并参与距离计算
func TestDistance_OutsideSubsetOutlet(t *testing.T) {
	segs := []Segment{
		{ID: "B", ToID: "outside", Length: 3},
		{ID: "D", ToID: "B", Length: 4},
	}
	g := mustBuild(t, segs)

	table, err := g.DistanceToOutlet()
	if err != nil {
		t.Fatalf("流出子集型出口的距离计算失败: %v", err)
	}
	if math.Abs(table["B"]-3) > 1e-9 || math.Abs(table["D"]-7) > 1e-9 {
		t.Errorf("距离错误，期望: B=3 D=7, 实际: %v", table)
	}
}
