// Package engine 提供流网服务门面：摄入、缓存、查询与站点关联
package engine

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/LENAX/flownet/pkg/config"
	"github.com/LENAX/flownet/pkg/core/cache"
	"github.com/LENAX/flownet/pkg/core/events"
	"github.com/LENAX/flownet/pkg/core/flownet"
	"github.com/LENAX/flownet/pkg/storage"
)

// 服务层错误（对外导出）
var (
	// ErrNetworkNotFound 流网不存在
	ErrNetworkNotFound = errors.New("流网不存在")
	// ErrGageNotFound 站点不存在
	ErrGageNotFound = errors.New("站点不存在")
	// ErrGagesNotOnCommonPath 两个站点不在同一条下游路径上，沿网距离无定义
	ErrGagesNotOnCommonPath = errors.New("两个站点不在同一条下游路径上")
)

// NetworkManager 流网服务管理器（对外导出）
// 持有存储、流图缓存与事件总线；所有查询都经由已构建的不可变流图
type NetworkManager struct {
	repo  storage.NetworkRepository
	cache cache.GraphCache
	bus   *events.Bus
	cfg   *config.FlownetConfig
}

// NewNetworkManager 创建流网服务管理器（对外导出）
func NewNetworkManager(repo storage.NetworkRepository, cfg *config.FlownetConfig) *NetworkManager {
	var graphCache cache.GraphCache
	if cfg.Flownet.Storage.Cache.Enabled {
		graphCache = cache.NewMemoryGraphCache(cfg.Flownet.Storage.Cache.CleanInterval)
	}

	return &NetworkManager{
		repo:  repo,
		cache: graphCache,
		bus:   events.NewBus(false),
		cfg:   cfg,
	}
}

// Bus 获取事件总线（供调用方订阅观测事件）
func (m *NetworkManager) Bus() *events.Bus {
	return m.bus
}

// Close 关闭管理器持有的资源
func (m *NetworkManager) Close() error {
	if err := m.bus.Close(); err != nil {
		return err
	}
	return m.repo.Close()
}

// IngestNetwork 摄入一张段表，构建并持久化为新流网
// 构建校验失败（重复ID、非法长度、循环流向）时拒绝摄入
func (m *NetworkManager) IngestNetwork(ctx context.Context, name string, segments []flownet.Segment, diversions []flownet.Diversion) (*storage.Network, error) {
	// 1. 构建流图完成输入校验
	graph, err := flownet.BuildWithOptions(segments, flownet.BuildOptions{Diversions: diversions})
	if err != nil {
		return nil, err
	}
	// 摄入时拒绝含循环的段表（与查询期的延迟报错不同，持久化前做硬校验）
	if err := graph.Validate(); err != nil {
		return nil, err
	}

	// 2. 持久化流网与段表
	network := &storage.Network{
		ID:             uuid.NewString(),
		Name:           name,
		SegmentCount:   len(segments),
		DiversionCount: len(diversions),
		CreatedAt:      time.Now().UTC(),
	}
	segRecords := make([]storage.SegmentRecord, 0, len(segments))
	for _, s := range segments {
		segRecords = append(segRecords, storage.SegmentRecord{
			NetworkID:        network.ID,
			SegmentID:        s.ID,
			ToID:             s.ToID,
			LengthKM:         s.Length,
			DrainageAreaSqKM: s.DrainageArea,
		})
	}
	divRecords := make([]storage.DiversionRecord, 0, len(diversions))
	for _, d := range diversions {
		divRecords = append(divRecords, storage.DiversionRecord{
			NetworkID: network.ID,
			FromID:    d.FromID,
			ToID:      d.ToID,
		})
	}
	if err := m.repo.SaveNetwork(ctx, network, segRecords, divRecords); err != nil {
		return nil, err
	}

	// 3. 预热缓存并发布事件
	if m.cache != nil {
		m.cache.Set(network.ID, graph, m.cfg.GetGraphTTL())
	}
	m.publish(events.NewNetworkEvent(events.EventNetworkIngested, network.ID, events.IngestPayload{
		Name:           name,
		SegmentCount:   len(segments),
		DiversionCount: len(diversions),
		OutletCount:    len(graph.Outlets()),
	}))

	return network, nil
}

// GetNetwork 查询流网元数据
func (m *NetworkManager) GetNetwork(ctx context.Context, networkID string) (*storage.Network, error) {
	network, err := m.repo.GetNetwork(ctx, networkID)
	if err != nil {
		return nil, err
	}
	if network == nil {
		return nil, fmt.Errorf("%w: %s", ErrNetworkNotFound, networkID)
	}
	return network, nil
}

// ListNetworks 列出所有流网
func (m *NetworkManager) ListNetworks(ctx context.Context) ([]*storage.Network, error) {
	return m.repo.ListNetworks(ctx)
}

// DeleteNetwork 删除流网及其关联数据
func (m *NetworkManager) DeleteNetwork(ctx context.Context, networkID string) error {
	if _, err := m.GetNetwork(ctx, networkID); err != nil {
		return err
	}
	if err := m.repo.DeleteNetwork(ctx, networkID); err != nil {
		return err
	}
	if m.cache != nil {
		m.cache.Delete(networkID)
	}
	m.publish(events.NewNetworkEvent(events.EventNetworkDeleted, networkID, nil))
	return nil
}

// GetGraph 获取流网的已构建流图（优先命中缓存，未命中时从存储重建）
func (m *NetworkManager) GetGraph(ctx context.Context, networkID string) (flownet.FlowNetwork, error) {
	if m.cache != nil {
		if graph, hit := m.cache.Get(networkID); hit {
			return graph, nil
		}
	}

	network, err := m.GetNetwork(ctx, networkID)
	if err != nil {
		return nil, err
	}

	graph, err := m.rebuildGraph(ctx, network.ID)
	if err != nil {
		return nil, err
	}

	if m.cache != nil {
		m.cache.Set(networkID, graph, m.cfg.GetGraphTTL())
	}
	return graph, nil
}

// rebuildGraph 从存储中的段表重建流图（内部方法）
func (m *NetworkManager) rebuildGraph(ctx context.Context, networkID string) (flownet.FlowNetwork, error) {
	segRecords, err := m.repo.GetSegments(ctx, networkID)
	if err != nil {
		return nil, err
	}
	divRecords, err := m.repo.GetDiversions(ctx, networkID)
	if err != nil {
		return nil, err
	}

	segments := make([]flownet.Segment, 0, len(segRecords))
	for _, r := range segRecords {
		segments = append(segments, flownet.Segment{
			ID:           r.SegmentID,
			ToID:         r.ToID,
			Length:       r.LengthKM,
			DrainageArea: r.DrainageAreaSqKM,
		})
	}
	diversions := make([]flownet.Diversion, 0, len(divRecords))
	for _, r := range divRecords {
		diversions = append(diversions, flownet.Diversion{FromID: r.FromID, ToID: r.ToID})
	}

	return flownet.BuildWithOptions(segments, flownet.BuildOptions{Diversions: diversions})
}

// UpstreamTrace 上游溯源查询
func (m *NetworkManager) UpstreamTrace(ctx context.Context, networkID, segmentID string, maxDistance float64) (flownet.TraversalResult, error) {
	graph, err := m.GetGraph(ctx, networkID)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	result, err := graph.UpstreamTraceWithOptions(segmentID, flownet.UpstreamTraceOptions{MaxDistance: maxDistance})
	m.publishTrace(networkID, "upstream", segmentID, result, time.Since(start), err)
	return result, err
}

// MainstemTrace 主干溯源查询
func (m *NetworkManager) MainstemTrace(ctx context.Context, networkID, segmentID string) (flownet.TraversalResult, error) {
	graph, err := m.GetGraph(ctx, networkID)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	result, err := graph.MainstemTrace(segmentID)
	m.publishTrace(networkID, "mainstem", segmentID, result, time.Since(start), err)
	return result, err
}

// DownstreamTrace 下游追踪查询
func (m *NetworkManager) DownstreamTrace(ctx context.Context, networkID, segmentID string, includeDiversions bool) (flownet.TraversalResult, error) {
	graph, err := m.GetGraph(ctx, networkID)
	if err != nil {
		return nil, err
	}

	kind := "downstream"
	if includeDiversions {
		kind = "downstream_diversions"
	}
	start := time.Now()
	result, err := graph.DownstreamTrace(segmentID, includeDiversions)
	m.publishTrace(networkID, kind, segmentID, result, time.Since(start), err)
	return result, err
}

// DistanceToOutlet 距离表计算
func (m *NetworkManager) DistanceToOutlet(ctx context.Context, networkID string, perComponent bool) (flownet.DistanceTable, error) {
	graph, err := m.GetGraph(ctx, networkID)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	table, err := graph.DistanceToOutletWithOptions(flownet.DistanceOptions{PerComponent: perComponent})
	if err != nil {
		m.publish(events.NewNetworkEvent(events.EventTraceFailed, networkID, events.TracePayload{
			Kind:    "distance",
			Elapsed: time.Since(start),
			Error:   err.Error(),
		}))
		return nil, err
	}
	m.publish(events.NewNetworkEvent(events.EventDistanceComputed, networkID, events.TracePayload{
		Kind:      "distance",
		ResultLen: len(table),
		Elapsed:   time.Since(start),
	}))
	return table, nil
}

// RegisterGages 登记站点并校验其落点段存在于流网中
func (m *NetworkManager) RegisterGages(ctx context.Context, networkID string, gages []*storage.Gage) ([]*storage.Gage, error) {
	graph, err := m.GetGraph(ctx, networkID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	for _, g := range gages {
		if _, exists := graph.Segment(g.SegmentID); !exists {
			return nil, &flownet.NotFoundError{ID: g.SegmentID}
		}
		if g.ID == "" {
			g.ID = uuid.NewString()
		}
		g.NetworkID = networkID
		if g.CreatedAt.IsZero() {
			g.CreatedAt = now
		}
	}

	if err := m.repo.SaveGages(ctx, gages); err != nil {
		return nil, err
	}
	return gages, nil
}

// ListGages 列出流网的全部站点
func (m *NetworkManager) ListGages(ctx context.Context, networkID string) ([]*storage.Gage, error) {
	if _, err := m.GetNetwork(ctx, networkID); err != nil {
		return nil, err
	}
	return m.repo.ListGages(ctx, networkID)
}

// UpstreamGages 查询落在指定段上游汇水网络内的站点
func (m *NetworkManager) UpstreamGages(ctx context.Context, networkID, segmentID string) ([]*storage.Gage, error) {
	result, err := m.UpstreamTrace(ctx, networkID, segmentID, 0)
	if err != nil {
		return nil, err
	}
	return m.repo.ListGagesBySegments(ctx, networkID, result)
}

// GageDistance 计算两个站点沿流网的路径距离
// 两站点的落点段必须位于同一条主流向下游路径上（路径距离 = 两段出口距离之差）
func (m *NetworkManager) GageDistance(ctx context.Context, networkID, fromGageID, toGageID string) (float64, error) {
	gages, err := m.ListGages(ctx, networkID)
	if err != nil {
		return 0, err
	}

	var fromSeg, toSeg string
	for _, g := range gages {
		if g.ID == fromGageID {
			fromSeg = g.SegmentID
		}
		if g.ID == toGageID {
			toSeg = g.SegmentID
		}
	}
	if fromSeg == "" {
		return 0, fmt.Errorf("%w: %s", ErrGageNotFound, fromGageID)
	}
	if toSeg == "" {
		return 0, fmt.Errorf("%w: %s", ErrGageNotFound, toGageID)
	}

	graph, err := m.GetGraph(ctx, networkID)
	if err != nil {
		return 0, err
	}

	// 校验两段在同一条下游路径上（任一方向可达即可）
	downs, err := graph.DownstreamTrace(fromSeg, false)
	if err != nil {
		return 0, err
	}
	if !downs.Contains(toSeg) {
		downs, err = graph.DownstreamTrace(toSeg, false)
		if err != nil {
			return 0, err
		}
		if !downs.Contains(fromSeg) {
			return 0, ErrGagesNotOnCommonPath
		}
	}

	table, err := graph.DistanceToOutletWithOptions(flownet.DistanceOptions{PerComponent: true})
	if err != nil {
		return 0, err
	}
	return math.Abs(table[fromSeg] - table[toSeg]), nil
}

// publishTrace 发布遍历查询事件（内部方法）
func (m *NetworkManager) publishTrace(networkID, kind, startID string, result flownet.TraversalResult, elapsed time.Duration, err error) {
	if err != nil {
		m.publish(events.NewNetworkEvent(events.EventTraceFailed, networkID, events.TracePayload{
			Kind:    kind,
			StartID: startID,
			Elapsed: elapsed,
			Error:   err.Error(),
		}))
		return
	}
	m.publish(events.NewNetworkEvent(events.EventTraceCompleted, networkID, events.TracePayload{
		Kind:      kind,
		StartID:   startID,
		ResultLen: len(result),
		Elapsed:   elapsed,
	}))
}

// publish 发布事件，失败只记录日志（事件用于观测，不阻断查询）（内部方法）
func (m *NetworkManager) publish(event *events.NetworkEvent) {
	if err := m.bus.Publish(event); err != nil {
		log.Printf("[engine] 发布事件失败: type=%s, error=%v", event.Type, err)
	}
}
