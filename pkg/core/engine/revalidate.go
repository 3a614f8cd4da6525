package engine

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/LENAX/flownet/pkg/core/events"
)

// RevalidationScheduler 定期完整性校验调度器（对外导出）
// 按Cron表达式从存储重建每张流网并执行完整性校验，
// 捕获持久化数据被外部修改后引入的循环流向
type RevalidationScheduler struct {
	cron    *cron.Cron
	manager *NetworkManager
	entryID cron.EntryID
	mu      sync.Mutex
	ctx     context.Context
	cancel  context.CancelFunc
}

// NewRevalidationScheduler 创建完整性校验调度器（对外导出）
func NewRevalidationScheduler(m *NetworkManager) *RevalidationScheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &RevalidationScheduler{
		cron:    cron.New(cron.WithSeconds()), // 支持秒级精度
		manager: m,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Register 按Cron表达式注册校验任务（对外导出）
func (rs *RevalidationScheduler) Register(cronExpr string) error {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if cronExpr == "" {
		return fmt.Errorf("未设置Cron表达式")
	}

	// 验证Cron表达式（使用Parser支持秒级精度）
	parser := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	if _, err := parser.Parse(cronExpr); err != nil {
		return fmt.Errorf("Cron表达式无效: %w", err)
	}

	entryID, err := rs.cron.AddFunc(cronExpr, func() {
		rs.RevalidateAll(rs.ctx)
	})
	if err != nil {
		return fmt.Errorf("添加Cron任务失败: %w", err)
	}
	rs.entryID = entryID

	log.Printf("✅ [校验调度器] 已注册完整性校验任务: CronExpr=%s", cronExpr)
	return nil
}

// RevalidateAll 对所有流网执行一次完整性校验（对外导出）
// 每张流网从存储重建流图并校验，结果以事件形式发布
func (rs *RevalidationScheduler) RevalidateAll(ctx context.Context) {
	networks, err := rs.manager.ListNetworks(ctx)
	if err != nil {
		log.Printf("❌ [校验调度器] 列出流网失败: Error=%v", err)
		return
	}

	for _, network := range networks {
		rs.revalidateNetwork(ctx, network.ID, network.SegmentCount)
	}
}

// revalidateNetwork 校验单张流网（内部方法）
func (rs *RevalidationScheduler) revalidateNetwork(ctx context.Context, networkID string, segmentCount int) {
	// 绕过缓存，从存储重建流图后校验
	graph, err := rs.manager.rebuildGraph(ctx, networkID)
	if err == nil {
		err = graph.Validate()
	}

	if err != nil {
		log.Printf("❌ [校验调度器] 流网完整性校验失败: NetworkID=%s, Error=%v", networkID, err)
		rs.manager.publish(events.NewNetworkEvent(events.EventNetworkInvalid, networkID, events.RevalidatePayload{
			SegmentCount: segmentCount,
			Error:        err.Error(),
		}))
		return
	}

	// 校验通过的流图刷新缓存
	if rs.manager.cache != nil {
		rs.manager.cache.Set(networkID, graph, rs.manager.cfg.GetGraphTTL())
	}
	rs.manager.publish(events.NewNetworkEvent(events.EventNetworkRevalidated, networkID, events.RevalidatePayload{
		SegmentCount: segmentCount,
	}))
}

// Start 启动校验调度器（对外导出）
func (rs *RevalidationScheduler) Start() {
	rs.cron.Start()
	log.Println("✅ [校验调度器] 已启动")
}

// Stop 停止校验调度器（对外导出）
func (rs *RevalidationScheduler) Stop() {
	rs.cron.Stop()
	rs.cancel()
	log.Println("✅ [校验调度器] 已停止")
}
