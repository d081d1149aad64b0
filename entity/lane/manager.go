package lane

import (
	"github.com/tsinghua-fib-lab/roadsim-oss/entity"
)

// LaneManager Lane管理器
// 功能：管理路段的所有车道，提供创建、查找与每步整理功能
type LaneManager struct {
	ctx entity.ITaskContext

	lanes []*Lane
}

// NewManager 创建Lane管理器实例
// 功能：根据配置的车道数与路段长度初始化所有车道
// 参数：ctx-任务上下文
// 返回：新创建的Lane管理器实例
func NewManager(ctx entity.ITaskContext) *LaneManager {
	c := ctx.RuntimeConfig().All.Road
	m := &LaneManager{
		ctx:   ctx,
		lanes: make([]*Lane, c.Lanes),
	}
	for i := range m.lanes {
		m.lanes[i] = newLane(ctx, i, c.Length)
	}
	return m
}

// Get 根据车道序号获取车道
// 说明：序号越界属于编程错误，直接panic
func (m *LaneManager) Get(index int) entity.ILane {
	if index < 0 || index >= len(m.lanes) {
		log.Panicf("no lane with index %d (have %d lanes)", index, len(m.lanes))
		return nil
	}
	return m.lanes[index]
}

// Count 获取车道数
func (m *LaneManager) Count() int {
	return len(m.lanes)
}

// Lanes 获取全部车道
func (m *LaneManager) Lanes() []entity.ILane {
	lanes := make([]entity.ILane, len(m.lanes))
	for i, l := range m.lanes {
		lanes[i] = l
	}
	return lanes
}

// Prepare 准备阶段，恢复所有车道链表的有序性
// 说明：每个物理步的车辆更新结束后调用
func (m *LaneManager) Prepare() {
	for _, l := range m.lanes {
		l.prepare()
	}
}
