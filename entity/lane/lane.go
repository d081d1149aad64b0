package lane

import (
	"fmt"

	"github.com/tsinghua-fib-lab/roadsim-oss/entity"
)

// Lane 车道实体
// 功能：维护单条车道上所有车辆的有序索引
// 说明：路段为直线多车道模型，所有车道共享同一里程坐标系；
// 车辆链表按里程升序排列，前车即链表中的后继节点
type Lane struct {
	ctx entity.ITaskContext

	index  int     // 车道序号，最左为0
	length float64 // 车道长度（米），等于路段长度

	vehicles entity.VehicleList // 车道上的车辆链表
}

// newLane 创建车道实例
func newLane(ctx entity.ITaskContext, index int, length float64) *Lane {
	l := &Lane{
		ctx:    ctx,
		index:  index,
		length: length,
	}
	l.vehicles.ID = fmt.Sprintf("lane-%d", index)
	return l
}

// String 获取车道的字符串表示
func (l *Lane) String() string {
	return fmt.Sprintf("Lane{index=%d, vehicles=%d}", l.index, l.vehicles.Len())
}

// Index 获取车道序号
func (l *Lane) Index() int {
	return l.index
}

// Length 获取车道长度（米）
func (l *Lane) Length() float64 {
	return l.length
}

// AddVehicle 将车辆节点插入车道
// 说明：通过Merge插入，保持链表有序
func (l *Lane) AddVehicle(node *entity.VehicleNode) {
	l.vehicles.Merge([]*entity.VehicleNode{node})
}

// RemoveVehicle 将车辆节点移出车道
func (l *Lane) RemoveVehicle(node *entity.VehicleNode) {
	l.vehicles.Remove(node)
}

// FirstVehicle 获取里程最小的车辆节点
func (l *Lane) FirstVehicle() *entity.VehicleNode {
	return l.vehicles.First()
}

// LastVehicle 获取里程最大的车辆节点
func (l *Lane) LastVehicle() *entity.VehicleNode {
	return l.vehicles.Last()
}

// VehicleAhead 获取里程严格大于s的最近车辆节点
// 功能：查找指定位置的前车，用于跟车与变道间隙判断
func (l *Lane) VehicleAhead(s float64) *entity.VehicleNode {
	return l.vehicles.FirstAfter(s)
}

// VehicleBehind 获取里程不大于s的最近车辆节点
// 功能：查找指定位置的后车，用于变道间隙判断
func (l *Lane) VehicleBehind(s float64) *entity.VehicleNode {
	return l.vehicles.LastBefore(s)
}

// VehicleCount 获取车道内车辆数
func (l *Lane) VehicleCount() int {
	return l.vehicles.Len()
}

// ClearNearOrigin 判断道路起点附近是否有足够投放空间
// 参数：clearance-要求的净空距离（米）
// 返回：起点clearance范围内无车时返回true
func (l *Lane) ClearNearOrigin(clearance float64) bool {
	first := l.vehicles.First()
	return first == nil || first.S-first.L() >= clearance
}

// prepare 恢复车辆链表的有序性
// 说明：每个物理步车辆位置更新后调用；
// 摘除逆序节点再归并插入，代价与乱序程度成正比
func (l *Lane) prepare() {
	if unsorted := l.vehicles.PopUnsorted(); len(unsorted) > 0 {
		l.vehicles.Merge(unsorted)
	}
}
