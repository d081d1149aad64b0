package entity

import (
	"github.com/tsinghua-fib-lab/roadsim-oss/utils/container"
)

// 方位常量
const (
	LEFT  = 0 // 左侧
	RIGHT = 1 // 右侧
)

// VehicleNode 车道链表中的车辆节点
// 说明：键值S为车辆在道路上的里程
type VehicleNode = container.ListNode[IVehicle]

// VehicleList 按里程排序的车辆链表
type VehicleList = container.List[IVehicle]

// entity/vehicle/vehicle.go的依赖倒置
type IVehicle interface {
	// 自身属性

	ID() int32        // 获取车辆ID
	Length() float64  // 获取车长（米）
	ClassCode() int32 // 获取车辆类型编码

	// 运行时状态

	S() float64             // 获取里程（米）
	V() float64             // 获取速度（米/秒）
	A() float64             // 获取加速度（米/秒²）
	LaneIndex() int         // 获取车道序号
	LaneOffset() float64    // 获取变道横向完成度（0~1）
	IsLC() bool             // 判断是否正在变道
	IsStalled() bool        // 判断是否处于抛锚停车异常（类型1活跃）
	HasActiveAnomaly() bool // 判断是否有活跃异常
	AnomalyTypeCode() int32 // 获取当前异常类型编码（0表示无）
	Affected() bool         // 判断是否受异常影响（粘性标志）
	Risk() float64          // 获取弯道风险系数
	Finished() bool         // 判断是否已驶出路段
}

// entity/lane/lane.go的依赖倒置
type ILane interface {
	Index() int      // 获取车道序号
	Length() float64 // 获取车道长度（米）

	AddVehicle(node *VehicleNode)    // 将车辆节点插入车道（保持有序）
	RemoveVehicle(node *VehicleNode) // 将车辆节点移出车道

	FirstVehicle() *VehicleNode            // 获取里程最小的车辆节点
	LastVehicle() *VehicleNode             // 获取里程最大的车辆节点
	VehicleAhead(s float64) *VehicleNode   // 获取里程严格大于s的最近车辆节点
	VehicleBehind(s float64) *VehicleNode  // 获取里程不大于s的最近车辆节点
	VehicleCount() int                     // 获取车道内车辆数
	ClearNearOrigin(clearance float64) bool // 判断道路起点附近是否有足够投放空间
}

type ILaneManager interface {
	Get(index int) ILane // 根据车道序号获取车道
	Count() int          // 获取车道数
	Lanes() []ILane      // 获取全部车道
	Prepare()            // 恢复各车道链表的有序性
}

type IVehicleManager interface {
	Active() []IVehicle  // 获取在途车辆（实时视图，顺序为更新顺序）
	ActiveCount() int    // 获取在途车辆数
	CompletedCount() int32 // 获取已完成车辆数
}
