package entity

import (
	"github.com/tsinghua-fib-lab/roadsim-oss/clock"
	"github.com/tsinghua-fib-lab/roadsim-oss/entity/road"
	"github.com/tsinghua-fib-lab/roadsim-oss/stats"
	"github.com/tsinghua-fib-lab/roadsim-oss/utils/config"
	"github.com/tsinghua-fib-lab/roadsim-oss/utils/randengine"
)

// ITaskContext 仿真任务上下文接口
// 功能：为各实体提供时钟、配置、管理器等共享依赖
// 说明：取代全局变量/全局配置读取，配置在运行开始时快照一次，
// 物理核心只通过该接口取值，保证可独立测试
type ITaskContext interface {
	Clock() *clock.Clock
	RuntimeConfig() *config.RuntimeConfig
	LaneManager() ILaneManager
	VehicleManager() IVehicleManager
	Profile() *road.Profile             // 道路曲率剖面
	Events() *stats.EventLog            // 异常事件日志
	SegmentBoundaries() []float64       // 统计分段边界
	Engine() *randengine.Engine         // 运行级随机数引擎
}
