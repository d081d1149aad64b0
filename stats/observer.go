package stats

// VehicleState 车辆状态采样视图
// 功能：模拟核心在采样时刻为每辆在途车辆生成的只读快照
// 说明：统计模块只消费该视图，不持有车辆实体引用
type VehicleState struct {
	ID            int32   // 车辆ID
	Lane          int     // 车道序号
	LaneOffset    float64 // 变道过程中的横向完成度（0~1）
	S             float64 // 里程（米）
	V             float64 // 速度（米/秒）
	A             float64 // 加速度（米/秒²）
	AnomalyType   int32   // 异常类型（0表示无）
	AnomalyActive bool    // 异常是否处于活跃状态
	Affected      bool    // 是否受异常影响
	Risk          float64 // 弯道风险系数
}

// Progress 运行进度
type Progress struct {
	T         float64 // 当前模拟时间（秒）
	Active    int32   // 在途车辆数
	Completed int32   // 已完成车辆数
}

// Snapshot 周期性推送给外部协作方的快照
// 功能：每个批次结束时由模拟时钟发出
type Snapshot struct {
	Progress

	AvgSpeed            float64         // 在途车辆平均速度（米/秒）
	TotalAnomalies      int32           // 累计异常事件数
	TotalLaneChanges    int32           // 累计变道次数
	NewSegmentRecords   []SegmentRecord // 本批次新增的分段统计记录
	TrajectoryCount     int             // 已累计的原始轨迹点数
	GeometryUnavailable bool            // 道路几何是否获取失败（使用直线退化剖面）
}

// FinalStats 运行结束时推送的完整统计
// 功能：携带全量统计数据，触发外部导出/分析流程
type FinalStats struct {
	Progress

	TotalAnomalies      int32            // 累计异常事件数
	TotalLaneChanges    int32            // 累计变道次数
	AvgTravelTime       float64          // 已完成车辆的平均行程时间（秒）
	GeometryUnavailable bool             // 道路几何是否获取失败
	SegmentRecords      []SegmentRecord  // 全部分段统计记录
	Trajectory          []TrajectoryPoint // 下采样后的轨迹点流
	Events              []AnomalyEvent   // 异常事件日志
}

// Observer 外部协作方接口
// 功能：接收模拟核心推送的周期快照与结束信号
// 说明：回调在模拟循环所在goroutine中同步执行，
// 耗时的导出工作应由实现方自行异步化
type Observer interface {
	OnSnapshot(snapshot *Snapshot)
	OnComplete(final *FinalStats)
}

// NopObserver 空实现
// 说明：外部未注册观察者时使用
type NopObserver struct{}

func (NopObserver) OnSnapshot(*Snapshot)    {}
func (NopObserver) OnComplete(*FinalStats) {}
