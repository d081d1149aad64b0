package stats

// AnomalyEvent 异常事件记录
// 功能：车辆异常状态机触发新异常时追加的不可变记录
type AnomalyEvent struct {
	VehicleID int32   // 车辆ID
	Type      int32   // 异常类型（1抛锚/2短时减速/3长时减速）
	T         float64 // 触发时刻（秒）
	S         float64 // 触发位置（米）
}

// EventLog 异常事件日志
// 说明：只追加，运行结束后整体随FinalStats推送
type EventLog struct {
	events []AnomalyEvent
}

// Append 追加一条异常事件
func (l *EventLog) Append(e AnomalyEvent) {
	l.events = append(l.events, e)
	log.Debugf("anomaly event: vehicle=%d type=%d t=%.1f s=%.1f", e.VehicleID, e.Type, e.T, e.S)
}

// Len 获取事件数量
func (l *EventLog) Len() int {
	return len(l.events)
}

// Events 获取全部事件
func (l *EventLog) Events() []AnomalyEvent {
	return l.events
}
