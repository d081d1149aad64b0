package task

import (
	"github.com/tsinghua-fib-lab/roadsim-oss/stats"
)

// progress 生成运行进度
func (ctx *Context) progress() stats.Progress {
	return stats.Progress{
		T:         ctx.clock.T,
		Active:    int32(ctx.vehicleManager.ActiveCount()),
		Completed: ctx.vehicleManager.CompletedCount(),
	}
}

// snapshot 生成周期快照
// 说明：分段统计记录只携带自上次快照以来的增量
func (ctx *Context) snapshot() *stats.Snapshot {
	rt := ctx.vehicleManager.Runtime()
	return &stats.Snapshot{
		Progress:            ctx.progress(),
		AvgSpeed:            ctx.vehicleManager.AvgSpeed(),
		TotalAnomalies:      rt.TotalAnomalies,
		TotalLaneChanges:    rt.TotalLaneChanges,
		NewSegmentRecords:   ctx.aggregator.PopNewRecords(),
		TrajectoryCount:     ctx.sampler.Count(),
		GeometryUnavailable: ctx.geometryUnavailable,
	}
}

// finalStats 生成结束统计
// 说明：携带全量分段记录、下采样后的轨迹与异常事件日志
func (ctx *Context) finalStats() *stats.FinalStats {
	rt := ctx.vehicleManager.Runtime()
	return &stats.FinalStats{
		Progress:            ctx.progress(),
		TotalAnomalies:      rt.TotalAnomalies,
		TotalLaneChanges:    rt.TotalLaneChanges,
		AvgTravelTime:       ctx.vehicleManager.AvgTravelTime(),
		GeometryUnavailable: ctx.geometryUnavailable,
		SegmentRecords:      ctx.aggregator.Records(),
		Trajectory:          ctx.sampler.Subsampled(),
		Events:              ctx.events.Events(),
	}
}
