package task

import (
	"flag"
	"runtime"
	"time"
)

var (
	heartBeatInterval = flag.Int("log.heartbeat_interval", 100, "心跳日志间隔步数")
)

// 批次节奏参数
const (
	ticksPerBatch        = 5                      // 每批次物理步数
	normalBatchInterval  = 100 * time.Millisecond // 普通模式的批次墙钟间隔
	turboBatchesPerRound = 20                     // 极速模式每轮连续执行的批次数
)

// RunState 运行状态
type RunState int32

const (
	StateIdle     RunState = iota // 未启动
	StateRunning                  // 运行中
	StatePaused                   // 暂停
	StateComplete                 // 已结束（终态）
)

// String 获取运行状态的字符串表示
func (s RunState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	case StateComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// command 外部控制指令
type command int

const (
	cmdPause command = iota
	cmdResume
	cmdStop
)

// State 获取当前运行状态
func (ctx *Context) State() RunState {
	return RunState(ctx.state.Load())
}

// Pause 请求暂停
// 说明：在下一个批次边界生效
func (ctx *Context) Pause() {
	ctx.send(cmdPause)
}

// Resume 请求恢复
func (ctx *Context) Resume() {
	ctx.send(cmdResume)
}

// Stop 请求停止
// 功能：提前结束运行，结束统计携带截至当前的全部数据
func (ctx *Context) Stop() {
	ctx.send(cmdStop)
}

func (ctx *Context) send(cmd command) {
	select {
	case ctx.commands <- cmd:
	default:
		log.Warnf("command channel full, %d dropped", cmd)
	}
}

// Run 运行模拟主循环
// 参数：turbo-是否启用极速模式
// 算法说明：
// 1. 普通模式：每100毫秒墙钟时间执行一个批次（5个物理步），
// 批次结束后推送一次完整快照
// 2. 极速模式：连续执行20个批次后推送一次快照并让出调度器，
// 限制单次占用时长的同时最大化吞吐
// 3. 控制指令只在批次边界被处理；两种节奏下同一模拟时刻的物理结果一致
// 4. 发车时刻表耗尽且无在途车辆时正常结束；
// 到达2倍最大模拟时长时强制结束，避免死锁场景下无限运行
func (ctx *Context) Run(turbo bool) {
	if !ctx.state.CompareAndSwap(int32(StateIdle), int32(StateRunning)) {
		log.Panicf("run from state %v", ctx.State())
	}
	log.Infof("run starts: %d vehicles, %d lanes, %.0fm road, turbo=%v",
		ctx.runtimeConfig.All.Vehicle.Total, ctx.runtimeConfig.All.Road.Lanes,
		ctx.runtimeConfig.All.Road.Length, turbo)

	batchesPerRound := 1
	var ticker *time.Ticker
	if turbo {
		batchesPerRound = turboBatchesPerRound
	} else {
		ticker = time.NewTicker(normalBatchInterval)
		defer ticker.Stop()
	}

	for ctx.State() != StateComplete {
		if ticker != nil {
			<-ticker.C
		} else {
			runtime.Gosched()
		}
		if ctx.handleCommands() {
			break
		}
		for b := 0; b < batchesPerRound && ctx.State() == StateRunning; b++ {
			ctx.runBatch()
		}
		ctx.emitSnapshot()
	}
	ctx.complete()
}

// handleCommands 处理批次边界的外部控制指令
// 返回：是否收到停止指令
// 说明：暂停期间阻塞在指令通道上，直至恢复或停止
func (ctx *Context) handleCommands() bool {
	for {
		select {
		case cmd := <-ctx.commands:
			switch cmd {
			case cmdStop:
				return true
			case cmdPause:
				if !ctx.state.CompareAndSwap(int32(StateRunning), int32(StatePaused)) {
					continue
				}
				log.Infof("paused at %s", ctx.clock)
				for ctx.State() == StatePaused {
					switch <-ctx.commands {
					case cmdResume:
						ctx.state.Store(int32(StateRunning))
						log.Infof("resumed at %s", ctx.clock)
					case cmdStop:
						return true
					case cmdPause:
					}
				}
			case cmdResume:
				// 未暂停时忽略
			}
		default:
			return false
		}
	}
}

// runBatch 执行一个批次的物理步
func (ctx *Context) runBatch() {
	for i := 0; i < ticksPerBatch && ctx.State() == StateRunning; i++ {
		ctx.step()
	}
}

// step 执行一个物理步
// 算法说明：
// 1. 时钟前进一步
// 2. 车辆管理器更新（投放、逐车更新、行程结束处理）
// 3. 车道管理器恢复链表有序性
// 4. 到期的分段聚合与轨迹采样
// 5. 结束条件检查
func (ctx *Context) step() {
	ctx.clock.Tick()

	if ctx.clock.InternalStep%int32(*heartBeatInterval) == 0 {
		hour, minute, second := ctx.clock.GetHourMinuteSecond()
		log.Infof(
			"STEP: %d(%d:%d:%.2f) active=%d completed=%d",
			ctx.clock.InternalStep,
			hour, minute, second,
			ctx.vehicleManager.ActiveCount(),
			ctx.vehicleManager.CompletedCount(),
		)
	}

	ctx.vehicleManager.Update(ctx.clock.DT)
	ctx.laneManager.Prepare()

	t := ctx.clock.T
	aggDue, trajDue := ctx.aggregator.Due(t), ctx.sampler.Due(t)
	if aggDue || trajDue {
		states := ctx.vehicleManager.States()
		if aggDue {
			ctx.aggregator.Sample(t, states)
		}
		if trajDue {
			ctx.sampler.Sample(t, states)
		}
	}

	if ctx.completed() {
		ctx.state.Store(int32(StateComplete))
	}
}

// completed 结束条件检查
// 说明：发车时刻表耗尽且无在途车辆时正常结束；
// 到达强制结束时刻时无条件结束
func (ctx *Context) completed() bool {
	if ctx.vehicleManager.ScheduleExhausted() && ctx.vehicleManager.ActiveCount() == 0 {
		return true
	}
	return ctx.clock.T >= ctx.clock.HardLimit()
}

// emitSnapshot 推送周期快照
func (ctx *Context) emitSnapshot() {
	ctx.observer.OnSnapshot(ctx.snapshot())
}

// complete 结束运行并推送完整统计
// 说明：只执行一次，之后状态固定为终态
func (ctx *Context) complete() {
	if ctx.finalized {
		return
	}
	ctx.finalized = true
	ctx.state.Store(int32(StateComplete))

	rt := ctx.vehicleManager.Runtime()
	log.Infof("run complete at %s: %d trips finished, %d anomalies, %d lane changes",
		ctx.clock, rt.NumCompletedTrips, rt.TotalAnomalies, rt.TotalLaneChanges)
	ctx.observer.OnComplete(ctx.finalStats())
}
