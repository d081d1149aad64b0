package clock

import (
	"fmt"

	"github.com/tsinghua-fib-lab/roadsim-oss/utils/config"
)

// Clock 仿真时钟
// 功能：管理仿真系统的时间推进
// 说明：维护当前仿真时间与步数；批次节奏（普通/极速）由任务层控制，
// 时钟只负责逐步推进，保证两种节奏下同一模拟时刻的物理结果一致
type Clock struct {
	DT      float64 // 每个物理步的时间间隔（秒）
	MaxTime float64 // 配置的最大模拟时长（秒）

	T            float64 // 当前时间（秒）
	InternalStep int32   // 当前内部步数
}

// New 根据配置创建新的时钟实例
// 参数：stepConfig-控制步配置，包含时间间隔与最大模拟时长
// 返回：初始化完成的时钟实例
func New(stepConfig config.ControlStep) *Clock {
	c := &Clock{
		DT:      stepConfig.Interval,
		MaxTime: stepConfig.MaxTime,
	}
	c.Init()
	return c
}

// Init 初始化时钟状态
// 说明：重置步数为0，重新计算当前时间
func (c *Clock) Init() {
	c.InternalStep = 0
	c.T = 0
}

// Tick 推进一个物理步
func (c *Clock) Tick() {
	c.InternalStep++
	c.T = float64(c.InternalStep) * c.DT
}

// HardLimit 获取强制结束时刻
// 功能：返回2倍最大模拟时长，用于限制死锁场景下的运行时间
func (c *Clock) HardLimit() float64 {
	return 2 * c.MaxTime
}

// String 获取时钟的字符串表示
// 返回：格式化的时间字符串（HH:MM:SS）
func (c *Clock) String() string {
	t := c.T
	h := int(t / 3600)
	t -= float64(h * 3600)
	m := int(t / 60)
	t -= float64(m * 60)
	s := int(t)
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// GetHourMinuteSecond 获取当前时间的小时、分钟、秒
// 返回：小时、分钟、秒（秒为浮点数，支持亚秒级精度）
func (c *Clock) GetHourMinuteSecond() (int, int, float64) {
	hour := int(c.T) / 3600
	minute := int(c.T) % 3600 / 60
	second := c.T - float64(hour*3600+minute*60)
	return hour, minute, second
}
