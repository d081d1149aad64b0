// 随机数引擎，包装了golang.org/x/exp/rand，提供仿真所需的随机数生成方法
package randengine

import (
	"flag"
	"log"

	"golang.org/x/exp/rand"
)

var (
	seedOffset = flag.Uint64("rand.seed_offset", 0, "seed offset") // 种子偏移量，用于调整随机数生成
)

// Engine 随机数引擎
// 功能：提供确定性的随机数生成功能，支持多种分布
// 说明：基于golang.org/x/exp/rand库。模拟核心为单线程模型，
// 同一种子下生成序列完全可复现
type Engine struct {
	*rand.Rand // 底层随机数生成器
}

// New 创建随机数引擎
// 功能：初始化一个新的随机数引擎实例
// 参数：seed-随机数种子
// 返回：随机数引擎指针
// 说明：种子偏移量允许在不修改代码的情况下调整随机数序列
func New(seed uint64) *Engine {
	return &Engine{Rand: rand.New(rand.NewSource(seed + *seedOffset))}
}

// DiscreteDistribution 按给定概率分布生成随机数
// 功能：根据权重数组生成离散分布的随机数
// 参数：weight-权重数组，每个元素表示对应索引的概率权重
// 返回：随机生成的索引值（0到len(weight)-1）
// 算法说明：
// 1. 计算总权重并在[0, 总权重)范围内生成随机数
// 2. 累积概率直到超过随机数，返回对应索引
// 3. 如果算法异常则panic
func (e *Engine) DiscreteDistribution(weight []float64) int32 {
	random := .0
	for _, w := range weight {
		random += w
	}
	random *= e.Float64()
	sum := 0.
	for i, w := range weight {
		sum += w
		if sum > random {
			return int32(i)
		}
	}
	log.Panicf("randengine: DiscreteDistribution: sum: %f random: %f", sum, random)
	return -1
}

// PTrue 以指定概率返回true
// 功能：根据给定概率返回布尔值，实现伯努利分布
// 参数：p-返回true的概率（0.0到1.0之间）
// 返回：true或false
func (e *Engine) PTrue(p float64) bool {
	return e.Float64() < p
}

// UniformFloat64 在[lo, hi)范围内生成均匀分布的随机浮点数
// 功能：从区间中均匀采样，用于驾驶风格参数与到达时间抖动
// 参数：lo-区间下界，hi-区间上界
// 返回：采样得到的随机数
func (e *Engine) UniformFloat64(lo, hi float64) float64 {
	return lo + (hi-lo)*e.Float64()
}
