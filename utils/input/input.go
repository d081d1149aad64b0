package input

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/tsinghua-fib-lab/roadsim-oss/entity/road"
	"github.com/tsinghua-fib-lab/roadsim-oss/utils/config"
	"gopkg.in/yaml.v2"
)

var log = logrus.WithField("module", "input")

// Input 输入数据
// 功能：存储仿真启动所需的所有输入数据
// 说明：加载只在运行开始时同步执行一次，模拟核心内部不做任何I/O
type Input struct {
	Config   config.Config  // 配置
	Geometry *road.Geometry // 道路几何，nil表示不可用（退化为全直线道路）
}

// Init 加载输入数据
// 功能：根据配置加载道路几何
// 参数：c-配置对象
// 返回：加载完成的输入数据指针
// 说明：几何文件缺失或非法不是致命错误，记录警告后以nil几何返回，
// 由任务层退化为全直线道路
func Init(c config.Config) *Input {
	res := &Input{Config: c}
	if c.Road.GeometryFile == "" {
		return res
	}
	geo, err := LoadGeometry(c.Road.GeometryFile, c.Road.Scale)
	if err != nil {
		log.Warnf("geometry unavailable, fall back to straight road: %v", err)
		return res
	}
	res.Geometry = geo
	return res
}

// LoadGeometry 从文件加载道路几何
// 参数：path-几何文件路径，fallbackScale-文件未指定时使用的缩放系数
// 返回：校验通过的几何描述
func LoadGeometry(path string, fallbackScale float64) (*road.Geometry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseGeometry(data, fallbackScale)
}

// ParseGeometry 解析道路几何
// 功能：解析YAML格式的几何描述并校验合法性
// 说明：采用严格模式解析，未知字段视为错误
func ParseGeometry(data []byte, fallbackScale float64) (*road.Geometry, error) {
	geo := &road.Geometry{}
	if err := yaml.UnmarshalStrict(data, geo); err != nil {
		return nil, err
	}
	if geo.Scale <= 0 {
		geo.Scale = fallbackScale
	}
	if geo.Scale <= 0 {
		geo.Scale = 1
	}
	if err := geo.Validate(); err != nil {
		return nil, err
	}
	return geo, nil
}
