package road

import (
	"errors"
	"fmt"

	"git.fiblab.net/general/common/v2/geometry"
)

// ErrInvalidGeometry 道路几何非法错误
// 说明：节点数不足或存在零长度线段时返回，
// 调用方捕获该错误后应退化为全直线道路而不是崩溃
var ErrInvalidGeometry = errors.New("road: invalid geometry")

// Node 道路几何节点
// 功能：描述道路折线上的一个顶点，可选携带圆角半径
// 说明：坐标单位为编辑器单位，乘以缩放系数后转换为米；
// Fillet为该顶点处的转弯圆角半径，非正值或缺失表示直线连接
type Node struct {
	X      float64 `yaml:"x"`                // 横坐标（编辑器单位）
	Y      float64 `yaml:"y"`                // 纵坐标（编辑器单位）
	Fillet float64 `yaml:"fillet,omitempty"` // 顶点圆角半径（编辑器单位）
}

// Point 转换为几何点
func (n Node) Point() geometry.Point {
	return geometry.Point{X: n.X, Y: n.Y}
}

// Geometry 道路几何描述
// 功能：外部道路编辑器生成的有序节点序列与缩放系数
// 说明：对模拟核心而言是不可变输入，运行开始时传入一次
type Geometry struct {
	Scale float64 `yaml:"scale"` // 编辑器单位到米的缩放系数
	Nodes []Node  `yaml:"nodes"` // 有序节点列表
}

// Validate 校验几何合法性
// 功能：检查节点数量、缩放系数与线段长度
// 返回：非法时返回包装了ErrInvalidGeometry的错误
func (g *Geometry) Validate() error {
	if len(g.Nodes) < 2 {
		return fmt.Errorf("%w: need at least 2 nodes, got %d", ErrInvalidGeometry, len(g.Nodes))
	}
	if g.Scale <= 0 {
		return fmt.Errorf("%w: scale must be positive, got %v", ErrInvalidGeometry, g.Scale)
	}
	for i := 0; i+1 < len(g.Nodes); i++ {
		if g.Nodes[i].X == g.Nodes[i+1].X && g.Nodes[i].Y == g.Nodes[i+1].Y {
			return fmt.Errorf("%w: degenerate segment between node %d and %d", ErrInvalidGeometry, i, i+1)
		}
	}
	return nil
}
