package server

// Box 轴对齐碰撞盒：尺寸 + 相对世界坐标的偏移
type Box struct {
	W    float64
	H    float64
	OffX float64
	OffY float64
}

// Overlaps 判断两个盒子在各自世界坐标下是否重叠。
// 开区间判定：仅共享边不算碰撞，避免像素边界上重复判定。
func Overlaps(ax, ay float64, a Box, bx, by float64, b Box) bool {
	aLeft := ax + a.OffX
	aTop := ay + a.OffY
	bLeft := bx + b.OffX
	bTop := by + b.OffY
	return aLeft < bLeft+b.W && bLeft < aLeft+a.W &&
		aTop < bTop+b.H && bTop < aTop+a.H
}
