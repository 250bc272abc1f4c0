package server

// Sequencer 推进一个动画片段的帧索引（服务端权威时间线）。
// 战斗判定挂在具体帧索引上，而不是墙钟时间，保证命中时机确定。
type Sequencer struct {
	Clip string // 片段名，如 "punch-right"

	baseFrame     int  // 精灵表内的起始帧偏移
	frameCount    int  // 索引总数
	ticksPerFrame int  // 每个索引停留的 Tick 数
	loop          bool // 是否循环

	subTick    int // 当前索引内已消耗的 Tick
	index      int // 当前索引 [0, frameCount)
	done       bool
	pauseTicks int // 剩余暂停 Tick（顿帧效果）

	hooks map[int][]func() // 索引 → 到达该索引时触发的回调
}

// NewSequencer 构造一个片段序列器；实体创建时为每个可播放片段各建一个
func NewSequencer(clip string, baseFrame, frameCount, ticksPerFrame int, loop bool) *Sequencer {
	return &Sequencer{
		Clip:          clip,
		baseFrame:     baseFrame,
		frameCount:    frameCount,
		ticksPerFrame: ticksPerFrame,
		loop:          loop,
	}
}

// OnIndex 注册索引回调：每次到达该索引触发一次（循环再次到达会再触发）
func (s *Sequencer) OnIndex(index int, fn func()) {
	if s.hooks == nil {
		s.hooks = make(map[int][]func())
	}
	s.hooks[index] = append(s.hooks[index], fn)
}

// Advance 推进一个 Tick。
// 已结束则不动；暂停计数 >0 则本 Tick 被吞掉；到达新索引时触发其回调。
func (s *Sequencer) Advance() {
	if s.done {
		return
	}
	if s.pauseTicks > 0 {
		s.pauseTicks--
		return
	}
	s.subTick++
	if s.subTick < s.ticksPerFrame {
		return
	}
	s.subTick = 0
	s.index++
	if s.index >= s.frameCount {
		if !s.loop {
			// 非循环：夹在最后一帧，等待显式 Reset
			s.index = s.frameCount - 1
			s.done = true
			return
		}
		s.index = 0
	}
	for _, fn := range s.hooks[s.index] {
		fn()
	}
}

// Pause 设置暂停计数：接下来 n 次 Advance 不推进（顿帧）
func (s *Sequencer) Pause(n int) {
	s.pauseTicks = n
}

// Reset 回到初始状态：不重新分配，仅清计数器
func (s *Sequencer) Reset() {
	s.subTick = 0
	s.index = 0
	s.done = false
	s.pauseTicks = 0
}

// Done 报告非循环片段是否播放完毕
func (s *Sequencer) Done() bool {
	return s.done
}

// Index 返回当前索引（片段内）
func (s *Sequencer) Index() int {
	return s.index
}

// CurrentFrame 返回精灵表内的绝对帧号（起始偏移 + 当前索引）
func (s *Sequencer) CurrentFrame() int {
	return s.baseFrame + s.index
}
