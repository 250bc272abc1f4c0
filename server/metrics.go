package server

import (
	"sync/atomic"
)

// ArenaMetrics 记录竞技场运行期的关键指标（用于监控与调试）
type ArenaMetrics struct {
	TickCount         int64 // 统计的 Tick 次数
	EventsAccepted    int64 // 被接受的会话事件数
	ChanFullDiscarded int64 // 因通道满被丢弃的按键事件数
	HitsLanded        int64 // 命中次数
	Deaths            int64 // 淘汰次数
	Broadcasts        int64 // 已广播的快照帧数
	TotalTickNs       int64 // Tick 累计耗时（纳秒）
}

func (m *ArenaMetrics) IncAccepted()          { atomic.AddInt64(&m.EventsAccepted, 1) }
func (m *ArenaMetrics) IncChanFullDiscarded() { atomic.AddInt64(&m.ChanFullDiscarded, 1) }
func (m *ArenaMetrics) IncHit()               { atomic.AddInt64(&m.HitsLanded, 1) }
func (m *ArenaMetrics) IncDeath()             { atomic.AddInt64(&m.Deaths, 1) }
func (m *ArenaMetrics) IncBroadcast()         { atomic.AddInt64(&m.Broadcasts, 1) }
func (m *ArenaMetrics) AddTick(ns int64) {
	atomic.AddInt64(&m.TickCount, 1)
	atomic.AddInt64(&m.TotalTickNs, ns)
}

// Snapshot 返回只读副本，便于 HTTP 输出
func (m *ArenaMetrics) Snapshot() map[string]any {
	tick := atomic.LoadInt64(&m.TickCount)
	total := atomic.LoadInt64(&m.TotalTickNs)
	var avgMs float64
	if tick > 0 {
		avgMs = float64(total) / float64(tick) / 1e6
	}
	return map[string]any{
		"tick_count":          tick,
		"events_accepted":     atomic.LoadInt64(&m.EventsAccepted),
		"chan_full_discarded": atomic.LoadInt64(&m.ChanFullDiscarded),
		"hits_landed":         atomic.LoadInt64(&m.HitsLanded),
		"deaths":              atomic.LoadInt64(&m.Deaths),
		"broadcasts":          atomic.LoadInt64(&m.Broadcasts),
		"avg_tick_ms":         avgMs,
	}
}
