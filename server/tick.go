package server

import "time"

const (
	// TicksPerSecond 世界推进频率（60 TPS）
	TicksPerSecond = 60
)

var tickInterval = time.Second / TicksPerSecond

// StartTicker 启动竞技场的 Tick 循环（单线程推进世界）。
// 用真实时间累积驱动：只有攒满完整帧间隔才推进一步，
// 容忍定时器抖动而不漂移、不重步。
func (a *Arena) StartTicker() {
	if a.tickerStarted {
		return
	}
	a.tickerStarted = true
	go func() {
		ticker := time.NewTicker(tickInterval)
		defer ticker.Stop()
		last := time.Now()
		var acc time.Duration
		for range ticker.C {
			now := time.Now()
			acc += now.Sub(last)
			last = now
			steps, rem := framesElapsed(acc, tickInterval)
			acc = rem
			for i := 0; i < steps; i++ {
				start := time.Now()
				a.step()
				a.metrics.AddTick(time.Since(start).Nanoseconds())
			}
		}
	}()
}

// framesElapsed 计算累积时间内应推进的步数。
// 上限 5 步：长时间停顿（调试断点、系统挂起）后丢弃积压，避免追帧风暴。
func framesElapsed(acc, frame time.Duration) (int, time.Duration) {
	if frame <= 0 {
		return 0, 0
	}
	steps := int(acc / frame)
	rem := acc % frame
	const maxCatchUp = 5
	if steps > maxCatchUp {
		steps = maxCatchUp
		rem = 0
	}
	return steps, rem
}
