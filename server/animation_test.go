package server

import "testing"

func TestSequencerCompletesAfterExactAdvances(t *testing.T) {
	s := NewSequencer("punch-right", 20, 6, 3, false)

	for i := 0; i < 17; i++ {
		s.Advance()
	}
	if s.Done() {
		t.Fatalf("sequencer done after 17 advances, want done exactly at 18")
	}
	s.Advance()
	if !s.Done() {
		t.Fatalf("sequencer not done after 18 advances")
	}
	if got := s.Index(); got != 5 {
		t.Fatalf("index after completion = %d, want clamp to 5", got)
	}

	frame := s.CurrentFrame()
	if frame != 25 {
		t.Fatalf("CurrentFrame after completion = %d, want 25", frame)
	}
	for i := 0; i < 10; i++ {
		s.Advance()
	}
	if s.CurrentFrame() != frame {
		t.Fatalf("CurrentFrame changed after done: %d -> %d", frame, s.CurrentFrame())
	}
}

func TestSequencerPauseHoldsAdvances(t *testing.T) {
	s := NewSequencer("hurt-right", 32, 4, 3, false)

	s.Pause(5)
	for i := 0; i < 5; i++ {
		s.Advance()
	}
	if s.Index() != 0 || s.subTick != 0 {
		t.Fatalf("paused advances mutated state: index=%d subTick=%d", s.Index(), s.subTick)
	}

	// 第 6 次 Advance 等价于第一个真实 Tick
	s.Advance()
	if s.Index() != 0 || s.subTick != 1 {
		t.Fatalf("first real advance after pause: index=%d subTick=%d, want 0/1", s.Index(), s.subTick)
	}
}

func TestSequencerLoopFiresHooksOnEveryArrival(t *testing.T) {
	s := NewSequencer("walk-right", 8, 3, 2, true)
	arrivals := map[int]int{}
	s.OnIndex(0, func() { arrivals[0]++ })
	s.OnIndex(2, func() { arrivals[2]++ })

	// 两整圈：每圈 3 帧 × 2 Tick
	for i := 0; i < 12; i++ {
		s.Advance()
	}
	if arrivals[2] != 2 {
		t.Fatalf("index 2 hook fired %d times, want 2", arrivals[2])
	}
	// 索引 0 只通过回绕到达（初始位置不算到达）
	if arrivals[0] != 2 {
		t.Fatalf("index 0 hook fired %d times, want 2", arrivals[0])
	}
	if s.Done() {
		t.Fatalf("looping sequencer must never report done")
	}
}

func TestSequencerResetRestoresInitialState(t *testing.T) {
	s := NewSequencer("punch-left", 26, 6, 3, false)
	for i := 0; i < 18; i++ {
		s.Advance()
	}
	s.Pause(3)
	s.Reset()
	if s.Done() || s.Index() != 0 || s.subTick != 0 || s.pauseTicks != 0 {
		t.Fatalf("reset left residual state: done=%v index=%d subTick=%d pause=%d",
			s.Done(), s.Index(), s.subTick, s.pauseTicks)
	}

	// 复位后可以重新完整播放
	for i := 0; i < 18; i++ {
		s.Advance()
	}
	if !s.Done() {
		t.Fatalf("sequencer not done after full replay post-reset")
	}
}
