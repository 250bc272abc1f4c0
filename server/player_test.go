package server

import (
	"math"
	"math/rand"
	"testing"
)

func newTestPlayer(id, name string) *Player {
	p := NewPlayer(SessionID(id), name)
	p.X = 400
	p.Y = 300
	return p
}

func TestDiagonalMovementScaled(t *testing.T) {
	p := newTestPlayer("p1", "alice")
	tun := defaultTuning()
	p.Keys.Right = true
	p.Keys.Down = true

	p.Update(tun)

	wantDX := tun.SpeedX * diagonalScale
	wantDY := tun.SpeedY * diagonalScale
	if math.Abs(p.X-400-wantDX) > 1e-9 {
		t.Fatalf("diagonal dx = %f, want %f", p.X-400, wantDX)
	}
	if math.Abs(p.Y-300-wantDY) > 1e-9 {
		t.Fatalf("diagonal dy = %f, want %f", p.Y-300, wantDY)
	}

	// 单轴对照：不缩放
	p2 := newTestPlayer("p2", "bob")
	p2.Keys.Right = true
	p2.Update(tun)
	if math.Abs(p2.X-400-tun.SpeedX) > 1e-9 {
		t.Fatalf("axis dx = %f, want %f", p2.X-400, tun.SpeedX)
	}
}

func TestPositionClampedToArena(t *testing.T) {
	tun := defaultTuning()

	p := newTestPlayer("p1", "alice")
	p.X = ArenaWidth - 1
	p.Keys.Right = true
	for i := 0; i < 5; i++ {
		p.Update(tun)
	}
	if p.X != ArenaWidth {
		t.Fatalf("x = %f, want clamp to %f", p.X, ArenaWidth)
	}

	p.Keys.Clear()
	p.Keys.Up = true
	p.Y = 2
	for i := 0; i < 5; i++ {
		p.Update(tun)
	}
	if p.Y != 0 {
		t.Fatalf("y = %f, want clamp to 0", p.Y)
	}
}

func TestFacingRightUnlessMovingLeft(t *testing.T) {
	p := newTestPlayer("p1", "alice")
	tun := defaultTuning()

	p.Keys.Left = true
	p.Update(tun)
	if p.FacingRight {
		t.Fatalf("expected facing left while moving left")
	}
	if p.current != ClipWalkLeft {
		t.Fatalf("clip = %s, want %s", p.current, ClipWalkLeft)
	}

	p.Keys.Clear()
	p.Update(tun)
	if !p.FacingRight {
		t.Fatalf("expected facing right when not moving left")
	}
	if p.current != ClipIdleRight {
		t.Fatalf("clip = %s, want %s", p.current, ClipIdleRight)
	}
}

func TestAttackKeyCommitsToPunch(t *testing.T) {
	p := newTestPlayer("p1", "alice")
	tun := defaultTuning()
	p.Keys.Attack = true
	p.Update(tun)
	if p.Action != ActionPunch {
		t.Fatalf("action = %v, want ActionPunch", p.Action)
	}
	if p.current != ClipPunchRight {
		t.Fatalf("clip = %s, want %s", p.current, ClipPunchRight)
	}

	// 出拳期间移动键无效
	p.Keys.Right = true
	x := p.X
	p.Update(tun)
	if p.X != x {
		t.Fatalf("player moved while punching: %f -> %f", x, p.X)
	}
}

func TestPunchTriggerFiresOnceMidClip(t *testing.T) {
	p := newTestPlayer("p1", "alice")
	tun := defaultTuning()
	p.Keys.Attack = true

	fired := 0
	firstTick := 0
	for i := 1; i <= 19; i++ {
		if p.Update(tun) {
			fired++
			if firstTick == 0 {
				firstTick = i
			}
		}
	}
	if fired != 1 {
		t.Fatalf("punch trigger fired %d times in one clip, want 1", fired)
	}
	// 第 1 Tick 转入出拳，随后 ticksPer(3) × 索引(3) = 9 次推进到达判定帧
	if firstTick != 10 {
		t.Fatalf("punch trigger on tick %d, want 10", firstTick)
	}
}

func TestHealthNeverNegative(t *testing.T) {
	p := newTestPlayer("p1", "alice")
	for i := 0; i < 15; i++ {
		p.TakeHit(10, 5)
	}
	if p.Health != 0 {
		t.Fatalf("health = %d, want 0 (never negative)", p.Health)
	}
}

func TestHurtResolvesToNone(t *testing.T) {
	p := newTestPlayer("p1", "alice")
	tun := defaultTuning()
	if died := p.TakeHit(tun.Damage, tun.HitstopTicks); died {
		t.Fatalf("unexpected death from a single hit at full health")
	}
	if p.Action != ActionHurt {
		t.Fatalf("action = %v, want ActionHurt", p.Action)
	}

	// 顿帧 5 + 受击片段 4 帧 × 3 Tick，30 Tick 内必然回到待机
	for i := 0; i < 30; i++ {
		p.Update(tun)
	}
	if p.Action != ActionNone {
		t.Fatalf("action after hurt clip = %v, want ActionNone", p.Action)
	}
}

func TestLethalHitEntersDeadState(t *testing.T) {
	p := newTestPlayer("p1", "alice")
	p.Health = 10
	p.Keys.Right = true

	if died := p.TakeHit(10, 5); !died {
		t.Fatalf("expected lethal hit to report death")
	}
	if p.Health != 0 {
		t.Fatalf("health = %d, want 0", p.Health)
	}
	if p.Action != ActionNone {
		t.Fatalf("dead action = %v, want ActionNone", p.Action)
	}
	if (p.Keys != KeySet{}) {
		t.Fatalf("dead player kept held keys: %+v", p.Keys)
	}
	if p.X >= 0 && p.X <= ArenaWidth && p.Y >= 0 && p.Y <= ArenaHeight {
		t.Fatalf("dead player still inside arena at (%f,%f)", p.X, p.Y)
	}

	// 死亡后继续挨打不再扣血也不再触发死亡
	if p.TakeHit(10, 5) {
		t.Fatalf("dead player reported death twice")
	}
}

func TestRespawnResetsState(t *testing.T) {
	p := newTestPlayer("p1", "alice")
	p.Health = 10
	p.TakeHit(10, 5)

	rng := rand.New(rand.NewSource(7))
	p.Respawn(rng)

	if p.Health != 100 {
		t.Fatalf("health after respawn = %d, want 100", p.Health)
	}
	if p.X < SpawnMinX || p.X > SpawnMaxX || p.Y < SpawnMinY || p.Y > SpawnMaxY {
		t.Fatalf("respawn position (%f,%f) outside spawn region", p.X, p.Y)
	}
	if !p.FacingRight || p.Action != ActionNone || p.current != ClipIdleRight {
		t.Fatalf("respawn state: facing=%v action=%v clip=%s", p.FacingRight, p.Action, p.current)
	}
}

func TestColorDeterministicPerID(t *testing.T) {
	a := newTestPlayer("session-a", "alice")
	b := newTestPlayer("session-b", "bob")
	if a.Color() != newTestPlayer("session-a", "other").Color() {
		t.Fatalf("color not stable for the same session id")
	}
	if a.Color() == b.Color() {
		t.Fatalf("expected different sessions to get different colors")
	}
}
