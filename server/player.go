package server

import (
	"fmt"
	"hash/fnv"
	"math/rand"
)

// SessionID 表示会话唯一标识（连接生命周期内稳定，由服务端分配）
type SessionID string

// Action 动作状态：同一时刻恰好一个生效
type Action int

const (
	ActionNone  Action = iota // 待机/移动
	ActionHurt                // 受击硬直，播放受击片段
	ActionPunch               // 出拳，挥拳期间不可移动
)

// 场地与移动参数（服务端权威）
const (
	ArenaWidth  = 970.0
	ArenaHeight = 600.0

	// 重生区域：随机落点范围
	SpawnMinX = 100.0
	SpawnMaxX = 870.0
	SpawnMinY = 100.0
	SpawnMaxY = 500.0

	// 死亡后移出场外，等待显式重生请求
	deadX = -1000.0
	deadY = -1000.0

	// 对角移动缩放（1/√2），保证斜向速度不超过单轴速度
	diagonalScale = 0.7071
)

// 动画片段命名：kind-facing，精灵表偏移与节奏见 clipDefs
const (
	ClipIdleRight  = "idle-right"
	ClipIdleLeft   = "idle-left"
	ClipWalkRight  = "walk-right"
	ClipWalkLeft   = "walk-left"
	ClipPunchRight = "punch-right"
	ClipPunchLeft  = "punch-left"
	ClipHurtRight  = "hurt-right"
	ClipHurtLeft   = "hurt-left"
)

// PunchTriggerIndex 出拳判定帧：到达该索引才结算命中（与挥拳帧同步，而非按键瞬间）
const PunchTriggerIndex = 3

type clipDef struct {
	base     int
	frames   int
	ticksPer int
	loop     bool
}

var clipDefs = map[string]clipDef{
	ClipIdleRight:  {base: 0, frames: 4, ticksPer: 8, loop: true},
	ClipIdleLeft:   {base: 4, frames: 4, ticksPer: 8, loop: true},
	ClipWalkRight:  {base: 8, frames: 6, ticksPer: 4, loop: true},
	ClipWalkLeft:   {base: 14, frames: 6, ticksPer: 4, loop: true},
	ClipPunchRight: {base: 20, frames: 6, ticksPer: 3, loop: false},
	ClipPunchLeft:  {base: 26, frames: 6, ticksPer: 3, loop: false},
	ClipHurtRight:  {base: 32, frames: 4, ticksPer: 3, loop: false},
	ClipHurtLeft:   {base: 36, frames: 4, ticksPer: 3, loop: false},
}

// 受击盒：以实体位置为锚点，固定尺寸
var hurtBox = Box{W: 44, H: 70, OffX: -22, OffY: -35}

// 攻击盒：朝向相关的偏移
var (
	hitBoxRight = Box{W: 56, H: 40, OffX: 0, OffY: -20}
	hitBoxLeft  = Box{W: 56, H: 40, OffX: -56, OffY: -20}
)

// KeySet 当前按住的逻辑键：网络协程异步写入意图，Tick 线程同步读取
type KeySet struct {
	Up, Down, Left, Right, Attack bool
}

// Set 按键名设置/清除；未知键返回 false（调用方忽略即可）
func (k *KeySet) Set(key string, pressed bool) bool {
	switch key {
	case KeyUp:
		k.Up = pressed
	case KeyDown:
		k.Down = pressed
	case KeyLeft:
		k.Left = pressed
	case KeyRight:
		k.Right = pressed
	case KeyAttack:
		k.Attack = pressed
	default:
		return false
	}
	return true
}

// Clear 清空全部按键（死亡、重生时调用）
func (k *KeySet) Clear() {
	*k = KeySet{}
}

// Player 竞技场内的玩家实体（服务端权威状态）
type Player struct {
	ID   SessionID
	Name string

	X, Y        float64
	FacingRight bool
	Health      int // [0,100]；0 = 已淘汰但仍保留在场内

	Keys   KeySet
	Action Action

	clips   map[string]*Sequencer
	current string // 当前生效的片段名，任意时刻恰好一个

	punchFired bool // 本 Tick 出拳判定帧已到达，由序列器回调置位
}

// NewPlayer 创建实体并为所有片段各建一个序列器（此后只 Reset 不重建）。
// 位置由调用方通过 Respawn 决定。
func NewPlayer(id SessionID, name string) *Player {
	p := &Player{
		ID:          id,
		Name:        name,
		Health:      100,
		FacingRight: true,
		current:     ClipIdleRight,
	}
	p.clips = make(map[string]*Sequencer, len(clipDefs))
	for clip, d := range clipDefs {
		p.clips[clip] = NewSequencer(clip, d.base, d.frames, d.ticksPer, d.loop)
	}
	// 出拳判定帧事件：序列器只上报“到达索引”，命中结算由上层观察后执行
	hook := func() { p.punchFired = true }
	p.clips[ClipPunchRight].OnIndex(PunchTriggerIndex, hook)
	p.clips[ClipPunchLeft].OnIndex(PunchTriggerIndex, hook)
	return p
}

// Seq 返回当前生效的序列器
func (p *Player) Seq() *Sequencer {
	return p.clips[p.current]
}

// Alive 健康值 >0
func (p *Player) Alive() bool {
	return p.Health > 0
}

// Color 由会话 ID 确定性生成（仅供客户端着色，不参与逻辑）
func (p *Player) Color() string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(p.ID))
	return fmt.Sprintf("hsl(%d, 70%%, 45%%)", h.Sum32()%360)
}

// setClip 切换当前片段；换片段时重置新片段，相同片段不打断
func (p *Player) setClip(clip string) {
	if p.current == clip {
		return
	}
	p.current = clip
	p.clips[clip].Reset()
}

func clipFor(kind string, facingRight bool) string {
	if facingRight {
		return kind + "-right"
	}
	return kind + "-left"
}

// Update 推进一个 Tick：读输入 → 推进动画 → 按动作状态分派 → 场地裁剪。
// 返回值为真表示本 Tick 到达出拳判定帧，需要由协调器结算命中。
func (p *Player) Update(t Tuning) bool {
	p.punchFired = false
	p.Seq().Advance()

	switch p.Action {
	case ActionNone:
		var dx, dy float64
		if p.Keys.Left {
			dx -= t.SpeedX
		}
		if p.Keys.Right {
			dx += t.SpeedX
		}
		if p.Keys.Up {
			dy -= t.SpeedY
		}
		if p.Keys.Down {
			dy += t.SpeedY
		}
		if dx != 0 && dy != 0 {
			dx *= diagonalScale
			dy *= diagonalScale
		}
		p.X += dx
		p.Y += dy
		// 朝向：向左移动时朝左，否则朝右
		p.FacingRight = dx >= 0
		if dx != 0 || dy != 0 {
			p.setClip(clipFor("walk", p.FacingRight))
		} else {
			p.setClip(clipFor("idle", p.FacingRight))
		}
		if p.Keys.Attack {
			p.Action = ActionPunch
			p.setClip(clipFor("punch", p.FacingRight))
		}
	case ActionHurt, ActionPunch:
		// 受击/出拳播放完毕后回到待机；HURT 不允许直接接 ATTACK
		if p.Seq().Done() {
			p.Action = ActionNone
			p.setClip(clipFor("idle", p.FacingRight))
		}
	}

	p.clampToArena()
	return p.punchFired && p.Action == ActionPunch
}

func (p *Player) clampToArena() {
	// 死亡实体停在场外，不参与裁剪
	if !p.Alive() {
		return
	}
	if p.X < 0 {
		p.X = 0
	}
	if p.X > ArenaWidth {
		p.X = ArenaWidth
	}
	if p.Y < 0 {
		p.Y = 0
	}
	if p.Y > ArenaHeight {
		p.Y = ArenaHeight
	}
}

// HitBox 当前朝向的攻击盒
func (p *Player) HitBox() Box {
	if p.FacingRight {
		return hitBoxRight
	}
	return hitBoxLeft
}

// HurtBox 受击盒
func (p *Player) HurtBox() Box {
	return hurtBox
}

// TakeHit 结算一次被命中：转入受击状态并扣血。
// 返回值为真表示该次命中致死（健康值清零并进入死亡子状态）。
func (p *Player) TakeHit(damage, hitstopTicks int) bool {
	if !p.Alive() {
		return false
	}
	if p.Action != ActionHurt {
		p.Action = ActionHurt
		p.setClip(clipFor("hurt", p.FacingRight))
	}
	p.Health -= damage
	if p.Health <= 0 {
		p.Health = 0
		p.die()
		return true
	}
	// 顿帧：受击方动画停顿若干 Tick（攻击方由协调器同样暂停）
	p.Seq().Pause(hitstopTicks)
	return false
}

// PauseAnim 暂停当前片段 n 个 Tick（攻击命中时的顿帧）
func (p *Player) PauseAnim(n int) {
	p.Seq().Pause(n)
}

// die 进入死亡子状态：不销毁实体，清输入、移出场外，等待重生请求
func (p *Player) die() {
	p.Action = ActionNone
	p.Keys.Clear()
	p.X = deadX
	p.Y = deadY
	p.current = clipFor("idle", p.FacingRight)
	p.clips[p.current].Reset()
}

// Respawn 重生：满血、随机落点、面朝右、回到待机动画
func (p *Player) Respawn(rng *rand.Rand) {
	p.Health = 100
	p.X = SpawnMinX + rng.Float64()*(SpawnMaxX-SpawnMinX)
	p.Y = SpawnMinY + rng.Float64()*(SpawnMaxY-SpawnMinY)
	p.Action = ActionNone
	p.Keys.Clear()
	p.FacingRight = true
	p.current = ClipIdleRight
	p.clips[p.current].Reset()
}

// Snapshot 导出广播用的轻量状态
func (p *Player) Snapshot() PlayerSnapshot {
	return PlayerSnapshot{
		ID:          string(p.ID),
		Name:        p.Name,
		Health:      p.Health,
		Position:    Position{X: p.X, Y: p.Y},
		FacingRight: p.FacingRight,
		Color:       p.Color(),
		Animation:   AnimState{Name: p.current, Index: p.Seq().CurrentFrame()},
	}
}
