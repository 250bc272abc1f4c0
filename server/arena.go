package server

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"
)

// Tuning 可热更的战斗参数（/admin/config）
type Tuning struct {
	SpeedX       float64 `json:"speedX"`       // 水平速度（单位/Tick）
	SpeedY       float64 `json:"speedY"`       // 垂直速度（单位/Tick）
	Damage       int     `json:"damage"`       // 单次命中伤害
	HitstopTicks int     `json:"hitstopTicks"` // 命中顿帧 Tick 数
}

func defaultTuning() Tuning {
	return Tuning{SpeedX: 6, SpeedY: 4, Damage: 10, HitstopTicks: 5}
}

// Arena 竞技场世界：权威状态维护在内存，单线程 Tick 推进。
// 会话集合与实体集合只在 Tick 线程触碰；外部一律通过事件通道进入。
type Arena struct {
	ID string

	sessions map[SessionID]*ClientConn // 已连接会话（可能还没有实体）
	players  map[SessionID]*Player     // 会话 → 实体，一个会话至多一个实体

	events chan sessionEvent // 所有入站会话事件的唯一入口

	mu     sync.Mutex // 仅保护 tuning（admin 协程热更新）
	tuning Tuning

	rng     *rand.Rand
	metrics *ArenaMetrics
	tickSeq int64

	tickerStarted bool
}

// NewArena 创建竞技场，初始化数据结构
func NewArena(id string) *Arena {
	return &Arena{
		ID:       id,
		sessions: make(map[SessionID]*ClientConn),
		players:  make(map[SessionID]*Player),
		events:   make(chan sessionEvent, 512), // 足够缓冲，避免网络读阻塞影响 Tick
		tuning:   defaultTuning(),
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		metrics:  &ArenaMetrics{},
	}
}

// Connect 注册会话；实体延迟到 join-game 才创建（此时还不是玩家）
func (a *Arena) Connect(sid SessionID, conn *ClientConn) {
	a.enqueue(sessionEvent{kind: evConnect, sid: sid, conn: conn}, true)
}

// Join 创建实体或更新名字；死亡状态下重新加入视为重生
func (a *Arena) Join(sid SessionID, name string) {
	a.enqueue(sessionEvent{kind: evJoin, sid: sid, name: name}, true)
}

// KeyPress 记录按键意图，下一 Tick 生效
func (a *Arena) KeyPress(sid SessionID, key string, pressed bool) {
	a.enqueue(sessionEvent{kind: evKey, sid: sid, key: key, pressed: pressed}, false)
}

// RespawnRequest 显式重生请求
func (a *Arena) RespawnRequest(sid SessionID) {
	a.enqueue(sessionEvent{kind: evRespawn, sid: sid}, true)
}

// Leave 移除实体但保留会话（玩家回大厅，稍后可重新加入）
func (a *Arena) Leave(sid SessionID) {
	a.enqueue(sessionEvent{kind: evLeave, sid: sid}, true)
}

// Disconnect 连接断开：实体与会话一并移除
func (a *Arena) Disconnect(sid SessionID) {
	a.enqueue(sessionEvent{kind: evDisconnect, sid: sid}, true)
}

// enqueue 生命周期事件阻塞写保证必达；按键事件非阻塞，拥塞时丢弃保 Tick 准时
func (a *Arena) enqueue(ev sessionEvent, mustDeliver bool) {
	if mustDeliver {
		a.events <- ev
		a.metrics.IncAccepted()
		return
	}
	select {
	case a.events <- ev:
		a.metrics.IncAccepted()
	default:
		a.metrics.IncChanFullDiscarded()
	}
}

// Tunables 返回当前参数副本（Tick 内只读取一次）
func (a *Arena) Tunables() Tuning {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.tuning
}

// UpdateTuning 在锁内修改参数（admin 热更新入口）
func (a *Arena) UpdateTuning(fn func(*Tuning)) Tuning {
	a.mu.Lock()
	defer a.mu.Unlock()
	fn(&a.tuning)
	return a.tuning
}

// TickSeq 已推进的模拟步数
func (a *Arena) TickSeq() int64 {
	return atomic.LoadInt64(&a.tickSeq)
}

// step 推进一个模拟步：事件 → 实体更新 → 命中结算 → 快照广播
func (a *Arena) step() {
	a.drainEvents()
	t := a.Tunables()

	// 第一阶段：推进所有存活实体，收集到达判定帧的出拳。
	// 死亡实体保留在集合里（快照仍要包含），但不再更新。
	type pendingHit struct {
		attacker *Player
		target   *Player
	}
	var hits []pendingHit
	for _, p := range a.players {
		if !p.Alive() {
			continue
		}
		if !p.Update(t) {
			continue
		}
		for _, other := range a.players {
			if other == p || !other.Alive() {
				continue
			}
			if Overlaps(p.X, p.Y, p.HitBox(), other.X, other.Y, other.HurtBox()) {
				hits = append(hits, pendingHit{attacker: p, target: other})
			}
		}
	}

	// 第二阶段：更新全部结束后统一结算，结果与遍历顺序无关，
	// 对所有实体从下一 Tick 起可见。
	for _, h := range hits {
		if !h.target.Alive() {
			continue // 同一 Tick 内已被别人击倒
		}
		h.attacker.PauseAnim(t.HitstopTicks)
		a.metrics.IncHit()
		if h.target.TakeHit(t.Damage, t.HitstopTicks) {
			a.metrics.IncDeath()
			a.notifyDeath(h.target, h.attacker)
			Log.Infof("player eliminated: arena=%s victim=%s killer=%s", a.ID, h.target.Name, h.attacker.Name)
		}
	}

	a.broadcast()
	atomic.AddInt64(&a.tickSeq, 1)
}

// drainEvents 非阻塞排空事件通道（连接/加入/按键/重生/离开/断开）
func (a *Arena) drainEvents() {
	for {
		select {
		case ev := <-a.events:
			a.apply(ev)
		default:
			return
		}
	}
}

func (a *Arena) apply(ev sessionEvent) {
	switch ev.kind {
	case evConnect:
		a.sessions[ev.sid] = ev.conn
	case evJoin:
		if _, connected := a.sessions[ev.sid]; !connected {
			return // 无会话的事件忽略（断开竞态）
		}
		p, ok := a.players[ev.sid]
		if !ok {
			p = NewPlayer(ev.sid, ev.name)
			p.Respawn(a.rng)
			a.players[ev.sid] = p
			Log.Infof("player joined: arena=%s sid=%s name=%s", a.ID, ev.sid, ev.name)
			return
		}
		p.Name = ev.name
		if !p.Alive() {
			p.Respawn(a.rng)
		}
	case evKey:
		p, ok := a.players[ev.sid]
		if !ok || !p.Alive() {
			return // 死亡实体忽略输入
		}
		p.Keys.Set(ev.key, ev.pressed)
	case evRespawn:
		if p, ok := a.players[ev.sid]; ok {
			p.Respawn(a.rng)
		}
	case evLeave:
		delete(a.players, ev.sid)
	case evDisconnect:
		delete(a.players, ev.sid)
		if conn, ok := a.sessions[ev.sid]; ok && conn != nil {
			// 关闭发送队列以结束该会话的写协程
			conn.Close()
		}
		delete(a.sessions, ev.sid)
	}
}

// notifyDeath 死亡通知只发给被淘汰者本人的会话
func (a *Arena) notifyDeath(victim, killer *Player) {
	conn, ok := a.sessions[victim.ID]
	if !ok || conn == nil {
		return
	}
	msg := PlayerDeath{
		Type:     MsgPlayerDeath,
		Message:  fmt.Sprintf("You were eliminated by %s", killer.Name),
		KilledBy: killer.Name,
	}
	b, err := json.Marshal(msg)
	if err != nil {
		return
	}
	conn.Enqueue(b)
}

// broadcast 将全部实体（含死亡未重生者）序列化为一帧快照发给所有会话
func (a *Arena) broadcast() {
	players := make([]PlayerSnapshot, 0, len(a.players))
	for _, p := range a.players {
		players = append(players, p.Snapshot())
	}
	payload := GameStatus{
		Type:         MsgGameStatus,
		Players:      players,
		TotalPlayers: len(players),
		Timestamp:    time.Now().UnixMilli(),
	}
	b, err := json.Marshal(payload)
	if err != nil {
		Log.Errorf("marshal snapshot: %v", err)
		return
	}
	for _, c := range a.sessions {
		if c != nil {
			c.Enqueue(b)
		}
	}
	a.metrics.IncBroadcast()
}
