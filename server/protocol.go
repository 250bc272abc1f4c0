package server

// 出站消息类型
const (
	MsgGameStatus  = "game-status"
	MsgPlayerDeath = "player-death"
)

// Position 2D 世界坐标
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// AnimState 当前动画片段与精灵表绝对帧号
type AnimState struct {
	Name  string `json:"name"`
	Index int    `json:"index"`
}

// PlayerSnapshot 为广播给客户端的单个玩家状态
type PlayerSnapshot struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Health      int       `json:"health"`
	Position    Position  `json:"position"`
	FacingRight bool      `json:"facingRight"`
	Color       string    `json:"color"`
	Animation   AnimState `json:"animation"`
}

// GameStatus 每 Tick 广播给所有会话的世界快照
type GameStatus struct {
	Type         string           `json:"type"`
	Players      []PlayerSnapshot `json:"players"`
	TotalPlayers int              `json:"totalPlayers"`
	Timestamp    int64            `json:"timestamp"` // epoch 毫秒
}

// PlayerDeath 仅发给被淘汰会话本人的通知（不广播）
type PlayerDeath struct {
	Type     string `json:"type"`
	Message  string `json:"message"`
	KilledBy string `json:"killedBy,omitempty"`
}
