package server

// 逻辑键名：与客户端约定的五个意图键，其余键一律忽略
const (
	KeyUp     = "UP"
	KeyDown   = "DOWN"
	KeyLeft   = "LEFT"
	KeyRight  = "RIGHT"
	KeyAttack = "ATTACK"
)

// 入站消息类型（WebSocket 文本 JSON 的 type 字段）
const (
	MsgJoinGame  = "join-game"
	MsgKeyPress  = "key-press"
	MsgRespawn   = "respawn"
	MsgLeaveGame = "leave-game"
)

// ClientMessage 客户端入站消息的统一信封
// 示例：{"type":"key-press","key":"LEFT","pressed":true}
type ClientMessage struct {
	Type     string `json:"type"`
	Username string `json:"username,omitempty"`
	Key      string `json:"key,omitempty"`
	Pressed  bool   `json:"pressed,omitempty"`
}

// eventKind 会话事件种类：全部经由竞技场事件通道，在 Tick 线程统一处理
type eventKind int

const (
	evConnect eventKind = iota
	evJoin
	evKey
	evRespawn
	evLeave
	evDisconnect
)

// sessionEvent 入站会话事件（连接、加入、按键、重生、离开、断开）
type sessionEvent struct {
	kind    eventKind
	sid     SessionID
	conn    *ClientConn // 仅 evConnect 携带
	name    string      // 仅 evJoin 携带
	key     string      // 仅 evKey 携带
	pressed bool        // 仅 evKey 携带
}
