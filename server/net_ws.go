package server

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

// ClientConn 负责发送（写）数据到客户端的轻量包装
type ClientConn struct {
	ws   *websocket.Conn
	send chan []byte
}

func NewClientConn(ws *websocket.Conn) *ClientConn {
	return &ClientConn{
		ws:   ws,
		send: make(chan []byte, 64),
	}
}

// Enqueue 将要发送的消息压入队列（非阻塞，满则丢弃）
func (c *ClientConn) Enqueue(b []byte) {
	select {
	case c.send <- b:
	default:
		// 为了实时性，丢弃旧消息（防止阻塞 Tick）
	}
}

// Close 关闭底层连接与发送队列
func (c *ClientConn) Close() {
	if c.send != nil {
		// 关闭发送通道以结束写协程
		close(c.send)
		c.send = nil
	}
	if c.ws != nil {
		_ = c.ws.Close()
	}
}

// writePump 独立协程，负责从 send 队列写出到 WS
func (c *ClientConn) writePump() {
	defer c.ws.Close()
	for msg := range c.send {
		c.ws.SetWriteDeadline(time.Now().Add(5 * time.Second))
		if err := c.ws.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
}

// readPump 读取客户端消息并转成竞技场会话事件。
// 退出时（客户端断开）通知竞技场在 Tick 线程中移除该会话。
func (c *ClientConn) readPump(arena *Arena, sid SessionID) {
	defer c.ws.Close()
	defer arena.Disconnect(sid)
	c.ws.SetReadLimit(1 << 20) // 1MB
	c.ws.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.ws.SetPongHandler(func(string) error { c.ws.SetReadDeadline(time.Now().Add(60 * time.Second)); return nil })

	for {
		_, payload, err := c.ws.ReadMessage()
		if err != nil {
			return
		}
		var msg ClientMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			continue // 畸形消息：尽力而为，忽略不致命
		}
		switch msg.Type {
		case MsgJoinGame:
			arena.Join(sid, msg.Username)
		case MsgKeyPress:
			arena.KeyPress(sid, msg.Key, msg.Pressed)
		case MsgRespawn:
			arena.RespawnRequest(sid)
		case MsgLeaveGame:
			arena.Leave(sid)
		default:
			// 未知类型忽略
		}
	}
}

// newSessionID 服务端分配的不透明会话标识（连接生命周期内稳定）
func newSessionID() SessionID {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return SessionID(hex.EncodeToString([]byte(time.Now().String()))[:16])
	}
	return SessionID(hex.EncodeToString(b[:]))
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// 演示环境：允许所有来源（生产环境需严格限制）
		return true
	},
}

// HandleWS WebSocket 接入：?arena=arena-1，会话 ID 由服务端分配
func HandleWS(w http.ResponseWriter, r *http.Request) {
	arenaID := r.URL.Query().Get("arena")
	if arenaID == "" {
		arenaID = "arena-1"
	}

	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		Log.Warnf("upgrade error: %v", err)
		return
	}

	am := GetArenaManager()
	arena := am.GetOrCreateArena(arenaID)

	sid := newSessionID()
	client := NewClientConn(ws)
	// 只注册会话：实体要等 join-game 才创建（此时还不是玩家）
	arena.Connect(sid, client)

	go client.writePump()
	go client.readPump(arena, sid)
}
