package server

import "sync"

// ArenaManager 管理多个竞技场的生命周期
type ArenaManager struct {
	mu     sync.RWMutex
	arenas map[string]*Arena
}

var (
	defaultManager *ArenaManager
	once           sync.Once
)

// GetArenaManager 单例竞技场管理器
func GetArenaManager() *ArenaManager {
	once.Do(func() {
		defaultManager = &ArenaManager{arenas: make(map[string]*Arena)}
	})
	return defaultManager
}

// GetOrCreateArena 获取或创建竞技场，并确保开始 Tick
func (m *ArenaManager) GetOrCreateArena(id string) *Arena {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.arenas[id]
	if !ok {
		a = NewArena(id)
		m.arenas[id] = a
		a.StartTicker()
	}
	return a
}
