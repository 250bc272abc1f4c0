package server

import (
	"encoding/json"
	"net/http"
)

// HandleAdminConfig 提供竞技场战斗参数的读取与热更新
// GET /admin/config?arena=arena-1  返回当前配置
// POST /admin/config?arena=arena-1 以 JSON 载荷更新部分字段
func HandleAdminConfig(w http.ResponseWriter, r *http.Request) {
	arenaID := r.URL.Query().Get("arena")
	if arenaID == "" {
		arenaID = "arena-1"
	}
	am := GetArenaManager()
	arena := am.GetOrCreateArena(arenaID)

	type cfg struct {
		SpeedX       *float64 `json:"speedX,omitempty"`
		SpeedY       *float64 `json:"speedY,omitempty"`
		Damage       *int     `json:"damage,omitempty"`
		HitstopTicks *int     `json:"hitstopTicks,omitempty"`
	}

	switch r.Method {
	case http.MethodGet:
		cur := arena.Tunables()
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(cur)
		return
	case http.MethodPost:
		var body cfg
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		updated := arena.UpdateTuning(func(t *Tuning) {
			if body.SpeedX != nil {
				t.SpeedX = *body.SpeedX
			}
			if body.SpeedY != nil {
				t.SpeedY = *body.SpeedY
			}
			if body.Damage != nil {
				t.Damage = *body.Damage
			}
			if body.HitstopTicks != nil {
				t.HitstopTicks = *body.HitstopTicks
			}
		})
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(updated)
		Log.Infof("config updated: arena=%s speed=[%.1f,%.1f] damage=%d hitstop=%d",
			arenaID, updated.SpeedX, updated.SpeedY, updated.Damage, updated.HitstopTicks)
		return
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
}

// HandleMetrics 输出指定竞技场的运行指标
// GET /metrics?arena=arena-1
func HandleMetrics(w http.ResponseWriter, r *http.Request) {
	arenaID := r.URL.Query().Get("arena")
	if arenaID == "" {
		arenaID = "arena-1"
	}
	am := GetArenaManager()
	arena := am.GetOrCreateArena(arenaID)
	payload := map[string]any{
		"arena":   arenaID,
		"tick":    arena.TickSeq(),
		"metrics": arena.metrics.Snapshot(),
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payload)
}
