package plugin

import (
	"context"
	"sort"
	"sync"
)

// HookType Action(반환값 없음) vs Filter(데이터 변환)
type HookType int

const (
	HookTypeAction HookType = iota
	HookTypeFilter
)

// HookContext Hook 핸들러에 전달되는 컨텍스트
type HookContext struct {
	// Context 요청 범위 컨텍스트 (인증 사용자 등)
	Context context.Context
	Event   string
	Input   map[string]interface{}
	output  map[string]interface{}
}

// SetOutput 출력 데이터 설정 (Filter Hook에서 사용)
func (c *HookContext) SetOutput(data map[string]interface{}) {
	c.output = data
}

// GetOutput 출력 데이터 반환
func (c *HookContext) GetOutput() map[string]interface{} {
	if c.output != nil {
		return c.output
	}
	return c.Input
}

// With 입력을 복사하고 key만 교체한 출력 맵 반환
func (c *HookContext) With(key string, value interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(c.Input)+1)
	for k, v := range c.Input {
		out[k] = v
	}
	out[key] = value
	return out
}

// HookHandler Hook 핸들러 함수
type HookHandler func(ctx *HookContext) error

// hookEntry 등록된 Hook 정보
type hookEntry struct {
	pluginName string
	handler    HookHandler
	priority   int
	hookType   HookType
}

// HookManager Hook 등록/실행 관리자 (thread-safe)
type HookManager struct {
	hooks  map[string][]hookEntry
	mu     sync.RWMutex
	logger Logger
}

// NewHookManager 새 HookManager 생성
func NewHookManager(logger Logger) *HookManager {
	return &HookManager{
		hooks:  make(map[string][]hookEntry),
		logger: logger,
	}
}

// Register Action Hook 등록
func (hm *HookManager) Register(event string, pluginName string, handler HookHandler, priority int) {
	hm.add(event, hookEntry{
		pluginName: pluginName,
		handler:    handler,
		priority:   priority,
		hookType:   HookTypeAction,
	})
}

// RegisterFilter Filter Hook 등록
func (hm *HookManager) RegisterFilter(event string, pluginName string, handler HookHandler, priority int) {
	hm.add(event, hookEntry{
		pluginName: pluginName,
		handler:    handler,
		priority:   priority,
		hookType:   HookTypeFilter,
	})
}

func (hm *HookManager) add(event string, entry hookEntry) {
	hm.mu.Lock()
	defer hm.mu.Unlock()

	hm.hooks[event] = append(hm.hooks[event], entry)
	hm.sortHooks(event)
}

// Do Action Hook 실행 (에러 로깅만, 블로킹 안 함)
func (hm *HookManager) Do(ctx context.Context, event string, data map[string]interface{}) {
	for _, entry := range hm.snapshot(event) {
		hc := &HookContext{
			Context: ctx,
			Event:   event,
			Input:   data,
		}
		if err := entry.handler(hc); err != nil {
			hm.logger.Error("Hook error [%s] plugin=%s: %v", event, entry.pluginName, err)
		}
	}
}

// Apply Filter Hook 실행 (결과 반환, 체이닝)
func (hm *HookManager) Apply(ctx context.Context, event string, data map[string]interface{}) map[string]interface{} {
	current := data
	for _, entry := range hm.snapshot(event) {
		hc := &HookContext{
			Context: ctx,
			Event:   event,
			Input:   current,
		}
		if err := entry.handler(hc); err != nil {
			hm.logger.Error("Filter error [%s] plugin=%s: %v", event, entry.pluginName, err)
			continue
		}
		current = hc.GetOutput()
	}
	return current
}

// Has 이벤트에 등록된 Hook 존재 여부
func (hm *HookManager) Has(event string) bool {
	hm.mu.RLock()
	defer hm.mu.RUnlock()
	return len(hm.hooks[event]) > 0
}

// Unregister 특정 플러그인의 모든 Hook 해제
func (hm *HookManager) Unregister(pluginName string) {
	hm.mu.Lock()
	defer hm.mu.Unlock()

	for event, entries := range hm.hooks {
		filtered := entries[:0]
		for _, e := range entries {
			if e.pluginName != pluginName {
				filtered = append(filtered, e)
			}
		}
		hm.hooks[event] = filtered
	}
}

// Replace 플러그인 Hook 교체. register가 등록한 Hook으로 기존 것을 한 번에 바꾼다
// (교체 중 실행되는 Do/Apply는 이전 또는 새 Hook 중 하나만 본다)
func (hm *HookManager) Replace(pluginName string, register func(hm *HookManager)) {
	staged := NewHookManager(hm.logger)
	register(staged)

	hm.mu.Lock()
	defer hm.mu.Unlock()

	touched := make(map[string]bool)
	for event, entries := range hm.hooks {
		kept := make([]hookEntry, 0, len(entries))
		for _, e := range entries {
			if e.pluginName != pluginName {
				kept = append(kept, e)
			}
		}
		if len(kept) != len(entries) {
			hm.hooks[event] = kept
			touched[event] = true
		}
	}
	for event, entries := range staged.hooks {
		hm.hooks[event] = append(hm.hooks[event], entries...)
		touched[event] = true
	}
	for event := range touched {
		hm.sortHooks(event)
	}
}

func (hm *HookManager) snapshot(event string) []hookEntry {
	hm.mu.RLock()
	defer hm.mu.RUnlock()
	entries := make([]hookEntry, len(hm.hooks[event]))
	copy(entries, hm.hooks[event])
	return entries
}

// sortHooks priority 기준 오름차순 정렬 (낮은 priority가 먼저 실행)
// 호출자가 lock을 보유해야 함
func (hm *HookManager) sortHooks(event string) {
	sort.SliceStable(hm.hooks[event], func(i, j int) bool {
		return hm.hooks[event][i].priority < hm.hooks[event][j].priority
	})
}
