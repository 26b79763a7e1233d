package registry

import (
	"fmt"
	"sync"
)

// Registry lưu trữ các item dùng chung theo tên, an toàn khi truy cập đồng thời
type Registry[T any] struct {
	mu    sync.RWMutex
	items map[string]T
}

// NewRegistry tạo mới một Registry rỗng
func NewRegistry[T any]() *Registry[T] {
	return &Registry[T]{
		items: make(map[string]T),
	}
}

// Register đăng ký một item với tên cho trước.
// Trả về lỗi nếu tên đã tồn tại trong registry.
func (r *Registry[T]) Register(name string, item T) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[name]; exists {
		return false, fmt.Errorf("item '%s' đã tồn tại trong registry", name)
	}
	r.items[name] = item
	return true, nil
}

// Get lấy item theo tên, trả về false nếu chưa được đăng ký
func (r *Registry[T]) Get(name string) (T, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, exists := r.items[name]
	return item, exists
}

// Names trả về danh sách tên các item đã đăng ký
func (r *Registry[T]) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.items))
	for name := range r.items {
		names = append(names, name)
	}
	return names
}
