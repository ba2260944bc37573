// Package registry - test registry generic thread-safe.
package registry

import (
	"fmt"
	"sync"
	"testing"
)

func TestRegistry_RegisterVaGet(t *testing.T) {
	r := NewRegistry[int]()

	isNew, err := r.Register("a", 1)
	if err != nil || !isNew {
		t.Fatalf("Register lần đầu phải trả về isNew=true, nhận (%v, %v)", isNew, err)
	}

	// Đăng ký trùng tên ghi đè item cũ, isNew=false
	isNew, _ = r.Register("a", 2)
	if isNew {
		t.Error("Register trùng tên phải trả về isNew=false")
	}
	if v, ok := r.Get("a"); !ok || v != 2 {
		t.Errorf("Get sau Register trùng trả về (%v, %v), mong đợi (2, true)", v, ok)
	}

	if _, err := r.Register("", 1); err == nil {
		t.Error("Register với tên rỗng phải trả về lỗi")
	}

	if _, ok := r.Get("không có"); ok {
		t.Error("Get tên chưa đăng ký phải trả về ok=false")
	}
}

func TestRegistry_GetOrCreate(t *testing.T) {
	r := NewRegistry[string]()
	calls := 0
	creator := func() (string, error) {
		calls++
		return "v", nil
	}

	v, err := r.GetOrCreate("k", creator)
	if err != nil || v != "v" {
		t.Fatalf("GetOrCreate lần đầu trả về (%v, %v)", v, err)
	}
	r.GetOrCreate("k", creator)
	if calls != 1 {
		t.Errorf("creator bị gọi %d lần, mong đợi 1", calls)
	}
}

func TestRegistry_Clear(t *testing.T) {
	r := NewRegistry[int]()
	r.Register("a", 1)

	cleaned := false
	deleted, err := r.Clear("a", func(int) error {
		cleaned = true
		return nil
	})
	if err != nil || !deleted || !cleaned {
		t.Fatalf("Clear trả về (%v, %v), cleanup chạy: %v", deleted, err, cleaned)
	}
	if _, ok := r.Get("a"); ok {
		t.Error("Get sau Clear vẫn tìm thấy")
	}
}

func TestRegistry_DongThoi(t *testing.T) {
	r := NewRegistry[int]()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			r.Register(fmt.Sprintf("k%d", n), n)
			r.Get(fmt.Sprintf("k%d", n))
		}(i)
	}
	wg.Wait()
	if len(r.Names()) != 50 {
		t.Errorf("mong đợi 50 tên, nhận %d", len(r.Names()))
	}
}
