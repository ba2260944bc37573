// Package utility - test cache TTL in-memory.
package utility

import (
	"testing"
	"time"
)

func TestCache_SetGetDelete(t *testing.T) {
	c := NewCache(time.Minute, time.Minute)
	defer c.Stop()

	c.Set("k", "v")
	if v, ok := c.Get("k"); !ok || v != "v" {
		t.Fatalf("Get sau Set trả về (%v, %v)", v, ok)
	}

	c.Delete("k")
	if _, ok := c.Get("k"); ok {
		t.Fatal("Get sau Delete vẫn tìm thấy giá trị")
	}
}

func TestCache_HetHan(t *testing.T) {
	c := NewCache(20*time.Millisecond, time.Minute)
	defer c.Stop()

	c.Set("k", 42)
	time.Sleep(40 * time.Millisecond)
	if _, ok := c.Get("k"); ok {
		t.Fatal("giá trị quá TTL vẫn đọc được")
	}
}

func TestCache_KeyKhongTonTai(t *testing.T) {
	c := NewCache(time.Minute, time.Minute)
	defer c.Stop()

	if _, ok := c.Get("không có"); ok {
		t.Fatal("key chưa set không được trả về ok")
	}
}
