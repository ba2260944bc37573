// Package events - test phát sự kiện chat tới các notifier.
package events

import (
	"context"
	"testing"
	"time"
)

type channelNotifier struct {
	ch chan ChatEvent
}

func (n *channelNotifier) Notify(ctx context.Context, event ChatEvent) {
	n.ch <- event
}

type panicNotifier struct{}

func (panicNotifier) Notify(ctx context.Context, event ChatEvent) {
	panic("notifier hỏng")
}

func TestEmitChatEvent_GuiToiMoiNotifier(t *testing.T) {
	n1 := &channelNotifier{ch: make(chan ChatEvent, 8)}
	n2 := &channelNotifier{ch: make(chan ChatEvent, 8)}
	RegisterNotifier(n1)
	RegisterNotifier(n2)

	EmitChatEvent(context.Background(), EventFormRequestSent, "proj1", "conv1", map[string]string{"k": "v"})

	for i, n := range []*channelNotifier{n1, n2} {
		select {
		case e := <-n.ch:
			if e.Type != EventFormRequestSent {
				t.Errorf("notifier %d: type = %s, mong đợi %s", i, e.Type, EventFormRequestSent)
			}
			if e.ProjectID != "proj1" || e.ConversationID != "conv1" {
				t.Errorf("notifier %d: sai project/conversation: %+v", i, e)
			}
			if e.EventID == "" {
				t.Errorf("notifier %d: EventID phải được sinh tự động", i)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("notifier %d không nhận được sự kiện", i)
		}
	}
}

func TestEmitChatEvent_EventIDKhacNhauMoiLanPhat(t *testing.T) {
	n := &channelNotifier{ch: make(chan ChatEvent, 8)}
	RegisterNotifier(n)

	EmitChatEvent(context.Background(), EventFormSubmitted, "p", "c", nil)
	EmitChatEvent(context.Background(), EventFormSubmitted, "p", "c", nil)

	var ids []string
	for i := 0; i < 2; i++ {
		select {
		case e := <-n.ch:
			ids = append(ids, e.EventID)
		case <-time.After(2 * time.Second):
			t.Fatal("không nhận đủ sự kiện")
		}
	}
	if ids[0] == ids[1] {
		t.Error("hai lần phát phải có EventID khác nhau để phía nhận dedupe")
	}
}

func TestEmitChatEvent_NotifierPanicKhongChanNotifierKhac(t *testing.T) {
	RegisterNotifier(panicNotifier{})
	ok := &channelNotifier{ch: make(chan ChatEvent, 8)}
	RegisterNotifier(ok)

	EmitChatEvent(context.Background(), EventFormRequestSent, "p", "c", nil)

	select {
	case <-ok.ch:
	case <-time.After(2 * time.Second):
		t.Fatal("notifier bình thường phải vẫn nhận được sự kiện khi notifier khác panic")
	}
}
