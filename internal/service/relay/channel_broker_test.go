package relay

import (
	"encoding/json"
	"testing"
	"time"
)

func newTestClient(uuid string, buffer int) *UserConn {
	return &UserConn{
		Uuid:     uuid,
		SendBack: make(chan []byte, buffer),
	}
}

// recv 从连接缓冲读一条推送，超时返回 nil
func recv(t *testing.T, c *UserConn, timeout time.Duration) []byte {
	t.Helper()
	select {
	case data := <-c.SendBack:
		return data
	case <-time.After(timeout):
		return nil
	}
}

// waitOnline 注册经主循环异步处理，发布前需等注册生效
func waitOnline(t *testing.T, broker MessageBroker, uuid string) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for broker.GetClient(uuid) == nil {
		if time.Now().After(deadline) {
			t.Fatalf("client %s not registered within deadline", uuid)
		}
		time.Sleep(time.Millisecond)
	}
}

func TestChannelBrokerDeliver(t *testing.T) {
	broker := NewChannelBroker()
	go broker.Start()
	defer broker.Close()

	alice := newTestClient("U_ALICE", 8)
	bob := newTestClient("U_BOB", 8)
	broker.RegisterClient(alice)
	broker.RegisterClient(bob)
	waitOnline(t, broker, "U_ALICE")
	waitOnline(t, broker, "U_BOB")

	server := &Server{broker: broker, mode: "channel"}
	server.PushToUsers([]string{"U_ALICE"}, &Event{Kind: EventMessageNew, RoomUuid: "R1"})

	data := recv(t, alice, time.Second)
	if data == nil {
		t.Fatal("alice should receive the event")
	}
	var event Event
	if err := json.Unmarshal(data, &event); err != nil {
		t.Fatalf("unmarshal event: %v", err)
	}
	if event.Kind != EventMessageNew || event.RoomUuid != "R1" {
		t.Fatalf("unexpected event: %+v", event)
	}

	// 非目标用户不应收到推送
	if leaked := recv(t, bob, 50*time.Millisecond); leaked != nil {
		t.Fatalf("bob should not receive the event: %s", leaked)
	}
}

func TestChannelBrokerRegisterAndLookup(t *testing.T) {
	broker := NewChannelBroker()
	go broker.Start()
	defer broker.Close()

	alice := newTestClient("U_ALICE", 1)
	broker.RegisterClient(alice)
	waitOnline(t, broker, "U_ALICE")

	broker.UnregisterClient(alice)
	deadline := time.Now().Add(time.Second)
	for broker.GetClient("U_ALICE") != nil {
		if time.Now().After(deadline) {
			t.Fatal("client not unregistered within deadline")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestChannelBrokerDropsWhenBufferFull(t *testing.T) {
	broker := NewChannelBroker()
	go broker.Start()
	defer broker.Close()

	// 缓冲为 1：第一条占满后，后续推送应被丢弃而非阻塞主循环
	alice := newTestClient("U_ALICE", 1)
	broker.RegisterClient(alice)
	waitOnline(t, broker, "U_ALICE")

	server := &Server{broker: broker, mode: "channel"}
	for i := 0; i < 5; i++ {
		server.PushToUsers([]string{"U_ALICE"}, &Event{Kind: EventMessageNew})
	}

	if data := recv(t, alice, time.Second); data == nil {
		t.Fatal("first event should be buffered")
	}

	// 写满的连接不会卡死主循环：后续事件仍能正常流转
	server.PushToUsers([]string{"U_NOBODY"}, &Event{Kind: EventMessageNew})
	bob := newTestClient("U_BOB", 8)
	broker.RegisterClient(bob)
	waitOnline(t, broker, "U_BOB")
	server.PushToUsers([]string{"U_BOB"}, &Event{Kind: EventCallEnded})
	data := recv(t, bob, time.Second)
	if data == nil {
		t.Fatal("broker loop should still deliver after drops")
	}
	var event Event
	if err := json.Unmarshal(data, &event); err != nil || event.Kind != EventCallEnded {
		t.Fatalf("unexpected event %s (err %v)", data, err)
	}
}
