package room

import (
	"testing"
	"time"

	"wave_chat_server/internal/dao/mysql"
	"wave_chat_server/internal/dao/mysql/memory"
	"wave_chat_server/internal/model"
	"wave_chat_server/pkg/errorx"
)

func seedUser(t *testing.T, repos *mysql.Repositories, uuid, username, email string) {
	t.Helper()
	err := repos.User.Create(&model.UserInfo{
		Uuid:        uuid,
		Username:    username,
		Email:       email,
		RawPassword: "123456",
	})
	if err != nil {
		t.Fatalf("seed user %s: %v", uuid, err)
	}
}

func seedMessage(t *testing.T, repos *mysql.Repositories, uuid int64, roomUuid, senderUuid string) {
	t.Helper()
	err := repos.Message.Create(&model.Message{
		Uuid:       uuid,
		RoomUuid:   roomUuid,
		SenderUuid: senderUuid,
		Type:       model.MessageTypeText,
		Ciphertext: "cipher",
		Nonce:      "nonce",
	})
	if err != nil {
		t.Fatalf("seed message %d: %v", uuid, err)
	}
}

func newTestService(t *testing.T) (*roomService, *mysql.Repositories) {
	t.Helper()
	repos := memory.NewRepositories()
	seedUser(t, repos, "U_ALICE", "alice", "alice@test.com")
	seedUser(t, repos, "U_BOB", "bob", "bob@test.com")
	return NewRoomService(repos), repos
}

func TestDirectKey(t *testing.T) {
	if DirectKey("U_B", "U_A") != "U_A_U_B" {
		t.Fatalf("DirectKey not normalized: %s", DirectKey("U_B", "U_A"))
	}
	if DirectKey("U_A", "U_B") != DirectKey("U_B", "U_A") {
		t.Fatal("DirectKey must be order independent")
	}
}

func TestGetOrCreateDirectRejectsSelf(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.GetOrCreateDirect("U_ALICE", "U_ALICE")
	if errorx.GetCode(err) != errorx.CodeInvalidParam {
		t.Fatalf("self direct room: code = %d, want %d", errorx.GetCode(err), errorx.CodeInvalidParam)
	}
}

func TestGetOrCreateDirectUnknownTarget(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.GetOrCreateDirect("U_ALICE", "U_NOBODY")
	if errorx.GetCode(err) != errorx.CodeUserNotExist {
		t.Fatalf("unknown target: code = %d, want %d", errorx.GetCode(err), errorx.CodeUserNotExist)
	}
}

func TestGetOrCreateDirectIdempotent(t *testing.T) {
	svc, repos := newTestService(t)

	first, err := svc.GetOrCreateDirect("U_ALICE", "U_BOB")
	if err != nil {
		t.Fatalf("GetOrCreateDirect: %v", err)
	}
	// 反方向发起也命中同一个房间
	second, err := svc.GetOrCreateDirect("U_BOB", "U_ALICE")
	if err != nil {
		t.Fatalf("GetOrCreateDirect reversed: %v", err)
	}
	if second.Uuid != first.Uuid {
		t.Fatalf("direct room must be unique per pair: %s != %s", second.Uuid, first.Uuid)
	}

	participants, err := repos.Room.FindParticipantsByRoom(first.Uuid)
	if err != nil {
		t.Fatalf("FindParticipantsByRoom: %v", err)
	}
	if len(participants) != 2 {
		t.Fatalf("direct room must have exactly two participants, got %d", len(participants))
	}
}

func TestMarkReadRequiresMembership(t *testing.T) {
	svc, repos := newTestService(t)
	seedUser(t, repos, "U_EVE", "eve", "eve@test.com")

	rsp, err := svc.GetOrCreateDirect("U_ALICE", "U_BOB")
	if err != nil {
		t.Fatalf("GetOrCreateDirect: %v", err)
	}
	if err := svc.MarkRead("U_EVE", rsp.Uuid); errorx.GetCode(err) != errorx.CodeForbidden {
		t.Fatalf("non-member mark read: code = %d, want %d", errorx.GetCode(err), errorx.CodeForbidden)
	}
}

func TestRoomListUnreadAndLastMessage(t *testing.T) {
	svc, repos := newTestService(t)
	rsp, err := svc.GetOrCreateDirect("U_ALICE", "U_BOB")
	if err != nil {
		t.Fatalf("GetOrCreateDirect: %v", err)
	}
	roomUuid := rsp.Uuid

	seedMessage(t, repos, 101, roomUuid, "U_BOB")
	seedMessage(t, repos, 102, roomUuid, "U_BOB")
	seedMessage(t, repos, 103, roomUuid, "U_ALICE") // 自己发送的不计未读

	list, err := svc.GetRoomList("U_ALICE")
	if err != nil {
		t.Fatalf("GetRoomList: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("room list length = %d, want 1", len(list))
	}
	if list[0].UnreadCount != 2 {
		t.Fatalf("unread = %d, want 2", list[0].UnreadCount)
	}
	if list[0].LastMessage == nil || list[0].LastMessage.Uuid != "103" {
		t.Fatalf("last message mismatch: %+v", list[0].LastMessage)
	}

	// 推进读游标后未读归零
	time.Sleep(2 * time.Millisecond)
	if err := svc.MarkRead("U_ALICE", roomUuid); err != nil {
		t.Fatalf("MarkRead: %v", err)
	}
	list, _ = svc.GetRoomList("U_ALICE")
	if list[0].UnreadCount != 0 {
		t.Fatalf("unread after mark read = %d, want 0", list[0].UnreadCount)
	}

	// 游标之后的新消息重新计入
	time.Sleep(2 * time.Millisecond)
	seedMessage(t, repos, 104, roomUuid, "U_BOB")
	list, _ = svc.GetRoomList("U_ALICE")
	if list[0].UnreadCount != 1 {
		t.Fatalf("unread after new message = %d, want 1", list[0].UnreadCount)
	}
}

func TestRoomListOrderedByActivity(t *testing.T) {
	svc, repos := newTestService(t)
	seedUser(t, repos, "U_CAROL", "carol", "carol@test.com")

	roomBob, err := svc.GetOrCreateDirect("U_ALICE", "U_BOB")
	if err != nil {
		t.Fatalf("GetOrCreateDirect A-B: %v", err)
	}
	roomCarol, err := svc.GetOrCreateDirect("U_ALICE", "U_CAROL")
	if err != nil {
		t.Fatalf("GetOrCreateDirect A-C: %v", err)
	}

	// 老房间产生新消息后排到最前
	if err := repos.Room.TouchUpdatedAt(roomBob.Uuid, time.Now().Add(time.Minute)); err != nil {
		t.Fatalf("TouchUpdatedAt: %v", err)
	}
	list, err := svc.GetRoomList("U_ALICE")
	if err != nil {
		t.Fatalf("GetRoomList: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("room list length = %d, want 2", len(list))
	}
	if list[0].Uuid != roomBob.Uuid || list[1].Uuid != roomCarol.Uuid {
		t.Fatalf("rooms not ordered by activity: %s, %s", list[0].Uuid, list[1].Uuid)
	}
}
