package contact

import (
	"testing"

	"wave_chat_server/internal/dao/mysql"
	"wave_chat_server/internal/dao/mysql/memory"
	"wave_chat_server/internal/dto/request"
	"wave_chat_server/internal/model"
	"wave_chat_server/pkg/errorx"
)

func seedUser(t *testing.T, repos *mysql.Repositories, uuid, username string) {
	t.Helper()
	err := repos.User.Create(&model.UserInfo{
		Uuid:        uuid,
		Username:    username,
		Email:       username + "@test.com",
		RawPassword: "123456",
		IsOnline:    true,
	})
	if err != nil {
		t.Fatalf("seed user %s: %v", uuid, err)
	}
}

func newTestService(t *testing.T) (*contactService, *mysql.Repositories) {
	t.Helper()
	repos := memory.NewRepositories()
	seedUser(t, repos, "U_ALICE", "alice")
	seedUser(t, repos, "U_BOB", "bob")
	return NewContactService(repos), repos
}

func TestAddContact(t *testing.T) {
	svc, _ := newTestService(t)

	err := svc.AddContact("U_ALICE", request.AddContactRequest{TargetUuid: "U_ALICE"})
	if errorx.GetCode(err) != errorx.CodeInvalidParam {
		t.Fatalf("add self: code = %d", errorx.GetCode(err))
	}
	err = svc.AddContact("U_ALICE", request.AddContactRequest{TargetUuid: "U_NOBODY"})
	if errorx.GetCode(err) != errorx.CodeUserNotExist {
		t.Fatalf("unknown target: code = %d", errorx.GetCode(err))
	}

	if err := svc.AddContact("U_ALICE", request.AddContactRequest{TargetUuid: "U_BOB", Nickname: "老鲍"}); err != nil {
		t.Fatalf("AddContact: %v", err)
	}
	err = svc.AddContact("U_ALICE", request.AddContactRequest{TargetUuid: "U_BOB"})
	if errorx.GetCode(err) != errorx.CodeConflict {
		t.Fatalf("duplicate edge: code = %d", errorx.GetCode(err))
	}

	// 单向边：Bob 的列表不受影响
	list, err := svc.GetContactList("U_BOB")
	if err != nil {
		t.Fatalf("GetContactList: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("edge should be one-way, bob has %d contacts", len(list))
	}
}

func TestGetContactList(t *testing.T) {
	svc, _ := newTestService(t)
	if err := svc.AddContact("U_ALICE", request.AddContactRequest{TargetUuid: "U_BOB", Nickname: "老鲍"}); err != nil {
		t.Fatalf("AddContact: %v", err)
	}

	list, err := svc.GetContactList("U_ALICE")
	if err != nil {
		t.Fatalf("GetContactList: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("len(list) = %d, want 1", len(list))
	}
	item := list[0]
	if item.TargetUuid != "U_BOB" || item.Nickname != "老鲍" {
		t.Fatalf("unexpected item: %+v", item)
	}
	// 附带对方资料快照
	if item.Username != "bob" || !item.IsOnline {
		t.Fatalf("profile snapshot missing: %+v", item)
	}
}

func TestSetNickname(t *testing.T) {
	svc, repos := newTestService(t)

	err := svc.SetNickname("U_ALICE", request.UpdateContactRequest{TargetUuid: "U_BOB", Nickname: "x"})
	if errorx.GetCode(err) != errorx.CodeNotFound {
		t.Fatalf("nickname on missing edge: code = %d", errorx.GetCode(err))
	}

	if err := svc.AddContact("U_ALICE", request.AddContactRequest{TargetUuid: "U_BOB"}); err != nil {
		t.Fatalf("AddContact: %v", err)
	}
	if err := svc.SetNickname("U_ALICE", request.UpdateContactRequest{TargetUuid: "U_BOB", Nickname: "鲍师傅"}); err != nil {
		t.Fatalf("SetNickname: %v", err)
	}
	stored, err := repos.Contact.FindByOwnerAndTarget("U_ALICE", "U_BOB")
	if err != nil {
		t.Fatalf("FindByOwnerAndTarget: %v", err)
	}
	if stored.Nickname != "鲍师傅" {
		t.Fatalf("Nickname = %s", stored.Nickname)
	}
}

func TestSetBlocked(t *testing.T) {
	svc, repos := newTestService(t)

	err := svc.SetBlocked("U_ALICE", "U_BOB", true)
	if errorx.GetCode(err) != errorx.CodeNotFound {
		t.Fatalf("block missing edge: code = %d", errorx.GetCode(err))
	}

	if err := svc.AddContact("U_ALICE", request.AddContactRequest{TargetUuid: "U_BOB"}); err != nil {
		t.Fatalf("AddContact: %v", err)
	}
	if err := svc.SetBlocked("U_ALICE", "U_BOB", true); err != nil {
		t.Fatalf("SetBlocked: %v", err)
	}
	stored, _ := repos.Contact.FindByOwnerAndTarget("U_ALICE", "U_BOB")
	if !stored.Blocked {
		t.Fatal("edge should be blocked")
	}
	// 拉黑的边不再出现在"拥有该联系人"的反查里
	owners, err := repos.Contact.FindOwnersHavingContact("U_BOB")
	if err != nil {
		t.Fatalf("FindOwnersHavingContact: %v", err)
	}
	for _, o := range owners {
		if o == "U_ALICE" {
			t.Fatal("blocked edge leaked into owner reverse lookup")
		}
	}

	// 取消拉黑
	if err := svc.SetBlocked("U_ALICE", "U_BOB", false); err != nil {
		t.Fatalf("SetBlocked(false): %v", err)
	}
	stored, _ = repos.Contact.FindByOwnerAndTarget("U_ALICE", "U_BOB")
	if stored.Blocked {
		t.Fatal("edge should be unblocked")
	}
}
