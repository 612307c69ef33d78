package invitation

import (
	"database/sql"
	"testing"
	"time"

	"wave_chat_server/internal/dao/mysql"
	"wave_chat_server/internal/dao/mysql/memory"
	"wave_chat_server/internal/model"
	"wave_chat_server/pkg/constants"
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

func newTestService(t *testing.T) (*invitationService, *mysql.Repositories) {
	t.Helper()
	repos := memory.NewRepositories()
	seedUser(t, repos, "U_OWNER", "owner", "owner@test.com")
	seedUser(t, repos, "U_GUEST", "guest", "guest@test.com")
	return NewInvitationService(repos, nil), repos
}

func TestGetOrCreateDefault(t *testing.T) {
	svc, _ := newTestService(t)

	first, err := svc.GetOrCreateDefault("U_OWNER")
	if err != nil {
		t.Fatalf("GetOrCreateDefault: %v", err)
	}
	if len(first.Token) != constants.INVITE_TOKEN_LENGTH {
		t.Fatalf("token length = %d, want %d", len(first.Token), constants.INVITE_TOKEN_LENGTH)
	}
	if first.MaxUses != constants.INVITE_DEFAULT_USES {
		t.Fatalf("max_uses = %d, want %d", first.MaxUses, constants.INVITE_DEFAULT_USES)
	}
	if !first.IsActive || first.UsesCount != 0 {
		t.Fatalf("new invitation should be active with zero uses, got %+v", first)
	}

	// 再次获取返回同一个邀请，不重复创建
	second, err := svc.GetOrCreateDefault("U_OWNER")
	if err != nil {
		t.Fatalf("GetOrCreateDefault again: %v", err)
	}
	if second.Token != first.Token {
		t.Fatalf("repeated get should reuse invitation, token %s != %s", second.Token, first.Token)
	}
}

func TestRegenerate(t *testing.T) {
	svc, repos := newTestService(t)

	first, err := svc.GetOrCreateDefault("U_OWNER")
	if err != nil {
		t.Fatalf("GetOrCreateDefault: %v", err)
	}
	if _, err := svc.Accept("U_GUEST", first.Token, "1.2.3.4", "ua"); err != nil {
		t.Fatalf("Accept: %v", err)
	}

	regen, err := svc.Regenerate("U_OWNER")
	if err != nil {
		t.Fatalf("Regenerate: %v", err)
	}
	if regen.Token == first.Token {
		t.Fatal("regenerate should rotate the token")
	}
	if regen.UsesCount != 0 || !regen.IsActive {
		t.Fatalf("regenerate should reset counter and reactivate, got %+v", regen)
	}

	// 旧令牌立即作废
	if _, err := repos.Invitation.FindByToken(first.Token); errorx.GetCode(err) != errorx.CodeNotFound {
		t.Fatalf("old token should be gone, err = %v", err)
	}
}

func TestRegenerateWithoutExisting(t *testing.T) {
	svc, _ := newTestService(t)
	rsp, err := svc.Regenerate("U_OWNER")
	if err != nil {
		t.Fatalf("Regenerate: %v", err)
	}
	if len(rsp.Token) != constants.INVITE_TOKEN_LENGTH {
		t.Fatalf("token length = %d", len(rsp.Token))
	}
}

func TestLookupPublicInfo(t *testing.T) {
	svc, _ := newTestService(t)
	inv, err := svc.GetOrCreateDefault("U_OWNER")
	if err != nil {
		t.Fatalf("GetOrCreateDefault: %v", err)
	}

	info, err := svc.LookupPublicInfo(inv.Token, "1.2.3.4", "ua")
	if err != nil {
		t.Fatalf("LookupPublicInfo: %v", err)
	}
	if !info.Valid {
		t.Fatal("valid token should resolve")
	}
	if info.Owner == nil || info.Owner.Uuid != "U_OWNER" || info.Owner.Username != "owner" {
		t.Fatalf("owner card mismatch: %+v", info.Owner)
	}
	if info.RemainingUses != constants.INVITE_DEFAULT_USES {
		t.Fatalf("remaining_uses = %d", info.RemainingUses)
	}

	// 未知令牌不报错，只返回 valid=false，不泄露信息
	unknown, err := svc.LookupPublicInfo("nosuchtokennosuchtokennosuchtoke", "1.2.3.4", "ua")
	if err != nil {
		t.Fatalf("LookupPublicInfo unknown: %v", err)
	}
	if unknown.Valid || unknown.Owner != nil {
		t.Fatalf("unknown token should be {valid:false}, got %+v", unknown)
	}
}

func TestAcceptCreatesDirectRoom(t *testing.T) {
	svc, repos := newTestService(t)
	inv, _ := svc.GetOrCreateDefault("U_OWNER")

	rsp, err := svc.Accept("U_GUEST", inv.Token, "1.2.3.4", "ua")
	if err != nil {
		t.Fatalf("Accept: %v", err)
	}
	if rsp.RoomUuid == "" || rsp.OwnerUuid != "U_OWNER" || rsp.AlreadyConnected {
		t.Fatalf("unexpected respond: %+v", rsp)
	}

	// 双方都是房间成员
	for _, userUuid := range []string{"U_OWNER", "U_GUEST"} {
		if _, err := repos.Room.FindParticipant(rsp.RoomUuid, userUuid); err != nil {
			t.Fatalf("participant %s missing: %v", userUuid, err)
		}
	}

	// 使用计数递增
	stored, err := repos.Invitation.FindByToken(inv.Token)
	if err != nil {
		t.Fatalf("FindByToken: %v", err)
	}
	if stored.UsesCount != 1 {
		t.Fatalf("uses_count = %d, want 1", stored.UsesCount)
	}
}

func TestAcceptIdempotent(t *testing.T) {
	svc, repos := newTestService(t)
	inv, _ := svc.GetOrCreateDefault("U_OWNER")

	first, err := svc.Accept("U_GUEST", inv.Token, "1.2.3.4", "ua")
	if err != nil {
		t.Fatalf("first Accept: %v", err)
	}
	second, err := svc.Accept("U_GUEST", inv.Token, "1.2.3.4", "ua")
	if err != nil {
		t.Fatalf("second Accept: %v", err)
	}
	if second.RoomUuid != first.RoomUuid {
		t.Fatalf("repeat accept returned different room: %s != %s", second.RoomUuid, first.RoomUuid)
	}
	if !second.AlreadyConnected {
		t.Fatal("repeat accept should report already_connected")
	}

	stored, _ := repos.Invitation.FindByToken(inv.Token)
	if stored.UsesCount != 1 {
		t.Fatalf("repeat accept must not consume uses, count = %d", stored.UsesCount)
	}
}

func TestAcceptOwnInvitation(t *testing.T) {
	svc, _ := newTestService(t)
	inv, _ := svc.GetOrCreateDefault("U_OWNER")

	_, err := svc.Accept("U_OWNER", inv.Token, "1.2.3.4", "ua")
	if errorx.GetCode(err) != errorx.CodeInvalidParam {
		t.Fatalf("accepting own invitation: code = %d, want %d", errorx.GetCode(err), errorx.CodeInvalidParam)
	}
}

func TestAcceptExpiredOrExhausted(t *testing.T) {
	svc, repos := newTestService(t)
	seedUser(t, repos, "U_THIRD", "third", "third@test.com")

	// 过期邀请
	expired := model.Invitation{
		Uuid:      "I_EXPIRED",
		OwnerUuid: "U_OWNER",
		Token:     "expiredexpiredexpiredexpiredexpi",
		MaxUses:   10,
		IsActive:  true,
		ExpiresAt: sql.NullTime{Time: time.Now().Add(-time.Hour), Valid: true},
	}
	if err := repos.Invitation.Create(&expired); err != nil {
		t.Fatalf("create expired: %v", err)
	}
	if _, err := svc.Accept("U_GUEST", expired.Token, "", ""); errorx.GetCode(err) != errorx.CodeInvalidState {
		t.Fatalf("expired invitation: code = %d, want %d", errorx.GetCode(err), errorx.CodeInvalidState)
	}

	// 单次邀请：用满后自动失活，后来者被拒
	single := model.Invitation{
		Uuid:      "I_SINGLE",
		OwnerUuid: "U_OWNER",
		Token:     "singlesinglesinglesinglesinglesi",
		MaxUses:   1,
		IsActive:  true,
	}
	if err := repos.Invitation.Create(&single); err != nil {
		t.Fatalf("create single: %v", err)
	}
	if _, err := svc.Accept("U_GUEST", single.Token, "", ""); err != nil {
		t.Fatalf("first use of single invitation: %v", err)
	}
	stored, _ := repos.Invitation.FindByToken(single.Token)
	if stored.IsActive {
		t.Fatal("invitation should auto-deactivate at max uses")
	}
	if _, err := svc.Accept("U_THIRD", single.Token, "", ""); errorx.GetCode(err) != errorx.CodeInvalidState {
		t.Fatalf("exhausted invitation: code = %d, want %d", errorx.GetCode(err), errorx.CodeInvalidState)
	}
}

func TestIncrementUsesStopsAtMax(t *testing.T) {
	_, repos := newTestService(t)

	inv := model.Invitation{
		Uuid:      "I_LAST",
		OwnerUuid: "U_OWNER",
		Token:     "lastuselastuselastuselastuselast",
		MaxUses:   2,
		UsesCount: 1,
		IsActive:  true,
	}
	if err := repos.Invitation.Create(&inv); err != nil {
		t.Fatalf("create invitation: %v", err)
	}

	// 最后一次余量：递增成功并自动失活
	if err := repos.Invitation.IncrementUses("I_LAST"); err != nil {
		t.Fatalf("IncrementUses: %v", err)
	}
	stored, err := repos.Invitation.FindByToken(inv.Token)
	if err != nil {
		t.Fatalf("FindByToken: %v", err)
	}
	if stored.UsesCount != 2 || stored.IsActive {
		t.Fatalf("last use should deactivate, got count=%d active=%v", stored.UsesCount, stored.IsActive)
	}

	// 已用完：预检之后才到达的并发接受被计数守卫回绝，计数不越过上限
	err = repos.Invitation.IncrementUses("I_LAST")
	if errorx.GetCode(err) != errorx.CodeInvalidState {
		t.Fatalf("exhausted increment: code = %d, want %d", errorx.GetCode(err), errorx.CodeInvalidState)
	}
	stored, _ = repos.Invitation.FindByToken(inv.Token)
	if stored.UsesCount != 2 {
		t.Fatalf("uses_count must not pass max_uses, got %d", stored.UsesCount)
	}
}

func TestAcceptUnknownToken(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Accept("U_GUEST", "nosuchtokennosuchtokennosuchtoke", "", "")
	if errorx.GetCode(err) != errorx.CodeInvalidParam {
		t.Fatalf("unknown token: code = %d, want %d", errorx.GetCode(err), errorx.CodeInvalidParam)
	}
}

func TestAcceptReusesExistingDirectRoom(t *testing.T) {
	svc, repos := newTestService(t)

	// 双方已有单聊：接受邀请复用既有房间而不是新建
	inv, _ := svc.GetOrCreateDefault("U_OWNER")
	first, err := svc.Accept("U_GUEST", inv.Token, "", "")
	if err != nil {
		t.Fatalf("Accept: %v", err)
	}

	regen, err := svc.Regenerate("U_OWNER")
	if err != nil {
		t.Fatalf("Regenerate: %v", err)
	}
	second, err := svc.Accept("U_GUEST", regen.Token, "", "")
	if err != nil {
		t.Fatalf("Accept new token: %v", err)
	}
	if second.RoomUuid != first.RoomUuid {
		t.Fatalf("new token with same pair should reuse room: %s != %s", second.RoomUuid, first.RoomUuid)
	}

	rooms, err := repos.Room.FindRoomsByUser("U_GUEST")
	if err != nil {
		t.Fatalf("FindRoomsByUser: %v", err)
	}
	if len(rooms) != 1 {
		t.Fatalf("guest should have exactly one room, got %d", len(rooms))
	}
}
