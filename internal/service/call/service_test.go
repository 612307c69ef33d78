package call

import (
	"database/sql"
	"testing"
	"time"

	"wave_chat_server/internal/dao/mysql"
	"wave_chat_server/internal/dao/mysql/memory"
	"wave_chat_server/internal/dto/request"
	"wave_chat_server/internal/model"
	"wave_chat_server/internal/service/relay"
	"wave_chat_server/internal/service/room"
	"wave_chat_server/pkg/errorx"
)

type captureNotifier struct {
	targets [][]string
	events  []*relay.Event
}

func (n *captureNotifier) PushToUsers(targetUuids []string, event *relay.Event) {
	n.targets = append(n.targets, targetUuids)
	n.events = append(n.events, event)
}

func (n *captureNotifier) lastEvent() *relay.Event {
	if len(n.events) == 0 {
		return nil
	}
	return n.events[len(n.events)-1]
}

func (n *captureNotifier) lastTargets() []string {
	if len(n.targets) == 0 {
		return nil
	}
	return n.targets[len(n.targets)-1]
}

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

func newTestService(t *testing.T) (*callService, *mysql.Repositories, *captureNotifier, string) {
	t.Helper()
	repos := memory.NewRepositories()
	seedUser(t, repos, "U_CALLER", "caller", "caller@test.com")
	seedUser(t, repos, "U_RECEIVER", "receiver", "receiver@test.com")
	directRoom, _, err := room.FindOrCreateDirect(repos, "U_CALLER", "U_RECEIVER", time.Now())
	if err != nil {
		t.Fatalf("create direct room: %v", err)
	}
	notifier := &captureNotifier{}
	return NewCallService(repos, notifier), repos, notifier, directRoom.Uuid
}

func initiate(t *testing.T, svc *callService, roomUuid string) string {
	t.Helper()
	rsp, err := svc.Initiate("U_CALLER", request.InitiateCallRequest{
		RoomUuid: roomUuid,
		Type:     model.CallTypeVideo,
		OfferSdp: "offer",
	})
	if err != nil {
		t.Fatalf("Initiate: %v", err)
	}
	return rsp.Uuid
}

func TestInitiate(t *testing.T) {
	svc, repos, notifier, roomUuid := newTestService(t)

	rsp, err := svc.Initiate("U_CALLER", request.InitiateCallRequest{
		RoomUuid: roomUuid,
		Type:     model.CallTypeVideo,
		OfferSdp: "offer",
	})
	if err != nil {
		t.Fatalf("Initiate: %v", err)
	}
	if rsp.Status != model.CallStatusRinging {
		t.Fatalf("status = %d, want ringing", rsp.Status)
	}
	if rsp.ReceiverUuid != "U_RECEIVER" {
		t.Fatalf("receiver should be derived from room membership, got %s", rsp.ReceiverUuid)
	}
	if rsp.InitiatedAt == "" {
		t.Fatal("initiated_at missing")
	}

	// 振铃事件只发给被叫
	if event := notifier.lastEvent(); event == nil || event.Kind != relay.EventCallIncoming {
		t.Fatalf("expected %s event", relay.EventCallIncoming)
	}
	if targets := notifier.lastTargets(); len(targets) != 1 || targets[0] != "U_RECEIVER" {
		t.Fatalf("incoming event targets = %v", targets)
	}

	// 主叫已作为参与者加入
	if _, err := repos.Call.FindParticipant(rsp.Uuid, "U_CALLER"); err != nil {
		t.Fatalf("caller participant missing: %v", err)
	}
}

func TestInitiateRejectsGroupRoom(t *testing.T) {
	svc, repos, _, _ := newTestService(t)
	groupRoom := model.Room{Uuid: "R_GROUP", Type: model.RoomTypeGroup, IsActive: true}
	if err := repos.Room.Create(&groupRoom); err != nil {
		t.Fatalf("create group room: %v", err)
	}
	if err := repos.Room.CreateParticipant(&model.RoomParticipant{RoomUuid: "R_GROUP", UserUuid: "U_CALLER", Role: model.RoleOwner}); err != nil {
		t.Fatalf("create participant: %v", err)
	}

	_, err := svc.Initiate("U_CALLER", request.InitiateCallRequest{RoomUuid: "R_GROUP", OfferSdp: "offer"})
	if errorx.GetCode(err) != errorx.CodeInvalidState {
		t.Fatalf("group call: code = %d, want %d", errorx.GetCode(err), errorx.CodeInvalidState)
	}
}

func TestInitiateRequiresMembership(t *testing.T) {
	svc, repos, _, roomUuid := newTestService(t)
	seedUser(t, repos, "U_EVE", "eve", "eve@test.com")
	_, err := svc.Initiate("U_EVE", request.InitiateCallRequest{RoomUuid: roomUuid, OfferSdp: "offer"})
	if errorx.GetCode(err) != errorx.CodeForbidden {
		t.Fatalf("outsider initiate: code = %d, want %d", errorx.GetCode(err), errorx.CodeForbidden)
	}
}

func TestInitiateConflictsWithActiveCall(t *testing.T) {
	svc, _, _, roomUuid := newTestService(t)
	initiate(t, svc, roomUuid)

	_, err := svc.Initiate("U_RECEIVER", request.InitiateCallRequest{RoomUuid: roomUuid, OfferSdp: "offer2"})
	if errorx.GetCode(err) != errorx.CodeConflict {
		t.Fatalf("second call: code = %d, want %d", errorx.GetCode(err), errorx.CodeConflict)
	}
}

func TestAccept(t *testing.T) {
	svc, repos, notifier, roomUuid := newTestService(t)
	callUuid := initiate(t, svc, roomUuid)

	// 只有被叫可以接听
	_, err := svc.Accept("U_CALLER", request.AcceptCallRequest{CallUuid: callUuid, AnswerSdp: "answer"})
	if errorx.GetCode(err) != errorx.CodeForbidden {
		t.Fatalf("caller accepts own call: code = %d", errorx.GetCode(err))
	}

	rsp, err := svc.Accept("U_RECEIVER", request.AcceptCallRequest{CallUuid: callUuid, AnswerSdp: "answer"})
	if err != nil {
		t.Fatalf("Accept: %v", err)
	}
	if rsp.Status != model.CallStatusAccepted || rsp.AnsweredAt == "" || rsp.AnswerSdp != "answer" {
		t.Fatalf("unexpected respond: %+v", rsp)
	}
	if event := notifier.lastEvent(); event == nil || event.Kind != relay.EventCallAccepted {
		t.Fatalf("expected %s event", relay.EventCallAccepted)
	}
	if targets := notifier.lastTargets(); len(targets) != 1 || targets[0] != "U_CALLER" {
		t.Fatalf("accept event targets = %v", targets)
	}
	if _, err := repos.Call.FindParticipant(callUuid, "U_RECEIVER"); err != nil {
		t.Fatalf("receiver participant missing: %v", err)
	}

	// 接听后不能再次接听
	_, err = svc.Accept("U_RECEIVER", request.AcceptCallRequest{CallUuid: callUuid, AnswerSdp: "answer"})
	if errorx.GetCode(err) != errorx.CodeInvalidState {
		t.Fatalf("double accept: code = %d, want %d", errorx.GetCode(err), errorx.CodeInvalidState)
	}
}

func TestDecline(t *testing.T) {
	svc, _, notifier, roomUuid := newTestService(t)
	callUuid := initiate(t, svc, roomUuid)

	if _, err := svc.Decline("U_CALLER", callUuid); errorx.GetCode(err) != errorx.CodeForbidden {
		t.Fatalf("caller decline: code = %d", errorx.GetCode(err))
	}

	rsp, err := svc.Decline("U_RECEIVER", callUuid)
	if err != nil {
		t.Fatalf("Decline: %v", err)
	}
	if rsp.Status != model.CallStatusDeclined || rsp.EndedAt == "" {
		t.Fatalf("unexpected respond: %+v", rsp)
	}
	// 拒接的通话没有时长
	if rsp.DurationSec != 0 {
		t.Fatalf("declined call must have no duration, got %d", rsp.DurationSec)
	}
	if event := notifier.lastEvent(); event == nil || event.Kind != relay.EventCallDeclined {
		t.Fatalf("expected %s event", relay.EventCallDeclined)
	}

	// 终态不能再拒接
	if _, err := svc.Decline("U_RECEIVER", callUuid); errorx.GetCode(err) != errorx.CodeInvalidState {
		t.Fatalf("decline terminal: code = %d, want %d", errorx.GetCode(err), errorx.CodeInvalidState)
	}
}

func TestEndAfterAccept(t *testing.T) {
	svc, _, notifier, roomUuid := newTestService(t)
	callUuid := initiate(t, svc, roomUuid)
	if _, err := svc.Accept("U_RECEIVER", request.AcceptCallRequest{CallUuid: callUuid, AnswerSdp: "answer"}); err != nil {
		t.Fatalf("Accept: %v", err)
	}

	rsp, err := svc.End("U_CALLER", callUuid)
	if err != nil {
		t.Fatalf("End: %v", err)
	}
	if rsp.Status != model.CallStatusEnded || rsp.EndedAt == "" {
		t.Fatalf("unexpected respond: %+v", rsp)
	}
	if event := notifier.lastEvent(); event == nil || event.Kind != relay.EventCallEnded {
		t.Fatalf("expected %s event", relay.EventCallEnded)
	}
	// 挂断事件发给对端
	if targets := notifier.lastTargets(); len(targets) != 1 || targets[0] != "U_RECEIVER" {
		t.Fatalf("ended event targets = %v", targets)
	}

	// 终态重入返回专用错误码
	if _, err := svc.End("U_RECEIVER", callUuid); errorx.GetCode(err) != errorx.CodeAlreadyEnded {
		t.Fatalf("end terminal: code = %d, want %d", errorx.GetCode(err), errorx.CodeAlreadyEnded)
	}
}

func TestEndWithoutAnswerHasNoDuration(t *testing.T) {
	svc, repos, _, roomUuid := newTestService(t)
	callUuid := initiate(t, svc, roomUuid)

	// 未接听即挂断：无时长，振铃时间不计入
	rsp, err := svc.End("U_CALLER", callUuid)
	if err != nil {
		t.Fatalf("End: %v", err)
	}
	if rsp.Status != model.CallStatusEnded {
		t.Fatalf("status = %d", rsp.Status)
	}
	stored, _ := repos.Call.FindByUuid(callUuid)
	if stored.DurationSec.Valid {
		t.Fatal("unanswered call must not have a duration")
	}
}

func TestEndRequiresParty(t *testing.T) {
	svc, repos, _, roomUuid := newTestService(t)
	seedUser(t, repos, "U_EVE", "eve", "eve@test.com")
	callUuid := initiate(t, svc, roomUuid)
	if _, err := svc.End("U_EVE", callUuid); errorx.GetCode(err) != errorx.CodeForbidden {
		t.Fatalf("third party end: code = %d, want %d", errorx.GetCode(err), errorx.CodeForbidden)
	}
}

func TestGetHistory(t *testing.T) {
	svc, _, _, roomUuid := newTestService(t)
	first := initiate(t, svc, roomUuid)
	if _, err := svc.Decline("U_RECEIVER", first); err != nil {
		t.Fatalf("Decline: %v", err)
	}
	second := initiate(t, svc, roomUuid)
	if _, err := svc.End("U_CALLER", second); err != nil {
		t.Fatalf("End: %v", err)
	}

	history, err := svc.GetHistory("U_RECEIVER")
	if err != nil {
		t.Fatalf("GetHistory: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("history length = %d, want 2", len(history))
	}
	// 最新在前
	if history[0].Uuid != second || history[1].Uuid != first {
		t.Fatalf("history not newest-first: %s, %s", history[0].Uuid, history[1].Uuid)
	}
}

func TestAddIceCandidate(t *testing.T) {
	svc, repos, notifier, roomUuid := newTestService(t)
	callUuid := initiate(t, svc, roomUuid)

	// 被叫尚未接听（未加入通话）时不能上报候选
	err := svc.AddIceCandidate("U_RECEIVER", request.IceCandidateRequest{CallUuid: callUuid, Candidate: "cand-r"})
	if errorx.GetCode(err) != errorx.CodeInvalidState {
		t.Fatalf("receiver before join: code = %d, want %d", errorx.GetCode(err), errorx.CodeInvalidState)
	}

	// 主叫振铃期即可 trickle
	if err := svc.AddIceCandidate("U_CALLER", request.IceCandidateRequest{CallUuid: callUuid, Candidate: "cand-1"}); err != nil {
		t.Fatalf("AddIceCandidate: %v", err)
	}
	if err := svc.AddIceCandidate("U_CALLER", request.IceCandidateRequest{CallUuid: callUuid, Candidate: "cand-2"}); err != nil {
		t.Fatalf("AddIceCandidate 2: %v", err)
	}
	participant, err := repos.Call.FindParticipant(callUuid, "U_CALLER")
	if err != nil {
		t.Fatalf("FindParticipant: %v", err)
	}
	if participant.IceCandidates != `["cand-1","cand-2"]` {
		t.Fatalf("candidates = %s", participant.IceCandidates)
	}
	// 候选转发给对端
	if event := notifier.lastEvent(); event == nil || event.Kind != relay.EventCallIce {
		t.Fatalf("expected %s event", relay.EventCallIce)
	}
	if targets := notifier.lastTargets(); len(targets) != 1 || targets[0] != "U_RECEIVER" {
		t.Fatalf("ice event targets = %v", targets)
	}

	// 损坏的候选列表重置而不报错
	participant.IceCandidates = "not-json"
	if err := repos.Call.UpdateParticipant(participant); err != nil {
		t.Fatalf("UpdateParticipant: %v", err)
	}
	if err := svc.AddIceCandidate("U_CALLER", request.IceCandidateRequest{CallUuid: callUuid, Candidate: "cand-3"}); err != nil {
		t.Fatalf("AddIceCandidate after corruption: %v", err)
	}
	participant, _ = repos.Call.FindParticipant(callUuid, "U_CALLER")
	if participant.IceCandidates != `["cand-3"]` {
		t.Fatalf("candidates after reset = %s", participant.IceCandidates)
	}

	// 终态后拒绝上报
	if _, err := svc.End("U_CALLER", callUuid); err != nil {
		t.Fatalf("End: %v", err)
	}
	err = svc.AddIceCandidate("U_CALLER", request.IceCandidateRequest{CallUuid: callUuid, Candidate: "cand-4"})
	if errorx.GetCode(err) != errorx.CodeAlreadyEnded {
		t.Fatalf("ice after end: code = %d, want %d", errorx.GetCode(err), errorx.CodeAlreadyEnded)
	}
}

func TestCallRespondTimeFields(t *testing.T) {
	svc, repos, _, roomUuid := newTestService(t)
	callUuid := initiate(t, svc, roomUuid)

	// 手工构造一个已接听通话，验证时长计算只覆盖接通区间
	stored, err := repos.Call.FindByUuid(callUuid)
	if err != nil {
		t.Fatalf("FindByUuid: %v", err)
	}
	stored.Status = model.CallStatusAccepted
	stored.AnsweredAt = sql.NullTime{Time: time.Now().Add(-90 * time.Second), Valid: true}
	if err := repos.Call.Update(stored); err != nil {
		t.Fatalf("Update: %v", err)
	}

	rsp, err := svc.End("U_RECEIVER", callUuid)
	if err != nil {
		t.Fatalf("End: %v", err)
	}
	if rsp.DurationSec < 89 || rsp.DurationSec > 91 {
		t.Fatalf("duration = %d, want ~90", rsp.DurationSec)
	}
}
