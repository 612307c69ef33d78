package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"wave_chat_server/internal/dto/request"
	"wave_chat_server/internal/dto/respond"
	"wave_chat_server/internal/handler"
	"wave_chat_server/internal/https_server"
	"wave_chat_server/internal/service"
	"wave_chat_server/internal/service/relay"
	"wave_chat_server/pkg/util/jwt"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type stubUserService struct{}

type stubContactService struct{}

type stubInvitationService struct{}

type stubRoomService struct{}

type stubMessageService struct{}

type stubStatusService struct{}

type stubCallService struct{}

func (s stubUserService) Register(req request.RegisterRequest) (*respond.LoginRespond, error) {
	return &respond.LoginRespond{}, nil
}
func (s stubUserService) Login(req request.LoginRequest) (*respond.LoginRespond, error) {
	return &respond.LoginRespond{}, nil
}
func (s stubUserService) Logout(userUuid string) error { return nil }
func (s stubUserService) GetUserInfo(viewerUuid, targetUuid string) (*respond.UserInfoRespond, error) {
	return &respond.UserInfoRespond{}, nil
}
func (s stubUserService) UpdateUserInfo(userUuid string, req request.UpdateUserInfoRequest) (*respond.UserInfoRespond, error) {
	return &respond.UserInfoRespond{}, nil
}

func (s stubContactService) AddContact(ownerUuid string, req request.AddContactRequest) error {
	return nil
}
func (s stubContactService) SetNickname(ownerUuid string, req request.UpdateContactRequest) error {
	return nil
}
func (s stubContactService) SetBlocked(ownerUuid, targetUuid string, blocked bool) error { return nil }
func (s stubContactService) GetContactList(ownerUuid string) ([]respond.ContactRespond, error) {
	return []respond.ContactRespond{}, nil
}

func (s stubInvitationService) GetOrCreateDefault(ownerUuid string) (*respond.InvitationRespond, error) {
	return &respond.InvitationRespond{}, nil
}
func (s stubInvitationService) Regenerate(ownerUuid string) (*respond.InvitationRespond, error) {
	return &respond.InvitationRespond{}, nil
}
func (s stubInvitationService) LookupPublicInfo(token, ipAddress, userAgent string) (*respond.InvitationInfoRespond, error) {
	return &respond.InvitationInfoRespond{}, nil
}
func (s stubInvitationService) Accept(userUuid, token, ipAddress, userAgent string) (*respond.AcceptInvitationRespond, error) {
	return &respond.AcceptInvitationRespond{}, nil
}

func (s stubRoomService) GetOrCreateDirect(userUuid, targetUuid string) (*respond.RoomRespond, error) {
	return &respond.RoomRespond{}, nil
}
func (s stubRoomService) GetRoomList(userUuid string) ([]respond.RoomRespond, error) {
	return []respond.RoomRespond{}, nil
}
func (s stubRoomService) MarkRead(userUuid, roomUuid string) error { return nil }

func (s stubMessageService) SendMessage(senderUuid string, req request.SendMessageRequest) (*respond.MessageRespond, error) {
	return &respond.MessageRespond{}, nil
}
func (s stubMessageService) GetMessageList(userUuid string, req request.ListMessageRequest) ([]respond.MessageRespond, error) {
	return []respond.MessageRespond{}, nil
}
func (s stubMessageService) EditMessage(userUuid string, req request.EditMessageRequest) (*respond.MessageRespond, error) {
	return &respond.MessageRespond{}, nil
}
func (s stubMessageService) DeleteMessage(userUuid string, messageUuid int64) error { return nil }
func (s stubMessageService) UpsertStatus(userUuid string, req request.MessageStatusRequest) error {
	return nil
}

func (s stubStatusService) CreateStatus(ownerUuid string, req request.CreateStatusRequest) (*respond.StatusRespond, error) {
	return &respond.StatusRespond{}, nil
}
func (s stubStatusService) GetFeed(userUuid string) ([]respond.StatusRespond, error) {
	return []respond.StatusRespond{}, nil
}
func (s stubStatusService) GetMyStatuses(ownerUuid string) ([]respond.StatusRespond, error) {
	return []respond.StatusRespond{}, nil
}
func (s stubStatusService) RecordView(viewerUuid, statusUuid string) error { return nil }
func (s stubStatusService) GetViewers(ownerUuid, statusUuid string) ([]respond.StatusViewerRespond, error) {
	return []respond.StatusViewerRespond{}, nil
}
func (s stubStatusService) React(userUuid string, req request.ReactStatusRequest) error { return nil }
func (s stubStatusService) Unreact(userUuid, statusUuid string) error                   { return nil }
func (s stubStatusService) DeleteStatus(ownerUuid, statusUuid string) error             { return nil }

func (s stubCallService) Initiate(callerUuid string, req request.InitiateCallRequest) (*respond.CallRespond, error) {
	return &respond.CallRespond{}, nil
}
func (s stubCallService) Accept(userUuid string, req request.AcceptCallRequest) (*respond.CallRespond, error) {
	return &respond.CallRespond{}, nil
}
func (s stubCallService) Decline(userUuid, callUuid string) (*respond.CallRespond, error) {
	return &respond.CallRespond{}, nil
}
func (s stubCallService) End(userUuid, callUuid string) (*respond.CallRespond, error) {
	return &respond.CallRespond{}, nil
}
func (s stubCallService) GetHistory(userUuid string) ([]respond.CallRespond, error) {
	return []respond.CallRespond{}, nil
}
func (s stubCallService) AddIceCandidate(userUuid string, req request.IceCandidateRequest) error {
	return nil
}

type stubBroker struct {
	clients sync.Map
}

func (b *stubBroker) Publish(ctx context.Context, msg []byte) error { return nil }
func (b *stubBroker) RegisterClient(client *relay.UserConn)         { b.clients.Store(client.Uuid, client) }
func (b *stubBroker) UnregisterClient(client *relay.UserConn)       { b.clients.Delete(client.Uuid) }
func (b *stubBroker) GetClient(userUuid string) *relay.UserConn {
	if v, ok := b.clients.Load(userUuid); ok {
		return v.(*relay.UserConn)
	}
	return nil
}
func (b *stubBroker) Start() {}
func (b *stubBroker) Close() {}

func mustJSON(t *testing.T, v any) io.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("json marshal: %v", err)
	}
	return bytes.NewReader(b)
}

func doReq(t *testing.T, client *http.Client, method, url string, body io.Reader, authHeader string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("do request %s %s: %v", method, url, err)
	}
	return resp
}

func requireNot5xxOr404(t *testing.T, path string, resp *http.Response) {
	t.Helper()
	if resp.StatusCode == http.StatusNotFound || resp.StatusCode >= 500 {
		t.Fatalf("%s status=%d", path, resp.StatusCode)
	}
}

func TestAllHTTPAndWebSocketEndpoints_Smoke(t *testing.T) {
	gin.SetMode(gin.TestMode)
	jwt.Init("test-secret", 15, 168)

	broker := &stubBroker{}
	svcs := &service.Services{
		User:       stubUserService{},
		Contact:    stubContactService{},
		Invitation: stubInvitationService{},
		Room:       stubRoomService{},
		Message:    stubMessageService{},
		Status:     stubStatusService{},
		Call:       stubCallService{},
	}

	engine := https_server.Init(handler.NewHandlers(svcs, broker))
	server := httptest.NewServer(engine)
	defer server.Close()

	client := &http.Client{Timeout: 5 * time.Second}

	accessToken, err := jwt.GenerateAccessToken("U_TEST")
	if err != nil {
		t.Fatalf("generate access token: %v", err)
	}
	authHeader := "Bearer " + accessToken

	// ===== 公共接口（无需鉴权） =====
	resp := doReq(t, client, http.MethodPost, server.URL+"/auth/register", mustJSON(t, map[string]any{
		"username": "smoke",
		"email":    "smoke@test.com",
		"password": "123456",
	}), "")
	requireNot5xxOr404(t, "/auth/register", resp)
	_ = resp.Body.Close()

	resp = doReq(t, client, http.MethodPost, server.URL+"/auth/login", mustJSON(t, map[string]any{
		"email":    "smoke@test.com",
		"password": "123456",
	}), "")
	requireNot5xxOr404(t, "/auth/login", resp)
	_ = resp.Body.Close()

	resp = doReq(t, client, http.MethodGet, server.URL+"/invite/abcdefabcdefabcdefabcdefabcdefab", nil, "")
	requireNot5xxOr404(t, "/invite/:token", resp)
	_ = resp.Body.Close()

	// 未带 Token 访问受保护接口应得 401
	resp = doReq(t, client, http.MethodGet, server.URL+"/user/me", nil, "")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("/user/me without token status=%d", resp.StatusCode)
	}
	_ = resp.Body.Close()

	// ===== 私有接口（需要鉴权） =====
	resp = doReq(t, client, http.MethodPost, server.URL+"/auth/logout", nil, authHeader)
	requireNot5xxOr404(t, "/auth/logout", resp)
	_ = resp.Body.Close()

	resp = doReq(t, client, http.MethodGet, server.URL+"/user/me", nil, authHeader)
	requireNot5xxOr404(t, "/user/me", resp)
	_ = resp.Body.Close()

	resp = doReq(t, client, http.MethodGet, server.URL+"/user/info/U_2", nil, authHeader)
	requireNot5xxOr404(t, "/user/info/:uuid", resp)
	_ = resp.Body.Close()

	resp = doReq(t, client, http.MethodPost, server.URL+"/user/update", mustJSON(t, map[string]any{
		"bio": "hello",
	}), authHeader)
	requireNot5xxOr404(t, "/user/update", resp)
	_ = resp.Body.Close()

	resp = doReq(t, client, http.MethodPost, server.URL+"/contact/add", mustJSON(t, map[string]any{
		"target_uuid": "U_2",
		"nickname":    "n",
	}), authHeader)
	requireNot5xxOr404(t, "/contact/add", resp)
	_ = resp.Body.Close()

	resp = doReq(t, client, http.MethodPost, server.URL+"/contact/nickname", mustJSON(t, map[string]any{
		"target_uuid": "U_2",
		"nickname":    "n2",
	}), authHeader)
	requireNot5xxOr404(t, "/contact/nickname", resp)
	_ = resp.Body.Close()

	for _, path := range []string{"/contact/block", "/contact/unblock"} {
		resp = doReq(t, client, http.MethodPost, server.URL+path, mustJSON(t, map[string]any{
			"target_uuid": "U_2",
		}), authHeader)
		requireNot5xxOr404(t, path, resp)
		_ = resp.Body.Close()
	}

	resp = doReq(t, client, http.MethodGet, server.URL+"/contact/list", nil, authHeader)
	requireNot5xxOr404(t, "/contact/list", resp)
	_ = resp.Body.Close()

	resp = doReq(t, client, http.MethodGet, server.URL+"/invitation/my", nil, authHeader)
	requireNot5xxOr404(t, "/invitation/my", resp)
	_ = resp.Body.Close()

	resp = doReq(t, client, http.MethodPost, server.URL+"/invitation/regenerate", nil, authHeader)
	requireNot5xxOr404(t, "/invitation/regenerate", resp)
	_ = resp.Body.Close()

	resp = doReq(t, client, http.MethodPost, server.URL+"/invitation/accept", mustJSON(t, map[string]any{
		"token": "abcdefabcdefabcdefabcdefabcdefab",
	}), authHeader)
	requireNot5xxOr404(t, "/invitation/accept", resp)
	_ = resp.Body.Close()

	resp = doReq(t, client, http.MethodPost, server.URL+"/room/direct", mustJSON(t, map[string]any{
		"target_uuid": "U_2",
	}), authHeader)
	requireNot5xxOr404(t, "/room/direct", resp)
	_ = resp.Body.Close()

	resp = doReq(t, client, http.MethodGet, server.URL+"/room/list", nil, authHeader)
	requireNot5xxOr404(t, "/room/list", resp)
	_ = resp.Body.Close()

	resp = doReq(t, client, http.MethodPost, server.URL+"/room/markRead", mustJSON(t, map[string]any{
		"room_uuid": "R_1",
	}), authHeader)
	requireNot5xxOr404(t, "/room/markRead", resp)
	_ = resp.Body.Close()

	resp = doReq(t, client, http.MethodPost, server.URL+"/message/send", mustJSON(t, map[string]any{
		"room_uuid":  "R_1",
		"type":       0,
		"ciphertext": "Y2lwaGVy",
		"nonce":      "bm9uY2U=",
		"tag":        "dGFn",
	}), authHeader)
	requireNot5xxOr404(t, "/message/send", resp)
	_ = resp.Body.Close()

	resp = doReq(t, client, http.MethodGet, server.URL+"/message/list?room_uuid=R_1&limit=20", nil, authHeader)
	requireNot5xxOr404(t, "/message/list", resp)
	_ = resp.Body.Close()

	resp = doReq(t, client, http.MethodPost, server.URL+"/message/edit", mustJSON(t, map[string]any{
		"message_uuid": "1",
		"ciphertext":   "Y2lwaGVy",
		"nonce":        "bm9uY2U=",
		"tag":          "dGFn",
	}), authHeader)
	requireNot5xxOr404(t, "/message/edit", resp)
	_ = resp.Body.Close()

	resp = doReq(t, client, http.MethodPost, server.URL+"/message/delete", mustJSON(t, map[string]any{
		"message_uuid": "1",
	}), authHeader)
	requireNot5xxOr404(t, "/message/delete", resp)
	_ = resp.Body.Close()

	resp = doReq(t, client, http.MethodPost, server.URL+"/message/status", mustJSON(t, map[string]any{
		"message_uuid": "1",
		"status":       2,
	}), authHeader)
	requireNot5xxOr404(t, "/message/status", resp)
	_ = resp.Body.Close()

	resp = doReq(t, client, http.MethodPost, server.URL+"/status/create", mustJSON(t, map[string]any{
		"type": 0,
		"text": "hello",
	}), authHeader)
	requireNot5xxOr404(t, "/status/create", resp)
	_ = resp.Body.Close()

	resp = doReq(t, client, http.MethodGet, server.URL+"/status/feed", nil, authHeader)
	requireNot5xxOr404(t, "/status/feed", resp)
	_ = resp.Body.Close()

	resp = doReq(t, client, http.MethodGet, server.URL+"/status/my", nil, authHeader)
	requireNot5xxOr404(t, "/status/my", resp)
	_ = resp.Body.Close()

	for _, path := range []string{"/status/view", "/status/unreact", "/status/delete"} {
		resp = doReq(t, client, http.MethodPost, server.URL+path, mustJSON(t, map[string]any{
			"status_uuid": "ST_1",
		}), authHeader)
		requireNot5xxOr404(t, path, resp)
		_ = resp.Body.Close()
	}

	resp = doReq(t, client, http.MethodGet, server.URL+"/status/viewers?status_uuid=ST_1", nil, authHeader)
	requireNot5xxOr404(t, "/status/viewers", resp)
	_ = resp.Body.Close()

	resp = doReq(t, client, http.MethodPost, server.URL+"/status/react", mustJSON(t, map[string]any{
		"status_uuid": "ST_1",
		"reaction":    1,
	}), authHeader)
	requireNot5xxOr404(t, "/status/react", resp)
	_ = resp.Body.Close()

	resp = doReq(t, client, http.MethodPost, server.URL+"/call/initiate", mustJSON(t, map[string]any{
		"room_uuid": "R_1",
		"type":      0,
		"offer_sdp": "v=0",
	}), authHeader)
	requireNot5xxOr404(t, "/call/initiate", resp)
	_ = resp.Body.Close()

	resp = doReq(t, client, http.MethodPost, server.URL+"/call/accept", mustJSON(t, map[string]any{
		"call_uuid":  "C_1",
		"answer_sdp": "v=0",
	}), authHeader)
	requireNot5xxOr404(t, "/call/accept", resp)
	_ = resp.Body.Close()

	for _, path := range []string{"/call/decline", "/call/end"} {
		resp = doReq(t, client, http.MethodPost, server.URL+path, mustJSON(t, map[string]any{
			"call_uuid": "C_1",
		}), authHeader)
		requireNot5xxOr404(t, path, resp)
		_ = resp.Body.Close()
	}

	resp = doReq(t, client, http.MethodGet, server.URL+"/call/history", nil, authHeader)
	requireNot5xxOr404(t, "/call/history", resp)
	_ = resp.Body.Close()

	resp = doReq(t, client, http.MethodPost, server.URL+"/call/ice", mustJSON(t, map[string]any{
		"call_uuid": "C_1",
		"candidate": "candidate:1",
	}), authHeader)
	requireNot5xxOr404(t, "/call/ice", resp)
	_ = resp.Body.Close()

	// ===== WebSocket 接口（握手经 query 传 token） =====
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws?token=" + accessToken
	wsConn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("websocket dial: %v", err)
	}
	_ = wsConn.Close()
}
