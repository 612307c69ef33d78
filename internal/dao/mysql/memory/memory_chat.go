package memory

import (
	"database/sql"
	"time"

	"wave_chat_server/internal/model"
)

// ==================== 房间 ====================

type roomRepo struct{ s *store }

func (r *roomRepo) FindByUuid(uuid string) (*model.Room, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.rooms {
		if r.s.rooms[i].Uuid == uuid {
			room := r.s.rooms[i]
			return &room, nil
		}
	}
	return nil, notFound("房间不存在")
}

func (r *roomRepo) FindActiveDirectByKey(directKey string) (*model.Room, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.rooms {
		if r.s.rooms[i].DirectKey.Valid && r.s.rooms[i].DirectKey.String == directKey && r.s.rooms[i].IsActive {
			room := r.s.rooms[i]
			return &room, nil
		}
	}
	return nil, notFound("单聊房间不存在")
}

func (r *roomRepo) FindRoomsByUser(userUuid string) ([]model.Room, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	member := make(map[string]struct{})
	for i := range r.s.participants {
		if r.s.participants[i].UserUuid == userUuid {
			member[r.s.participants[i].RoomUuid] = struct{}{}
		}
	}
	var rooms []model.Room
	for i := range r.s.rooms {
		if _, ok := member[r.s.rooms[i].Uuid]; ok && r.s.rooms[i].IsActive {
			rooms = append(rooms, r.s.rooms[i])
		}
	}
	// 按 updated_at 倒序
	for i := 0; i < len(rooms); i++ {
		for j := i + 1; j < len(rooms); j++ {
			if rooms[j].UpdatedAt.After(rooms[i].UpdatedAt) {
				rooms[i], rooms[j] = rooms[j], rooms[i]
			}
		}
	}
	return rooms, nil
}

func (r *roomRepo) Create(room *model.Room) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.rooms {
		if room.DirectKey.Valid && r.s.rooms[i].DirectKey.Valid &&
			r.s.rooms[i].DirectKey.String == room.DirectKey.String {
			return conflict("单聊房间已存在")
		}
	}
	r.s.stamp(&room.Model)
	r.s.rooms = append(r.s.rooms, *room)
	return nil
}

func (r *roomRepo) TouchUpdatedAt(roomUuid string, t time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.rooms {
		if r.s.rooms[i].Uuid == roomUuid {
			r.s.rooms[i].UpdatedAt = t
			return nil
		}
	}
	return nil
}

func (r *roomRepo) FindParticipant(roomUuid, userUuid string) (*model.RoomParticipant, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.participants {
		if r.s.participants[i].RoomUuid == roomUuid && r.s.participants[i].UserUuid == userUuid {
			p := r.s.participants[i]
			return &p, nil
		}
	}
	return nil, notFound("房间成员不存在")
}

func (r *roomRepo) FindParticipantsByRoom(roomUuid string) ([]model.RoomParticipant, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []model.RoomParticipant
	for i := range r.s.participants {
		if r.s.participants[i].RoomUuid == roomUuid {
			list = append(list, r.s.participants[i])
		}
	}
	return list, nil
}

func (r *roomRepo) CreateParticipant(participant *model.RoomParticipant) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.participants {
		if r.s.participants[i].RoomUuid == participant.RoomUuid &&
			r.s.participants[i].UserUuid == participant.UserUuid {
			return conflict("成员已存在")
		}
	}
	r.s.stamp(&participant.Model)
	r.s.participants = append(r.s.participants, *participant)
	return nil
}

func (r *roomRepo) UpdateLastRead(roomUuid, userUuid string, t time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.participants {
		if r.s.participants[i].RoomUuid == roomUuid && r.s.participants[i].UserUuid == userUuid {
			r.s.participants[i].LastReadAt = sql.NullTime{Time: t, Valid: true}
			return nil
		}
	}
	return nil
}

func (r *roomRepo) CountUnread(roomUuid, userUuid string, cursor sql.NullTime) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var count int64
	for i := range r.s.messages {
		m := &r.s.messages[i]
		if m.RoomUuid != roomUuid || m.SenderUuid == userUuid || m.DeletedMark.Valid {
			continue
		}
		if cursor.Valid && !m.CreatedAt.After(cursor.Time) {
			continue
		}
		count++
	}
	return count, nil
}

// ==================== 消息 ====================

type messageRepo struct{ s *store }

func (r *messageRepo) FindByUuid(uuid int64) (*model.Message, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.messages {
		if r.s.messages[i].Uuid == uuid {
			m := r.s.messages[i]
			return &m, nil
		}
	}
	return nil, notFound("消息不存在")
}

func (r *messageRepo) FindVisibleByRoom(roomUuid string, before int64, limit int) ([]model.Message, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []model.Message
	// 追加式日志，倒序遍历即最新在前
	for i := len(r.s.messages) - 1; i >= 0; i-- {
		if r.s.messages[i].RoomUuid != roomUuid || r.s.messages[i].DeletedMark.Valid {
			continue
		}
		if before > 0 && r.s.messages[i].Uuid >= before {
			continue
		}
		list = append(list, r.s.messages[i])
		if limit > 0 && len(list) >= limit {
			break
		}
	}
	return list, nil
}

func (r *messageRepo) FindLastByRoom(roomUuid string) (*model.Message, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := len(r.s.messages) - 1; i >= 0; i-- {
		if r.s.messages[i].RoomUuid == roomUuid && !r.s.messages[i].DeletedMark.Valid {
			m := r.s.messages[i]
			return &m, nil
		}
	}
	return nil, notFound("房间没有消息")
}

func (r *messageRepo) Create(message *model.Message) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.messages {
		if r.s.messages[i].Uuid == message.Uuid {
			return conflict("消息已存在")
		}
	}
	r.s.stamp(&message.Model)
	r.s.messages = append(r.s.messages, *message)
	return nil
}

func (r *messageRepo) Update(message *model.Message) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.messages {
		if r.s.messages[i].Uuid == message.Uuid {
			r.s.messages[i] = *message
			return nil
		}
	}
	return notFound("消息不存在")
}

func (r *messageRepo) FindStatus(messageUuid int64, userUuid string) (*model.MessageStatus, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.messageStatuses {
		if r.s.messageStatuses[i].MessageUuid == messageUuid && r.s.messageStatuses[i].UserUuid == userUuid {
			st := r.s.messageStatuses[i]
			return &st, nil
		}
	}
	return nil, notFound("消息状态不存在")
}

func (r *messageRepo) CreateStatus(status *model.MessageStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.messageStatuses {
		if r.s.messageStatuses[i].MessageUuid == status.MessageUuid &&
			r.s.messageStatuses[i].UserUuid == status.UserUuid {
			return conflict("消息状态已存在")
		}
	}
	r.s.stamp(&status.Model)
	r.s.messageStatuses = append(r.s.messageStatuses, *status)
	return nil
}

func (r *messageRepo) UpdateStatus(status *model.MessageStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.messageStatuses {
		if r.s.messageStatuses[i].MessageUuid == status.MessageUuid &&
			r.s.messageStatuses[i].UserUuid == status.UserUuid {
			r.s.messageStatuses[i] = *status
			return nil
		}
	}
	return notFound("消息状态不存在")
}

// ==================== 动态 ====================

type statusRepo struct{ s *store }

func (r *statusRepo) FindByUuid(uuid string) (*model.StatusUpdate, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.statuses {
		if r.s.statuses[i].Uuid == uuid {
			st := r.s.statuses[i]
			return &st, nil
		}
	}
	return nil, notFound("动态不存在")
}

func (r *statusRepo) FindFeed(userUuid string, contactOwnerUuids []string, now time.Time) ([]model.StatusUpdate, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	owners := make(map[string]struct{}, len(contactOwnerUuids))
	for _, owner := range contactOwnerUuids {
		owners[owner] = struct{}{}
	}
	var list []model.StatusUpdate
	for i := len(r.s.statuses) - 1; i >= 0; i-- {
		st := &r.s.statuses[i]
		if st.OwnerUuid == userUuid || !st.ExpiresAt.After(now) {
			continue
		}
		visible := false
		switch st.Visibility {
		case model.VisibilityEveryone:
			visible = true
		case model.VisibilityContacts:
			_, visible = owners[st.OwnerUuid]
		case model.VisibilityCustom:
			for j := range r.s.statusViewers {
				if r.s.statusViewers[j].StatusUuid == st.Uuid && r.s.statusViewers[j].UserUuid == userUuid {
					visible = true
					break
				}
			}
		}
		if visible {
			list = append(list, *st)
		}
	}
	return list, nil
}

func (r *statusRepo) FindActiveByOwner(ownerUuid string, now time.Time) ([]model.StatusUpdate, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []model.StatusUpdate
	for i := len(r.s.statuses) - 1; i >= 0; i-- {
		if r.s.statuses[i].OwnerUuid == ownerUuid && r.s.statuses[i].ExpiresAt.After(now) {
			list = append(list, r.s.statuses[i])
		}
	}
	return list, nil
}

func (r *statusRepo) Create(status *model.StatusUpdate) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.stamp(&status.Model)
	r.s.statuses = append(r.s.statuses, *status)
	return nil
}

func (r *statusRepo) Delete(uuid string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	kept := r.s.statuses[:0]
	for i := range r.s.statuses {
		if r.s.statuses[i].Uuid != uuid {
			kept = append(kept, r.s.statuses[i])
		}
	}
	r.s.statuses = kept
	// 级联清理白名单、浏览记录与表态
	viewers := r.s.statusViewers[:0]
	for i := range r.s.statusViewers {
		if r.s.statusViewers[i].StatusUuid != uuid {
			viewers = append(viewers, r.s.statusViewers[i])
		}
	}
	r.s.statusViewers = viewers
	views := r.s.statusViews[:0]
	for i := range r.s.statusViews {
		if r.s.statusViews[i].StatusUuid != uuid {
			views = append(views, r.s.statusViews[i])
		}
	}
	r.s.statusViews = views
	reactions := r.s.statusReactions[:0]
	for i := range r.s.statusReactions {
		if r.s.statusReactions[i].StatusUuid != uuid {
			reactions = append(reactions, r.s.statusReactions[i])
		}
	}
	r.s.statusReactions = reactions
	return nil
}

func (r *statusRepo) CreateViewers(viewers []model.StatusViewer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range viewers {
		r.s.stamp(&viewers[i].Model)
		r.s.statusViewers = append(r.s.statusViewers, viewers[i])
	}
	return nil
}

func (r *statusRepo) FindViewer(statusUuid, userUuid string) (*model.StatusViewer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.statusViewers {
		if r.s.statusViewers[i].StatusUuid == statusUuid && r.s.statusViewers[i].UserUuid == userUuid {
			v := r.s.statusViewers[i]
			return &v, nil
		}
	}
	return nil, notFound("白名单记录不存在")
}

func (r *statusRepo) CreateViewIfAbsent(view *model.StatusView) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.statusViews {
		if r.s.statusViews[i].StatusUuid == view.StatusUuid && r.s.statusViews[i].ViewerUuid == view.ViewerUuid {
			return false, nil
		}
	}
	r.s.stamp(&view.Model)
	r.s.statusViews = append(r.s.statusViews, *view)
	return true, nil
}

func (r *statusRepo) IncrementViewCount(statusUuid string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.statuses {
		if r.s.statuses[i].Uuid == statusUuid {
			r.s.statuses[i].ViewCount++
			return nil
		}
	}
	return nil
}

func (r *statusRepo) FindViewsByStatus(statusUuid string) ([]model.StatusView, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []model.StatusView
	for i := len(r.s.statusViews) - 1; i >= 0; i-- {
		if r.s.statusViews[i].StatusUuid == statusUuid {
			list = append(list, r.s.statusViews[i])
		}
	}
	return list, nil
}

func (r *statusRepo) UpsertReaction(reaction *model.StatusReaction) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.statusReactions {
		if r.s.statusReactions[i].StatusUuid == reaction.StatusUuid &&
			r.s.statusReactions[i].UserUuid == reaction.UserUuid {
			r.s.statusReactions[i].Reaction = reaction.Reaction
			return nil
		}
	}
	r.s.stamp(&reaction.Model)
	r.s.statusReactions = append(r.s.statusReactions, *reaction)
	return nil
}

func (r *statusRepo) DeleteReaction(statusUuid, userUuid string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.statusReactions {
		if r.s.statusReactions[i].StatusUuid == statusUuid && r.s.statusReactions[i].UserUuid == userUuid {
			r.s.statusReactions = append(r.s.statusReactions[:i], r.s.statusReactions[i+1:]...)
			return nil
		}
	}
	return notFound("表态不存在")
}

// ==================== 通话 ====================

type callRepo struct{ s *store }

func (r *callRepo) FindByUuid(uuid string) (*model.VideoCall, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.calls {
		if r.s.calls[i].Uuid == uuid {
			c := r.s.calls[i]
			return &c, nil
		}
	}
	return nil, notFound("通话不存在")
}

func (r *callRepo) FindActiveByRoom(roomUuid string) (*model.VideoCall, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.calls {
		c := &r.s.calls[i]
		if c.RoomUuid != roomUuid {
			continue
		}
		switch c.Status {
		case model.CallStatusInitiated, model.CallStatusRinging, model.CallStatusAccepted:
			found := *c
			return &found, nil
		}
	}
	return nil, notFound("没有进行中的通话")
}

func (r *callRepo) FindHistoryByUser(userUuid string, limit int) ([]model.VideoCall, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []model.VideoCall
	for i := len(r.s.calls) - 1; i >= 0; i-- {
		if r.s.calls[i].CallerUuid == userUuid || r.s.calls[i].ReceiverUuid == userUuid {
			list = append(list, r.s.calls[i])
			if limit > 0 && len(list) >= limit {
				break
			}
		}
	}
	return list, nil
}

func (r *callRepo) Create(call *model.VideoCall) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.stamp(&call.Model)
	r.s.calls = append(r.s.calls, *call)
	return nil
}

func (r *callRepo) Update(call *model.VideoCall) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.calls {
		if r.s.calls[i].Uuid == call.Uuid {
			r.s.calls[i] = *call
			return nil
		}
	}
	return notFound("通话不存在")
}

func (r *callRepo) FindParticipant(callUuid, userUuid string) (*model.CallParticipant, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.callParticipants {
		if r.s.callParticipants[i].CallUuid == callUuid && r.s.callParticipants[i].UserUuid == userUuid {
			p := r.s.callParticipants[i]
			return &p, nil
		}
	}
	return nil, notFound("通话参与者不存在")
}

func (r *callRepo) CreateParticipant(participant *model.CallParticipant) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.callParticipants {
		if r.s.callParticipants[i].CallUuid == participant.CallUuid &&
			r.s.callParticipants[i].UserUuid == participant.UserUuid {
			return conflict("参与者已存在")
		}
	}
	r.s.stamp(&participant.Model)
	r.s.callParticipants = append(r.s.callParticipants, *participant)
	return nil
}

func (r *callRepo) UpdateParticipant(participant *model.CallParticipant) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.callParticipants {
		if r.s.callParticipants[i].CallUuid == participant.CallUuid &&
			r.s.callParticipants[i].UserUuid == participant.UserUuid {
			r.s.callParticipants[i] = *participant
			return nil
		}
	}
	return notFound("通话参与者不存在")
}

func (r *callRepo) MarkAllLeft(callUuid string, t time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.callParticipants {
		if r.s.callParticipants[i].CallUuid == callUuid && !r.s.callParticipants[i].LeftAt.Valid {
			r.s.callParticipants[i].LeftAt = sql.NullTime{Time: t, Valid: true}
		}
	}
	return nil
}
