package respond

// CallRespond 通话返回
type CallRespond struct {
	Uuid         string `json:"uuid"`
	RoomUuid     string `json:"room_uuid"`
	CallerUuid   string `json:"caller_uuid"`
	ReceiverUuid string `json:"receiver_uuid"`
	Type         int8   `json:"type"`
	Status       int8   `json:"status"`
	InitiatedAt  string `json:"initiated_at"`
	AnsweredAt   string `json:"answered_at,omitempty"`
	EndedAt      string `json:"ended_at,omitempty"`
	DurationSec  int64  `json:"duration_sec"`
	OfferSdp     string `json:"offer_sdp,omitempty"`
	AnswerSdp    string `json:"answer_sdp,omitempty"`
}
