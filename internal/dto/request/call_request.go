package request

// InitiateCallRequest 发起通话请求
type InitiateCallRequest struct {
	RoomUuid string `json:"room_uuid" binding:"required"`
	Type     int8   `json:"type" binding:"oneof=0 1"`
	OfferSdp string `json:"offer_sdp" binding:"required"`
}

// AcceptCallRequest 接听通话请求
type AcceptCallRequest struct {
	CallUuid  string `json:"call_uuid" binding:"required"`
	AnswerSdp string `json:"answer_sdp" binding:"required"`
}

// CallUuidRequest 按通话 uuid 操作的通用请求
type CallUuidRequest struct {
	CallUuid string `json:"call_uuid" binding:"required"`
}

// IceCandidateRequest 上报 ICE candidate 请求
type IceCandidateRequest struct {
	CallUuid  string `json:"call_uuid" binding:"required"`
	Candidate string `json:"candidate" binding:"required"`
}
