package dto

type UnseenCountResponse struct {
	Unseen int64 `json:"unseen"`
}

type MarkAllSeenResponse struct {
	Updated int64 `json:"updated"`
}
