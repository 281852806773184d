package model

type Site struct {
	Id      int64  `json:"id"`
	OwnerId int64  `json:"owner_id"`
	Url     string `json:"url"`
}
