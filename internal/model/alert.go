package model

import "time"

type Alert struct {
	SiteId  int64     `json:"site_id"`
	OwnerId int64     `json:"owner_id"`
	Url     string    `json:"url"`
	Code    *int64    `json:"code,omitempty"`
	Time    time.Time `json:"time"`
}

func NewAlert(result CheckResult) Alert {
	alert := Alert{
		SiteId:  result.Site.Id,
		OwnerId: result.Site.OwnerId,
		Url:     result.Site.Url,
		Time:    result.Time,
	}
	if result.Code.Valid {
		code := result.Code.Int64
		alert.Code = &code
	}
	return alert
}
