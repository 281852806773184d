package model

import (
	"database/sql"
	"net/http"
	"time"
)

type CheckResult struct {
	Site    Site
	Time    time.Time
	Latency sql.NullInt64
	Code    sql.NullInt64
	Err     string
}

func (c *CheckResult) IsSuccessful() bool {
	return c.Code.Valid && c.Code.Int64 == http.StatusOK
}

// IsDown reports any outcome other than an exact 200 response.
func (c *CheckResult) IsDown() bool {
	return !c.IsSuccessful()
}
