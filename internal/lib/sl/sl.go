package sl

import (
	"downalert/internal/model"
	"log/slog"
)

func Error(err error) slog.Attr {
	return slog.String("error", err.Error())
}

func CheckResult(result model.CheckResult) slog.Attr {
	attrs := []any{
		slog.String("url", result.Site.Url),
		slog.Int64("code", result.Code.Int64),
		slog.Int64("latency_ms", result.Latency.Int64),
	}
	if result.Err != "" {
		attrs = append(attrs, slog.String("error", result.Err))
	}
	return slog.Group("check_result", attrs...)
}

func Site(site model.Site) slog.Attr {
	return slog.Group("site",
		slog.Int64("id", site.Id),
		slog.Int64("owner_id", site.OwnerId),
		slog.String("url", site.Url),
	)
}

func Alert(alert model.Alert) slog.Attr {
	return slog.Group("alert",
		slog.Int64("site_id", alert.SiteId),
		slog.Int64("owner_id", alert.OwnerId),
		slog.String("url", alert.Url),
	)
}
