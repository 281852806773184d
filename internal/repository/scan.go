package repository

import (
	"database/sql"
	"downalert/internal/model"
)

// ScanSites drains rows of (id, owner_id, url).
func ScanSites(rows *sql.Rows) ([]model.Site, error) {
	defer rows.Close()

	sites := make([]model.Site, 0)
	for rows.Next() {
		var site model.Site
		if err := rows.Scan(&site.Id, &site.OwnerId, &site.Url); err != nil {
			return nil, err
		}
		sites = append(sites, site)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return sites, nil
}
