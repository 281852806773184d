package telegram

import (
	"downalert/internal/model"
	"downalert/internal/service"
	"fmt"
	"strconv"
	"strings"
)

const (
	startMessage = `Hi, I'm a bot that checks every few minutes if your websites are down and then alerts you.

Send /add <url> to add a website to the watchlist.
Send /list to list all websites in the watchlist.
Send /remove <website_id> to remove a website from the watchlist.`

	addedMessage          = "Website added to the watchlist.\nYou will be notified if the website is down."
	invalidURLMessage     = "Invalid URL. (e.g '/add https://example.com')"
	invalidAddMessage     = "Invalid command. (e.g '/add https://example.com')"
	alreadyWatchedMessage = "Website already in the watchlist."
	emptyWatchlistMessage = "No website in the watchlist."
	removedMessage        = "Website removed from the watchlist."
	notFoundMessage       = "Website not found in the watchlist."
	invalidRemoveMessage  = "Invalid command. (e.g '/remove 1')"
	notAdminMessage       = "You are not an admin."
	failureMessage        = "Something went wrong, please try again later."
)

const (
	statusPending = "⏳"
	statusUp      = "✅"
	statusDown    = "📛"
)

var markdownEscaper = strings.NewReplacer("_", "\\_", "*", "\\*", "`", "\\`", "[", "\\[")

// alertMessage is sent with ModeMarkdown, so the url has its entity
// characters escaped.
func alertMessage(url string) string {
	return fmt.Sprintf("*DOWN ALERT⚠️⚠️: * %s is down !", markdownEscaper.Replace(url))
}

func siteLine(site model.Site, status string) string {
	return fmt.Sprintf("%d. %s %s", site.Id, site.Url, status)
}

func pendingList(sites []model.Site) string {
	lines := make([]string, 0, len(sites))
	for _, site := range sites {
		lines = append(lines, siteLine(site, statusPending))
	}
	return strings.Join(lines, "\n")
}

func statusList(statuses []service.SiteStatus) string {
	lines := make([]string, 0, len(statuses))
	for _, s := range statuses {
		status := statusUp
		if s.Down {
			status = statusDown
		}
		lines = append(lines, siteLine(s.Site, status))
	}
	return strings.Join(lines, "\n")
}

// parseAddArgs accepts exactly one argument, the url.
func parseAddArgs(args []string) (string, bool) {
	if len(args) != 1 {
		return "", false
	}
	return args[0], true
}

// parseRemoveArgs accepts exactly one numeric argument, the site id.
func parseRemoveArgs(args []string) (int64, bool) {
	if len(args) != 1 {
		return 0, false
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

func adminList(urls []string) string {
	if len(urls) == 0 {
		return emptyWatchlistMessage
	}
	return strings.Join(urls, "\n")
}
