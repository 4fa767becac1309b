// Package links builds the outward facing URLs of the codex: bug report
// forms and the sitemap of the web front end.
package links

import (
	"net/url"
)

const (
	BugReportForm = "https://docs.google.com/forms/d/e/1FAIpQLScxlEAJEhjC-R7MNLRKnJbHxNafW2JmpJFNDZmoSSxQumIJeQ/viewform"

	bugReportDataType = "entry.1487200738"
	bugReportTarget   = "entry.1009744106"
)

// BugReportURL returns the prefilled report form for one entry, e.g.
// dataType "creatures" and target "Fire Drake".
func BugReportURL(dataType, target string) string {
	u, _ := url.Parse(BugReportForm)
	q := u.Query()
	q.Add(bugReportDataType, dataType)
	q.Add(bugReportTarget, target)
	u.RawQuery = q.Encode()
	return u.String()
}
