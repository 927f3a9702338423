package notification

import (
	"fmt"
	"strings"
	"time"

	"anchor-sync/internal/features/report"

	"github.com/shopspring/decimal"
)

// CredentialExpiredMessage tells operators an anchor's cookie stopped working.
func CredentialExpiredMessage(anchorName string, now time.Time) string {
	return "[Anchor cookie expired]\n\n" +
		fmt.Sprintf("Anchor: %s\n", anchorName) +
		"Status: cookie is no longer valid, login required\n" +
		fmt.Sprintf("Detected at: %s\n", now.Format("2006-01-02 15:04:05")) +
		"Note: the anchor was set to invalid automatically, update its cookie to resume syncing"
}

// CommissionDigestMessage lists today's and month-to-date commission per anchor plus totals.
func CommissionDigestMessage(rows []report.AnchorCommission, now time.Time) string {
	month := now.Format("2006-01")

	var b strings.Builder
	b.WriteString("[Anchor commission report]\n")
	fmt.Fprintf(&b, "Date: %s\n\n", now.Format("2006-01-02"))

	if len(rows) == 0 {
		b.WriteString("No commission data")
		return b.String()
	}

	totalToday, totalMonth := decimal.Zero, decimal.Zero
	for _, r := range rows {
		fmt.Fprintf(&b, "%s\n", r.AnchorName)
		fmt.Fprintf(&b, "   Today: ¥%s\n", r.Today.StringFixed(2))
		fmt.Fprintf(&b, "   %s: ¥%s\n\n", month, r.Month.StringFixed(2))
		totalToday = totalToday.Add(r.Today)
		totalMonth = totalMonth.Add(r.Month)
	}

	b.WriteString("Totals\n")
	fmt.Fprintf(&b, "   Today: ¥%s\n", totalToday.StringFixed(2))
	fmt.Fprintf(&b, "   %s: ¥%s", month, totalMonth.StringFixed(2))
	return b.String()
}
