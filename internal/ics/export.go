// Package ics serializes the event store to iCalendar text and reads
// VEVENTs back in.
package ics

import (
	"bufio"
	"io"
	"strings"
	"time"

	"github.com/julianstephens/studylit/internal/calendar"
	"github.com/julianstephens/studylit/internal/constants"
	"github.com/julianstephens/studylit/internal/logger"
	"github.com/julianstephens/studylit/internal/models"
)

const lineEnd = "\r\n"

// Export writes events as a single VCALENDAR in the order given.
// Only newlines in descriptions are escaped; commas and semicolons pass
// through unchanged.
func Export(w io.Writer, events []models.CalendarEvent) error {
	bw := bufio.NewWriter(w)
	write := func(line string) {
		bw.WriteString(line)
		bw.WriteString(lineEnd)
	}

	write("BEGIN:VCALENDAR")
	write("VERSION:2.0")
	write("PRODID:" + constants.ICSProductID)
	for _, ev := range events {
		write("BEGIN:VEVENT")
		write("UID:" + ev.ID)
		write("SUMMARY:" + ev.Title)
		write("DESCRIPTION:" + escapeText(ev.Description))
		write("DTSTART:" + formatStamp(ev.Start))
		write("DTEND:" + formatStamp(ev.End))
		write("CATEGORIES:" + strings.ToUpper(string(ev.Type)))
		if rule := ruleLine(ev); rule != "" {
			write("RRULE:" + rule)
		}
		write("END:VEVENT")
	}
	write("END:VCALENDAR")

	return bw.Flush()
}

// ExportString returns the iCalendar text for events
func ExportString(events []models.CalendarEvent) string {
	var sb strings.Builder
	// strings.Builder never fails
	_ = Export(&sb, events)
	return sb.String()
}

// CRLF and lone CR count as one line break so no raw CR reaches the output
var lineBreaks = strings.NewReplacer("\r\n", `\n`, "\r", `\n`, "\n", `\n`)

func escapeText(s string) string {
	return lineBreaks.Replace(s)
}

func formatStamp(t time.Time) string {
	return t.UTC().Format(constants.ICSTimeFormat)
}

func ruleLine(ev models.CalendarEvent) string {
	if ev.Recurring == nil {
		return ""
	}
	opt, err := calendar.RuleOption(*ev.Recurring, ev.Start)
	if err != nil {
		logger.Warn("Skipping recurrence on export", "id", ev.ID, "error", err)
		return ""
	}
	return opt.RRuleString()
}
