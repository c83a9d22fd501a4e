package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/messagely/internal/server/models"
	"github.com/olekukonko/tablewriter"
)

const timeLayout = "2006-01-02 15:04"

func formatTime(t time.Time) string {
	return t.Local().Format(timeLayout)
}

func newTable(w io.Writer, header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")
	return table
}

func printUsers(w io.Writer, users []models.UserSummary) {
	if len(users) == 0 {
		fmt.Fprintln(w, "No users")
		return
	}

	table := newTable(w, []string{"Username", "First name", "Last name", "Phone"})
	for _, u := range users {
		table.Append([]string{u.UserName, u.FirstName, u.LastName, u.Phone})
	}
	table.Render()
}

func printProfile(w io.Writer, u *models.UserProfile) {
	fmt.Fprintf(w, "Username:   %s\n", u.UserName)
	fmt.Fprintf(w, "Name:       %s %s\n", u.FirstName, u.LastName)
	fmt.Fprintf(w, "Phone:      %s\n", u.Phone)
	fmt.Fprintf(w, "Joined:     %s\n", formatTime(u.JoinAt))
	fmt.Fprintf(w, "Last login: %s\n", formatTime(u.LastLoginAt))
}

// printMailbox lists messages; inbox rows show the sender, outbox rows the
// recipient.
func printMailbox(w io.Writer, msgs []models.MailboxMessage, inbox bool) {
	if len(msgs) == 0 {
		fmt.Fprintln(w, "No messages")
		return
	}

	party := "To"
	if inbox {
		party = "From"
	}

	table := newTable(w, []string{"ID", party, "Sent", "Read", "Body"})
	for _, m := range msgs {
		var who string
		if inbox && m.FromUser != nil {
			who = m.FromUser.UserName
		}
		if !inbox && m.ToUser != nil {
			who = m.ToUser.UserName
		}
		table.Append([]string{
			strconv.FormatInt(m.ID, 10),
			who,
			formatTime(m.SentAt),
			readMark(m.ReadAt),
			preview(m.Body),
		})
	}
	table.Render()
}

func printMessage(w io.Writer, m *models.MessageDetail) {
	fmt.Fprintf(w, "Message #%d\n", m.ID)
	fmt.Fprintf(w, "From: %s (%s %s)\n", m.FromUser.UserName, m.FromUser.FirstName, m.FromUser.LastName)
	fmt.Fprintf(w, "To:   %s (%s %s)\n", m.ToUser.UserName, m.ToUser.FirstName, m.ToUser.LastName)
	fmt.Fprintf(w, "Sent: %s\n", formatTime(m.SentAt))
	fmt.Fprintf(w, "Read: %s\n", readMark(m.ReadAt))
	fmt.Fprintln(w)
	fmt.Fprintln(w, m.Body)
}

func readMark(t *time.Time) string {
	if t == nil {
		return "unread"
	}
	return formatTime(*t)
}

func preview(body string) string {
	body = strings.ReplaceAll(body, "\n", " ")
	if r := []rune(body); len(r) > 40 {
		return string(r[:37]) + "..."
	}
	return body
}
