// Package display renders run results on the terminal. It is the only
// package that prints; everything else logs. Output is suppressed unless
// the log level is "info", so verbose and quiet runs stay machine-readable.
package display

import (
	"fmt"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/pterm/pterm"

	"github.com/codemarc/mailmind/config"
	"github.com/codemarc/mailmind/mailbox"
	"github.com/codemarc/mailmind/model"
	"github.com/codemarc/mailmind/rules"
)

const subjectWidth = 48

// Printer renders tables and summaries when enabled.
type Printer struct {
	enabled bool
}

// New returns a printer that renders only when logLevel is "info".
func New(logLevel string) *Printer {
	return &Printer{enabled: logLevel == "info"}
}

// Messages renders the working list of a completed run as a table.
func (p *Printer) Messages(list []model.Message) {
	if !p.enabled {
		return
	}
	if len(list) == 0 {
		pterm.Info.Println("No messages")
		return
	}

	rows := pterm.TableData{{"#", "date", "from", "subject", "category", "disposition"}}
	for _, msg := range list {
		rows = append(rows, []string{
			strconv.Itoa(msg.Index),
			formatDate(msg.Date),
			msg.SenderEmail,
			truncate(msg.Subject, subjectWidth),
			string(msg.Category),
			string(msg.Disposition),
		})
	}
	_ = pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
}

// Report renders the per-rule execution report of a run.
func (p *Printer) Report(account, ruleset string, result *rules.Result) {
	if !p.enabled || result == nil {
		return
	}

	rows := pterm.TableData{{"rule", "in", "out", "duration"}}
	for _, rec := range result.Report {
		rows = append(rows, []string{
			rec.Rule,
			strconv.Itoa(rec.In),
			strconv.Itoa(rec.Out),
			rec.Duration.Round(time.Millisecond).String(),
		})
	}
	pterm.DefaultSection.Printf("%s / %s: %s", account, ruleset, result.Status)
	_ = pterm.DefaultTable.WithHasHeader().WithData(rows).Render()

	for _, failure := range result.Failures {
		pterm.Warning.Printf("%s failed open: %v\n", failure.Rule, failure.Err)
	}
}

// Accounts renders the configured accounts.
func (p *Printer) Accounts(accounts []config.Account) {
	if !p.enabled {
		return
	}

	rows := pterm.TableData{{"#", "account", "user", "host", "active", "rulesets"}}
	for _, acct := range accounts {
		rows = append(rows, []string{
			strconv.Itoa(acct.Index),
			acct.Name,
			acct.User,
			fmt.Sprintf("%s:%d", acct.Host, acct.Port),
			strconv.FormatBool(acct.Active),
			strconv.Itoa(len(acct.Rules)),
		})
	}
	_ = pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
}

// Folders renders folder status counters.
func (p *Printer) Folders(statuses map[string]mailbox.FolderStatus, order []string) {
	if !p.enabled {
		return
	}

	rows := pterm.TableData{{"folder", "messages", "unseen"}}
	for _, path := range order {
		status := statuses[path]
		rows = append(rows, []string{
			path,
			strconv.FormatUint(uint64(status.Messages), 10),
			strconv.FormatUint(uint64(status.Unseen), 10),
		})
	}
	_ = pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
}

// Success prints a closing success line.
func (p *Printer) Success(format string, args ...any) {
	if !p.enabled {
		return
	}
	pterm.Success.Printf(format+"\n", args...)
}

// Error prints an error line even when tables are suppressed; failures
// should never be silent.
func (p *Printer) Error(format string, args ...any) {
	pterm.Error.Printf(format+"\n", args...)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02 15:04")
}

func truncate(s string, width int) string {
	if utf8.RuneCountInString(s) <= width {
		return s
	}
	runes := []rune(s)
	return string(runes[:width-3]) + "..."
}
