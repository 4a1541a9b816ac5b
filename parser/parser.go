// Package parser turns raw RFC 5322 message source into the handful of
// structured fields the rule pipeline cares about. Every field degrades
// gracefully: a message that cannot be parsed still yields a usable record.
package parser

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/emersion/go-message/mail"
	"github.com/k3a/html2text"

	"github.com/codemarc/mailmind/model"
)

const (
	// textPrefixLimit bounds how much body text is kept as classification
	// signal.
	textPrefixLimit = 1024
	// textLineLimit bounds how many non-empty lines are kept.
	textLineLimit = 10

	unknownSender    = "(unknown sender)"
	unknownRecipient = "(unknown recipient)"
)

// Parsed holds the structured fields extracted from one raw message.
type Parsed struct {
	SenderEmail    string
	RecipientEmail string
	From           string
	To             string
	Subject        string
	Text           []string
	Date           time.Time
}

// Parse extracts the triage-relevant fields from raw source. It never fails:
// missing or malformed pieces fall back to their sentinels.
func Parse(raw []byte) Parsed {
	parsed := Parsed{
		From:    unknownSender,
		To:      unknownRecipient,
		Subject: model.NoSubject,
	}

	mr, err := mail.CreateReader(bytes.NewReader(raw))
	if mr == nil {
		return parsed
	}
	_ = err // header decoding errors (unknown charsets etc) are tolerable

	header := mr.Header

	if addrs, err := header.AddressList("From"); err == nil && len(addrs) > 0 {
		parsed.SenderEmail = strings.ToLower(addrs[0].Address)
		parsed.From = formatAddress(addrs[0])
	}
	if addrs, err := header.AddressList("To"); err == nil && len(addrs) > 0 {
		parsed.RecipientEmail = strings.ToLower(addrs[0].Address)
		parsed.To = formatAddress(addrs[0])
	}
	if subject, err := header.Subject(); err == nil && subject != "" {
		parsed.Subject = subject
	}
	if date, err := header.Date(); err == nil {
		parsed.Date = model.RoundToMinute(date)
	}

	parsed.Text = textLines(plainText(mr))
	return parsed
}

// plainText walks the MIME parts and returns the first text/plain body, or
// the first text/html body converted to plain text when no plain part
// exists.
func plainText(mr *mail.Reader) string {
	var html string
	for {
		part, err := mr.NextPart()
		if err == io.EOF || part == nil {
			break
		}
		if err != nil {
			// Tolerate per-part errors and keep scanning.
			continue
		}

		inline, ok := part.Header.(*mail.InlineHeader)
		if !ok {
			continue
		}
		mediaType, _, _ := inline.ContentType()
		switch mediaType {
		case "text/plain", "":
			body, err := io.ReadAll(part.Body)
			if err == nil && len(bytes.TrimSpace(body)) > 0 {
				return string(body)
			}
		case "text/html":
			if html == "" {
				if body, err := io.ReadAll(part.Body); err == nil {
					html = string(body)
				}
			}
		}
	}
	if html != "" {
		return html2text.HTML2Text(html)
	}
	return ""
}

// textLines truncates body text to a bounded prefix and splits it into
// non-empty lines. Line endings are CRLF on the wire; the carriage returns
// must not survive into the text, they would poison pattern matching.
func textLines(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if len(text) > textPrefixLimit {
		cut := textPrefixLimit
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		text = text[:cut]
	}

	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
		if len(lines) == textLineLimit {
			break
		}
	}
	return lines
}

func formatAddress(addr *mail.Address) string {
	if addr.Name != "" {
		return fmt.Sprintf("%s <%s>", addr.Name, addr.Address)
	}
	return addr.Address
}
