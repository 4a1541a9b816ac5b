package classify

import "regexp"

// Pattern tables for the static classifiers. Order within one list does not
// matter (any match counts); the order the lists are consulted in lives in
// static.go and is load-bearing.

const monthNames = `(?:jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|jun(?:e)?|jul(?:y)?|aug(?:ust)?|sep(?:tember)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)`

// dayAndMonth matches "12th march" as well as "march 12".
const dayAndMonth = `(?:\d{1,2}(?:st|nd|rd|th)?\s+` + monthNames + `|` + monthNames + `\s+\d{1,2}(?:st|nd|rd|th)?)\s*(?:\d{4})?`

var (
	urgentPatterns = compile(
		`urgent`,
		`asap`,
		`emergency`,
		`immediate`,
		`critical`,
		`deadline.*today`,
		`due.*today`,
	)

	importantPatterns = compile(
		`important`,
		`priority`,
		`attention required`,
		`action needed`,
		`please review`,
		`deadline`,
	)

	noisePatterns = compile(
		`promotion`,
		`offer`,
		`sale`,
		`discount`,
	)

	newsPatterns = compile(
		`newsletter`,
	)

	actionablePatterns = compile(
		`action`,
		`todo`,
		`please`,
		`review`,
		`confirm`,
		`verify`,
		`update required`,
	)

	conferencePatterns = compile(
		`(?:event|events|join us).*(?:on|at).*`+dayAndMonth,
		dayAndMonth+`.*(?:event|events|join us)`,
		`(?:from|between)\s+`+dayAndMonth+`.*(?:to|through|and|-).*`+dayAndMonth,
	)

	replyNeededPatterns = compile(
		`\?$`,
		`please respond`,
		`let me know`,
		`what do you think`,
		`your thoughts`,
		`get back to me`,
		`confirm receipt`,
		`awaiting your response`,
	)

	delegatePatterns = compile(
		`fwd:`,
		`forwarded`,
		`can someone`,
		`who can`,
		`take care of`,
		`please handle`,
		`assign to`,
	)

	schedulePatterns = compile(
		`meeting`,
		`schedule`,
		`calendar`,
		`appointment`,
		`conference`,
		`call`,
		`zoom`,
		`teams`,
		`when are you free`,
	)

	trackPatterns = compile(
		`tracking number`,
		`order status`,
		`reference number`,
		`ticket #`,
		`case id`,
		`for your records`,
	)
)

// professionalNetworkDomains short-circuit the importance cascade: anything
// from these senders is routine regardless of content.
var professionalNetworkDomains = []string{"linkedin.com"}

func compile(patterns ...string) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, pattern := range patterns {
		compiled = append(compiled, regexp.MustCompile(`(?i)`+pattern))
	}
	return compiled
}

func matchAny(patterns []*regexp.Regexp, text string) bool {
	for _, re := range patterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}
