package roundutil

import (
	"fmt"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

// RoundDateLayout is the stored form of a round date.
const RoundDateLayout = "2006-01-02"

// DateParser turns user date input into a round date.
type DateParser interface {
	ParseRoundDate(input string, now time.Time) (string, error)
}

type dateParser struct {
	w *when.Parser
}

// NewDateParser creates a DateParser that accepts ISO dates and English
// phrases such as "tomorrow" or "next saturday".
func NewDateParser() DateParser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return &dateParser{w: w}
}

// ParseRoundDate resolves input relative to now. Empty input means today.
func (p *dateParser) ParseRoundDate(input string, now time.Time) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return now.Format(RoundDateLayout), nil
	}

	if t, err := time.ParseInLocation(RoundDateLayout, input, now.Location()); err == nil {
		return t.Format(RoundDateLayout), nil
	}

	r, err := p.w.Parse(strings.ToLower(input), now)
	if err != nil {
		return "", fmt.Errorf("failed to parse round date %q: %w", input, err)
	}
	if r == nil {
		return "", fmt.Errorf("unrecognised round date %q", input)
	}
	return r.Time.In(now.Location()).Format(RoundDateLayout), nil
}
