package slack

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/aiburn/aiburn/pkg/timeentry"
)

// ParsedReport is the payload of a /report command. Note is empty when the
// user gave none.
type ParsedReport struct {
	InitiativeName string
	PersonDays     float64
	Note           string
}

// Matches 0.5d, 1d, 2.5d, 0,5d (comma decimal) and "0.5 days".
var daysPattern = regexp.MustCompile(`(?i)\b(\d+(?:[.,]\d+)?)\s*d(?:ays?)?\b`)

// ParseReportCommand parses the text of a /report slash command:
//
//	/report "Initiative Name" 0.5d What you worked on
//
// Unquoted initiative names end at the first space. Error messages are
// written for the Slack user, not for logs.
func ParseReportCommand(text string) (ParsedReport, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return ParsedReport{}, errors.New(
			"Usage: /report \"Initiative Name\" 0.5d What you worked on\n" +
				"Example: /report \"AI Experimentation\" 1d Tested prompt engineering")
	}

	var initiativeName, remaining string
	if strings.HasPrefix(trimmed, `"`) {
		closing := strings.Index(trimmed[1:], `"`)
		if closing == -1 {
			return ParsedReport{}, errors.New("Missing closing quote for initiative name")
		}
		initiativeName = trimmed[1 : closing+1]
		remaining = strings.TrimSpace(trimmed[closing+2:])
	} else {
		space := strings.Index(trimmed, " ")
		if space == -1 {
			return ParsedReport{}, errors.New("Please specify time spent. Example: /report \"AI Experimentation\" 0.5d")
		}
		initiativeName = trimmed[:space]
		remaining = strings.TrimSpace(trimmed[space+1:])
	}

	if initiativeName == "" {
		return ParsedReport{}, errors.New("Initiative name cannot be empty")
	}

	match := daysPattern.FindStringSubmatchIndex(remaining)
	if match == nil {
		return ParsedReport{}, errors.New("Please specify time in days (e.g., 0.5d, 1d, 2d). Example: /report \"AI Experimentation\" 0.5d")
	}

	rawDays := strings.ReplaceAll(remaining[match[2]:match[3]], ",", ".")
	personDays, err := strconv.ParseFloat(rawDays, 64)
	if err != nil || personDays <= 0 || personDays > timeentry.MaxPersonDays {
		return ParsedReport{}, fmt.Errorf("Person-days must be between 0 and %g", timeentry.MaxPersonDays)
	}

	note := strings.TrimSpace(remaining[match[1]:])

	return ParsedReport{
		InitiativeName: initiativeName,
		PersonDays:     personDays,
		Note:           note,
	}, nil
}
