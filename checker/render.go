package checker

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// titleCaser turns topic slugs into report headings.
var titleCaser = cases.Title(language.English)

// topicHeading converts a topic slug like "compose-health" into a
// human readable heading.
func topicHeading(topic string) string {
	return titleCaser.String(strings.ReplaceAll(topic, "-", " "))
}

// RenderReport writes a human readable audit report grouped by topic.
func RenderReport(w io.Writer, result *Result) error {
	for _, topic := range result.Topics {
		topicErrors := issuesForTopic(result.Errors, topic)
		topicWarnings := issuesForTopic(result.Warnings, topic)
		if len(topicErrors) == 0 && len(topicWarnings) == 0 {
			continue
		}
		heading := topicHeading(topic)
		if _, err := fmt.Fprintf(w, "%s\n%s\n", heading, strings.Repeat("-", len(heading))); err != nil {
			return err
		}
		for _, issue := range topicErrors {
			if _, err := fmt.Fprintf(w, "  %s\n", issue.String()); err != nil {
				return err
			}
		}
		for _, issue := range topicWarnings {
			if _, err := fmt.Fprintf(w, "  %s\n", issue.String()); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}

	// Issues without a topic come from artifact loading
	untopiced := issuesForTopic(result.Errors, "")
	if len(untopiced) > 0 {
		if _, err := fmt.Fprintf(w, "Artifacts\n---------\n"); err != nil {
			return err
		}
		for _, issue := range untopiced {
			if _, err := fmt.Fprintf(w, "  %s\n", issue.String()); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}

	if result.Valid {
		if _, err := fmt.Fprintf(w, "✓ Stack check passed"); err != nil {
			return err
		}
		if result.WarningCount > 0 {
			if _, err := fmt.Fprintf(w, " with %d warning(s)", result.WarningCount); err != nil {
				return err
			}
		}
		_, err := fmt.Fprintln(w)
		return err
	}
	_, err := fmt.Fprintf(w, "✗ Stack check failed with %d error(s) and %d warning(s)\n",
		result.ErrorCount, result.WarningCount)
	return err
}

// issuesForTopic filters issues by topic.
func issuesForTopic(all []Issue, topic string) []Issue {
	var out []Issue
	for _, issue := range all {
		if issue.Topic == topic {
			out = append(out, issue)
		}
	}
	return out
}
