package lastfm

import (
	"regexp"
	"strings"
)

// defaultFilterPatterns strip store and reissue annotations from album names.
var defaultFilterPatterns = []string{
	`(?i)\s*[\[(](?:explicit|clean)(?:\s+(?:version|content))?[\])]`,
	`(?i)\s*[\[(]\+?\s*digital\s+booklet[\])]`,
	`(?i)\s*[\[(](?:\d{4}\s+)?(?:digital(?:ly)?\s+)?remaster(?:ed)?(?:\s+(?:version|edition))?(?:\s+\d{4})?[\])]`,
	`(?i)\s*[\[(](?:super\s+|expanded\s+)?deluxe(?:\s+(?:edition|version))?[\])]`,
	`(?i)\s*[\[(](?:amazon|itunes|bonus\s+track)\s*(?:exclusive|edition|version)?[\])]`,
	`(?i)\s*[\[(](?:\d+(?:st|nd|rd|th)\s+)?anniversary(?:\s+(?:edition|version))?[\])]`,
}

// Filter removes annotations from album names.
type Filter struct {
	patterns []*regexp.Regexp
}

// NewFilter compiles the default patterns.
func NewFilter() *Filter {
	f := &Filter{}
	for _, p := range defaultFilterPatterns {
		f.patterns = append(f.patterns, regexp.MustCompile(p))
	}
	return f
}

// Album returns name without annotations and surrounding whitespace.
func (f *Filter) Album(name string) string {
	for _, re := range f.patterns {
		name = re.ReplaceAllString(name, "")
	}
	return strings.TrimSpace(name)
}
