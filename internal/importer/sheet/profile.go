package sheet

import "strings"

// Column is one field of a profile and the header titles it is known under.
type Column struct {
	Field    string
	Aliases  []string
	Required bool
}

// Profile describes the column layout of one kind of sheet. Columns are
// listed in the order used by files that come without a header row.
type Profile struct {
	Name    string
	Columns []Column
}

// match maps the fields of p to cell indices of header. ok is false unless
// every required column is present.
func (p *Profile) match(header []string) (map[string]int, bool) {
	titles := make(map[string]int, len(header))

	for i, cell := range header {
		title := normalizeTitle(cell)
		if _, dup := titles[title]; title != "" && !dup {
			titles[title] = i
		}
	}

	idx := make(map[string]int, len(p.Columns))

	for _, c := range p.Columns {
		for _, alias := range append([]string{c.Field}, c.Aliases...) {
			if i, ok := titles[normalizeTitle(alias)]; ok {
				idx[c.Field] = i
				break
			}
		}

		if _, ok := idx[c.Field]; c.Required && !ok {
			return nil, false
		}
	}

	return idx, true
}

// positional maps the fields of p to their column order.
func (p *Profile) positional() map[string]int {
	idx := make(map[string]int, len(p.Columns))
	for i, c := range p.Columns {
		idx[c.Field] = i
	}

	return idx
}

func normalizeTitle(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer("-", "_", " ", "_", ".", "").Replace(s)

	return s
}
