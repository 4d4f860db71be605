package markup

import "strings"

// voidElements never have content and never push onto a tag stack.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

// tagSet is a lowercase set of tag names.
type tagSet map[string]bool

func newTagSet(names []string) tagSet {
	set := make(tagSet, len(names))
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		if name != "" {
			set[name] = true
		}
	}
	return set
}

// tagStack tracks open elements.
type tagStack []string

func (s *tagStack) push(name string) {
	*s = append(*s, name)
}

// popTo removes name and everything opened after it.
// It reports false and leaves the stack alone when name is not open.
func (s *tagStack) popTo(name string) bool {
	for i := len(*s) - 1; i >= 0; i-- {
		if (*s)[i] == name {
			*s = (*s)[:i]
			return true
		}
	}
	return false
}

func (s tagStack) contains(name string) bool {
	for _, open := range s {
		if open == name {
			return true
		}
	}
	return false
}

func (s tagStack) containsAny(set tagSet) bool {
	for _, open := range s {
		if set[open] {
			return true
		}
	}
	return false
}
