package markup

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/custodia-labs/interlink/internal/core/domain"
)

// Segmenter extracts safe text regions from HTML.
// A Segmenter is immutable and safe for concurrent use.
type Segmenter struct {
	containers tagSet
	excluded   tagSet
}

// NewSegmenter creates a segmenter for the given container and excluded tags.
// Nil slices fall back to the domain defaults. Anchors are always excluded,
// so text that is already a link is never linked again.
func NewSegmenter(containers, excluded []string) *Segmenter {
	if containers == nil {
		containers = domain.DefaultContainers()
	}
	if excluded == nil {
		excluded = domain.DefaultExcludedTags()
	}
	skip := newTagSet(excluded)
	skip["a"] = true
	return &Segmenter{
		containers: newTagSet(containers),
		excluded:   skip,
	}
}

// segmentState is the scanner state for one Extract call.
type segmentState struct {
	outer tagStack
	inner tagStack

	open      bool
	tag       string
	index     int
	wrapped   bool
	words     int
	pending   []domain.TextRegion
	completed []domain.TextRegion
}

// Extract returns the text regions of src that may be rewritten, in
// document order. Only text inside a container element and outside every
// excluded element is returned; offsets point into src.
func (s *Segmenter) Extract(src string) []domain.TextRegion {
	st := &segmentState{index: -1}
	z := html.NewTokenizer(strings.NewReader(src))
	offset := 0

	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			// io.EOF or a reader failure; either way the scan is over.
			st.closeContainer()
			return st.completed
		}

		raw := z.Raw()
		start := offset
		offset += len(raw)

		switch tt {
		case html.StartTagToken:
			name, _ := z.TagName()
			s.startTag(st, string(name))
		case html.EndTagToken:
			name, _ := z.TagName()
			s.endTag(st, string(name))
		case html.TextToken:
			s.text(st, string(raw), start)
		}
	}
}

func (s *Segmenter) startTag(st *segmentState, name string) {
	if s.containers[name] {
		st.closeContainer()
		st.open = true
		st.tag = name
		st.index++
		st.wrapped = st.outer.containsAny(s.excluded)
		return
	}
	if voidElements[name] {
		return
	}
	if st.open {
		st.inner.push(name)
		return
	}
	st.outer.push(name)
}

func (s *Segmenter) endTag(st *segmentState, name string) {
	if !st.open {
		st.outer.popTo(name)
		return
	}
	if name == st.tag {
		st.closeContainer()
		return
	}
	if st.inner.popTo(name) {
		return
	}
	// An end tag for an element opened before the container closes the
	// container implicitly, e.g. </div> with a <p> still open.
	if st.outer.contains(name) {
		st.closeContainer()
		st.outer.popTo(name)
	}
}

func (s *Segmenter) text(st *segmentState, raw string, start int) {
	if !st.open {
		return
	}
	st.words += countWords(raw)
	if st.wrapped || st.inner.containsAny(s.excluded) {
		return
	}
	if strings.TrimSpace(raw) == "" {
		return
	}
	st.pending = append(st.pending, domain.TextRegion{
		Text:      raw,
		Start:     start,
		End:       start + len(raw),
		Container: st.index,
	})
}

// closeContainer finalises the open container, if any.
func (st *segmentState) closeContainer() {
	if !st.open {
		return
	}
	for i := range st.pending {
		st.pending[i].ContainerWords = st.words
	}
	st.completed = append(st.completed, st.pending...)
	st.pending = nil
	st.inner = st.inner[:0]
	st.open = false
	st.tag = ""
	st.wrapped = false
	st.words = 0
}
