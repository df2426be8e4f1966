package summarizer

import (
	"regexp"
	"strings"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"
)

const (
	fontName = "Times New Roman"
	fontSize = 13
)

var (
	reHeading = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)
	reBold    = regexp.MustCompile(`\*\*(.+?)\*\*`)
	reBullet  = regexp.MustCompile(`^[\-\*]\s+(.+)$`)
)

// SummaryToDocx writes a summary to a styled docx file. Models often answer
// in markdown, so headings, bullets and bold spans are rendered.
func SummaryToDocx(title, summary, outputPath string) error {
	w, err := newDocWriter(title)
	if err != nil {
		return err
	}

	for _, line := range strings.Split(summary, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || trimmed == "---" {
			continue
		}
		if m := reHeading.FindStringSubmatch(trimmed); m != nil {
			w.heading(m[2], len(m[1]))
			continue
		}
		if m := reBullet.FindStringSubmatch(trimmed); m != nil {
			trimmed = "• " + m[1]
		}
		w.markdown(trimmed)
	}

	return w.doc.SaveTo(outputPath)
}

// TranscriptToDocx writes the recognizer's text output, one paragraph per
// utterance. Consecutive repeats, a common recognizer artifact, are collapsed.
func TranscriptToDocx(title, transcript, outputPath string) error {
	w, err := newDocWriter(title)
	if err != nil {
		return err
	}
	w.doc.AddParagraph("")

	prev := ""
	for _, line := range strings.Split(transcript, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || trimmed == prev {
			continue
		}
		prev = trimmed
		w.run(w.doc.AddParagraph(""), trimmed, fontSize)
	}

	return w.doc.SaveTo(outputPath)
}

// docWriter appends uniformly styled runs to a new document.
type docWriter struct {
	doc *docx.RootDoc
}

// newDocWriter starts a document with title as its level-1 heading.
func newDocWriter(title string) (*docWriter, error) {
	doc, err := godocx.NewDocument()
	if err != nil {
		return nil, err
	}
	w := &docWriter{doc: doc}
	w.heading(title, 1)
	return w, nil
}

func (w *docWriter) run(p *docx.Paragraph, text string, size uint64) *docx.Run {
	return p.AddText(text).Font(fontName).Size(size).Color("000000")
}

// heading writes a bold line; levels past 3 use body size.
func (w *docWriter) heading(text string, level int) {
	size := uint64(fontSize)
	if level >= 1 && level <= 3 {
		size = uint64(17 - level)
	}
	w.run(w.doc.AddParagraph(""), stripMarkup(text), size).Bold(true)
}

// markdown writes one paragraph, turning **spans** bold.
func (w *docWriter) markdown(text string) {
	p := w.doc.AddParagraph("")
	last := 0
	for _, loc := range reBold.FindAllStringSubmatchIndex(text, -1) {
		if plain := stripMarkup(text[last:loc[0]]); plain != "" {
			w.run(p, plain, fontSize)
		}
		w.run(p, stripMarkup(text[loc[2]:loc[3]]), fontSize).Bold(true)
		last = loc[1]
	}
	if rest := stripMarkup(text[last:]); rest != "" {
		w.run(p, rest, fontSize)
	}
}

var markupReplacer = strings.NewReplacer("**", "", "__", "", "`", "")

func stripMarkup(s string) string {
	return markupReplacer.Replace(s)
}
