package statement

import "regexp"

// templateID tags which line shape matched a piece of recognized text.
type templateID int

const (
	templateDateFirst templateID = iota
	templateISODateFirst
	templateDescriptionFirst
)

// captureMap names the submatch index of each field, so a template can
// put its groups in any order.
type captureMap struct {
	date        int
	description int
	amount      int
}

// lineTemplate is one recognized-line shape. OCR output is noisy, so each
// template anchors to a whole line and all templates run over the full
// text; the dedup pass collapses lines matched by more than one.
type lineTemplate struct {
	id       templateID
	pattern  *regexp.Regexp
	captures captureMap
}

var lineTemplates = []lineTemplate{
	{
		id:       templateDateFirst,
		pattern:  regexp.MustCompile(`(?m)^\s*(\d{1,2}[/-]\d{1,2}[/-]\d{2,4})\s+(.+?)\s+([-+]?\$?\d[\d,]*\.\d{2})\s*$`),
		captures: captureMap{date: 1, description: 2, amount: 3},
	},
	{
		id:       templateISODateFirst,
		pattern:  regexp.MustCompile(`(?m)^\s*(\d{4}[/-]\d{1,2}[/-]\d{1,2})\s+(.+?)\s+([-+]?\$?\d[\d,]*\.\d{2})\s*$`),
		captures: captureMap{date: 1, description: 2, amount: 3},
	},
	{
		id:       templateDescriptionFirst,
		pattern:  regexp.MustCompile(`(?m)^\s*([A-Za-z][A-Za-z\s&.'-]*?)\s+(\d{1,2}[/-]\d{1,2}[/-]\d{2,4})\s+([-+]?\$?\d[\d,]*\.\d{2})\s*$`),
		captures: captureMap{date: 2, description: 1, amount: 3},
	},
}
