package doctree

// Level is the structural level assigned to a heading candidate.
type Level string

const (
	LevelNone  Level = "" // candidate discarded
	LevelTitle Level = "TITLE"
	LevelH1    Level = "H1"
	LevelH2    Level = "H2"
	LevelH3    Level = "H3"
)

// Rect is an opaque bounding box carried through from the parser.
type Rect struct {
	X0, Y0, X1, Y1 float64
}

// Span is one contiguous run of text sharing a single font size and style.
type Span struct {
	Text string  // Trimmed text content
	Size float64 // Font size in points
	Bold bool    // Derived once from the font attributes
	Font string  // Font name as reported by the parser
	Page int     // 1-based page number
	Box  Rect
}

// TocEntry is one entry of a document's embedded outline.
type TocEntry struct {
	Level int // 1-based depth; 4 and deeper are ignored
	Text  string
	Page  int
}

// Candidate is a span that received a level from the classifier.
type Candidate struct {
	Text  string
	Level Level
	Page  int
}

// Heading is one H1/H2/H3 entry of the final outline.
type Heading struct {
	Level Level  `json:"level"`
	Text  string `json:"text"`
	Page  int    `json:"page"`
}

// Outline is the per-document output record.
type Outline struct {
	Title    string    `json:"title"`
	Headings []Heading `json:"outline"`
}
