package models

// PageRecord is one fetched-and-parsed page. It is immutable after extraction;
// the orchestrator owns every record for the duration of a session.
type PageRecord struct {
	URL         string    `json:"url"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Keywords    string    `json:"keywords"`
	Author      string    `json:"author"`
	Text        string    `json:"text"`
	Headings    []Heading `json:"headings"`
	Paragraphs  []string  `json:"paragraphs"`
	Lists       []List    `json:"lists"`
	Tables      []Table   `json:"tables"`
	Links       []Link    `json:"links"`
	Forms       []Form    `json:"forms"`
	Articles    []Article `json:"articles"`
	Sections    []Section `json:"sections"`
	Spans       []Span    `json:"spans"`
}

// Heading is a single h1..h6 element.
type Heading struct {
	Level string `json:"level"`
	Text  string `json:"text"`
	ID    string `json:"id,omitempty"`
}

// List is an ordered, unordered or definition list.
type List struct {
	Kind  string   `json:"kind"`
	Items []string `json:"items"`
}

// Table captures header and body rows of a table or ARIA grid.
type Table struct {
	Headers []string `json:"headers"`
	Rows    [][]Cell `json:"rows"`
}

// Cell is one table cell with its span attributes.
type Cell struct {
	Text    string `json:"text"`
	ColSpan int    `json:"colspan,omitempty"`
	RowSpan int    `json:"rowspan,omitempty"`
}

// Link is an anchor resolved to an absolute URL.
type Link struct {
	URL   string `json:"url"`
	Text  string `json:"text"`
	Title string `json:"title,omitempty"`
}

// Form describes a form element and its fields.
type Form struct {
	Action string      `json:"action"`
	Method string      `json:"method"`
	Fields []FormField `json:"fields"`
}

// FormField describes one input, textarea, select or button.
type FormField struct {
	Type        string `json:"type"`
	Name        string `json:"name,omitempty"`
	Placeholder string `json:"placeholder,omitempty"`
	Value       string `json:"value,omitempty"`
}

// Article is an <article> element with non-empty content.
type Article struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Section is a <section> element with non-empty content.
type Section struct {
	Heading string `json:"heading"`
	Content string `json:"content"`
}

// Span is an inline emphasis, code or mark style element.
type Span struct {
	Content   string `json:"content"`
	ClassName string `json:"class_name,omitempty"`
	ID        string `json:"id,omitempty"`
	Tag       string `json:"tag"`
}
