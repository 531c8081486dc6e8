package domain

// Mode selects a summarization backend.
type Mode string

const (
	ModeBasic  Mode = "basic"
	ModeOllama Mode = "ollama"
	ModeLLMAPI Mode = "llmapi"
)

// ParseMode maps an arbitrary string to a known mode.
// Unknown values select the basic mode.
func ParseMode(raw string) (Mode, bool) {
	switch Mode(raw) {
	case ModeBasic, ModeOllama, ModeLLMAPI:
		return Mode(raw), true
	default:
		return ModeBasic, false
	}
}

// Story is a Hacker News story as returned by the item API.
type Story struct {
	ID          int64
	Title       string
	URL         string
	Score       int
	By          string
	Time        int64
	Descendants int
	Kids        []int64
	Type        string
}

// Comment is a single discussion comment. Text may contain HTML markup.
type Comment struct {
	ID     int64
	Text   string
	By     string
	Time   int64
	Parent int64
	Kids   []int64
}

// ArticleContent is the plain-text article body extracted for a story.
type ArticleContent struct {
	Title        string
	Content      string
	URL          string
	Extracted    bool
	ErrorMessage string
}

// EnhancedSummary is the structured analysis produced by model-backed
// summarizers. KeyPoints and RelatedLinks always hold exactly the
// configured number of entries.
type EnhancedSummary struct {
	ArticleSummary string
	CommentSummary string
	KeyPoints      []string
	RelatedLinks   []string
	ArticleURL     string
	DiscussionURL  string
}

// StorySummary is one row of a digest report.
type StorySummary struct {
	Story    Story
	Lines    []string
	Enhanced *EnhancedSummary
}
