package answer

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/joss/lawchat/internal/domain"
	"github.com/joss/lawchat/internal/logging"
	lawstrings "github.com/joss/lawchat/internal/strings"
)

// DefaultAnswer is returned when no note matches the question.
const DefaultAnswer = "I don't have specific guidance on that yet. " +
	"Family law varies by jurisdiction, so please consult a licensed " +
	"attorney for advice on your situation."

const maxExcerptLen = 600

// KnowledgeBase answers questions from markdown notes on disk. Notes
// are matched paragraph by paragraph against the question's terms and
// the best-scoring paragraph becomes the answer.
type KnowledgeBase struct {
	dir string
	log *logging.Logger
}

var _ Answerer = (*KnowledgeBase)(nil)

func NewKnowledgeBase(dir string) *KnowledgeBase {
	return &KnowledgeBase{
		dir: dir,
		log: logging.New("answer"),
	}
}

func (k *KnowledgeBase) Answer(ctx context.Context, question string, history []domain.Message) (string, error) {
	terms := queryTerms(question)
	if len(terms) == 0 {
		return DefaultAnswer, nil
	}

	paths, err := k.noteFiles()
	if err != nil {
		k.log.Warn("knowledge_scan_failed", map[string]interface{}{"dir": k.dir}, err)
		return DefaultAnswer, nil
	}

	best := ""
	bestScore := 0
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		content, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		for _, para := range paragraphs(string(content)) {
			if score := scoreParagraph(para, terms); score > bestScore {
				best = para
				bestScore = score
			}
		}
	}

	if bestScore == 0 {
		return DefaultAnswer, nil
	}
	return lawstrings.Ellipsize(best, maxExcerptLen), nil
}

// noteFiles returns all markdown notes under the knowledge directory,
// sorted for deterministic tie-breaking.
func (k *KnowledgeBase) noteFiles() ([]string, error) {
	var matches []string

	fsys := os.DirFS(k.dir)
	err := doublestar.GlobWalk(fsys, "**/*.md", func(path string, d fs.DirEntry) error {
		if !d.IsDir() {
			matches = append(matches, filepath.Join(k.dir, path))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(matches)
	return matches, nil
}

// paragraphs splits markdown content on blank lines, dropping heading
// lines and empties.
func paragraphs(content string) []string {
	var out []string
	for _, block := range strings.Split(content, "\n\n") {
		var lines []string
		for _, line := range strings.Split(block, "\n") {
			line = strings.TrimSpace(line)
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			lines = append(lines, line)
		}
		if len(lines) > 0 {
			out = append(out, strings.Join(lines, " "))
		}
	}
	return out
}

// queryTerms lowercases and tokenizes the question, dropping words too
// short to be discriminating.
func queryTerms(question string) []string {
	fields := strings.FieldsFunc(strings.ToLower(question), func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9')
	})
	var terms []string
	for _, f := range fields {
		if len(f) >= 3 && !stopwords[f] {
			terms = append(terms, f)
		}
	}
	return terms
}

func scoreParagraph(para string, terms []string) int {
	lower := strings.ToLower(para)
	score := 0
	for _, term := range terms {
		score += strings.Count(lower, term)
	}
	return score
}

var stopwords = map[string]bool{
	"the": true, "and": true, "for": true, "are": true, "can": true,
	"what": true, "how": true, "who": true, "does": true, "about": true,
	"with": true, "will": true, "have": true, "that": true, "this": true,
	"you": true, "your": true, "get": true, "there": true, "when": true,
}
