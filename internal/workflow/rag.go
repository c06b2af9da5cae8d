package workflow

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"vpaura/backend/internal/model"
)

const (
	retrieveLimit = 10
	contextDocs   = 3
)

// DocumentSearcher finds a user's documents matching any of terms.
type DocumentSearcher interface {
	Search(ctx context.Context, userID int64, terms []string, limit int) ([]*model.Document, error)
}

type ragState struct {
	in       Input
	out      chan<- string
	terms    []string
	docs     []*model.Document
	ranked   []*model.Document
	response string
}

// RAGWorkflow answers from the user's own documents.
type RAGWorkflow struct {
	runner
	searcher DocumentSearcher
	graph    *graph[ragState]
}

func NewRAGWorkflow(invoker Invoker, searcher DocumentSearcher, checkpoints Checkpointer, systemPrompt string) *RAGWorkflow {
	w := &RAGWorkflow{
		runner: runner{
			kind:         model.WorkflowRAG,
			invoker:      invoker,
			checkpoints:  checkpoints,
			systemPrompt: systemPrompt,
		},
		searcher: searcher,
	}
	w.graph = newGraph[ragState]("retrieve", 3).
		addNode("retrieve", w.retrieveNode, to[ragState]("rerank"), "rerank").
		addNode("rerank", w.rerankNode, to[ragState]("answer"), "answer").
		addNode("answer", w.answerNode, to[ragState](end), end).
		mustCompile()
	return w
}

var stopwords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "are": {}, "was": {}, "what": {}, "which": {}, "who": {},
	"how": {}, "why": {}, "when": {}, "where": {}, "does": {}, "did": {}, "with": {}, "from": {},
	"about": {}, "this": {}, "that": {}, "these": {}, "those": {}, "into": {}, "your": {},
	"you": {}, "can": {}, "could": {}, "should": {}, "would": {}, "please": {}, "tell": {},
	"document": {}, "documents": {}, "file": {}, "files": {}, "according": {},
}

// keywords lowercases query, drops stopwords and words shorter than three
// letters and removes duplicates, keeping first-seen order.
func keywords(query string) []string {
	fields := strings.FieldsFunc(strings.ToLower(query), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	seen := make(map[string]struct{}, len(fields))
	var out []string
	for _, f := range fields {
		if len([]rune(f)) < 3 {
			continue
		}
		if _, stop := stopwords[f]; stop {
			continue
		}
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	return out
}

func (w *RAGWorkflow) retrieveNode(ctx context.Context, s *ragState) error {
	s.terms = keywords(s.in.Query)
	if len(s.terms) == 0 || w.searcher == nil {
		return nil
	}
	docs, err := w.searcher.Search(ctx, s.in.UserID, s.terms, retrieveLimit)
	if err != nil {
		return fmt.Errorf("document search failed: %w", err)
	}
	s.docs = docs
	return nil
}

func (w *RAGWorkflow) rerankNode(_ context.Context, s *ragState) error {
	type scored struct {
		doc   *model.Document
		score float64
	}
	ranked := make([]scored, 0, len(s.docs))
	for _, d := range s.docs {
		title := strings.ToLower(d.Title)
		body := strings.ToLower(d.Content)
		var score float64
		for _, t := range s.terms {
			if strings.Contains(title, t) {
				score += 2
			}
			score += float64(strings.Count(body, t))
		}
		ranked = append(ranked, scored{doc: d, score: score})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })

	s.ranked = s.ranked[:0]
	for i := 0; i < len(ranked) && i < contextDocs; i++ {
		s.ranked = append(s.ranked, ranked[i].doc)
	}
	return nil
}

func (w *RAGWorkflow) answerNode(ctx context.Context, s *ragState) error {
	var sb strings.Builder
	if len(s.ranked) == 0 {
		sb.WriteString("No reference documents matched the question. Say so if you cannot answer from general knowledge.")
	} else {
		sb.WriteString("Answer using the reference documents below and name the documents you used.\n")
		for _, d := range s.ranked {
			fmt.Fprintf(&sb, "\n### %s\n%s\n", d.Title, d.Content)
		}
	}
	text, err := w.answer(ctx, w.messages(s.in, sb.String()), s.out)
	if err != nil {
		return err
	}
	s.response = text
	return nil
}

func (s *ragState) checkpointState() map[string]string {
	ids := make([]string, 0, len(s.ranked))
	for _, d := range s.ranked {
		ids = append(ids, fmt.Sprint(d.ID))
	}
	return map[string]string{
		"terms":     strings.Join(s.terms, ","),
		"documents": strings.Join(ids, ","),
	}
}

func (w *RAGWorkflow) Execute(ctx context.Context, in Input) (*Result, error) {
	s := &ragState{in: in}
	nodes, err := w.graph.run(ctx, s)
	return w.finish(ctx, in, nodes, s.response, s.checkpointState(), err)
}

func (w *RAGWorkflow) ExecuteStream(ctx context.Context, in Input, out chan<- string) error {
	defer close(out)
	s := &ragState{in: in, out: out}
	nodes, err := w.graph.run(ctx, s)
	if err != nil {
		return err
	}
	w.checkpoint(ctx, in, nodes, s.checkpointState())
	return nil
}
