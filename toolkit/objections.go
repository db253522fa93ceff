package toolkit

import (
	"context"
	"strings"

	"github.com/revkit/revkit/schema"
)

// ObjectionAnswer is the Objections tool result.
type ObjectionAnswer struct {
	Answer    Answer     `json:"answer"`
	Citations []Citation `json:"citations"`
	Context   []Excerpt  `json:"context"`
}

type Answer struct {
	Bullets   []string `json:"bullets"`
	Caveat    string   `json:"caveat"`
	TalkTrack string   `json:"talkTrack"`
}

type Citation struct {
	Title string `json:"title"`
	Page  int    `json:"page"`
}

type Excerpt struct {
	Title   string `json:"title"`
	Page    int    `json:"page"`
	Excerpt string `json:"excerpt"`
}

var objectionShape = schema.MustCompile(schema.Object(map[string]*schema.Property{
	"answer": schema.Nested("Answer", map[string]*schema.Property{
		"bullets":   schema.Array("Key points", schema.Items("string")),
		"caveat":    schema.String("Caveat"),
		"talkTrack": schema.String("Talk track"),
	}, "bullets"),
	"citations": schema.Array("Citations", schema.Object(map[string]*schema.Property{
		"title": schema.String("Document"),
		"page":  schema.Integer("Page"),
	})),
	"context": schema.Array("Excerpts", schema.Object(map[string]*schema.Property{
		"title":   schema.String("Document"),
		"page":    schema.Integer("Page"),
		"excerpt": schema.String("Excerpt"),
	})),
}, "answer"))

// AnswerObjection answers a sales objection, grounding it in documents when
// any are given. Each document is passed as knowledge-base context; blank
// documents are skipped.
func (s *Service) AnswerObjection(ctx context.Context, question string, documents []string) (*ObjectionAnswer, error) {
	question, err := requireText("question", question)
	if err != nil {
		return nil, err
	}

	docs := make([]string, 0, len(documents))
	for _, d := range documents {
		if d = strings.TrimSpace(d); d != "" {
			docs = append(docs, d)
		}
	}

	var answer ObjectionAnswer
	err = s.generateJSON(ctx, jsonCall{
		tool:   "objection",
		system: jsonSystemPrompt,
		user:   objectionPrompt(question, docs),
		shape:  objectionShape,
	}, &answer)
	if err != nil {
		return nil, err
	}
	return &answer, nil
}
