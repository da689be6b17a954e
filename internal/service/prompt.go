package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/fadilmartias/presentation-evaluator/internal/model"
	"github.com/fadilmartias/presentation-evaluator/internal/util"
	"github.com/invopop/jsonschema"
)

// judgeResponse documents the reply shape for the model. Parsing goes
// through ParseEvaluation, not this type.
type judgeResponse struct {
	DimensionScores   map[string]float64 `json:"dimension_scores" jsonschema:"description=Score from 0 to 100 for every rubric dimension"`
	Justifications    map[string]string  `json:"justifications" jsonschema:"description=Two or three sentences per dimension explaining its score"`
	Strengths         []string           `json:"strengths" jsonschema:"description=Top three strengths,maxItems=3"`
	Improvements      []string           `json:"improvements" jsonschema:"description=Top three areas for improvement,maxItems=3"`
	OverallAssessment string             `json:"overall_assessment" jsonschema:"description=One paragraph overall assessment"`
}

var responseSchema = sync.OnceValues(func() ([]byte, error) {
	r := jsonschema.Reflector{
		ExpandedStruct: true,
		DoNotReference: true,
	}
	s := r.Reflect(&judgeResponse{})
	s.Version = ""
	return json.MarshalIndent(s, "", "  ")
})

const promptTemplate = `You are an expert presentation evaluator. Analyze this presentation based on the following rubric:

RUBRIC:
%s

USER INPUT DATA (JSON):
%s

PRESENTATION CONTENT (First %d chars):
%s

Evaluate the presentation on each dimension (score 0-100) and provide:
1. Score for each dimension
2. Brief justification (2-3 sentences) for each score
3. Top 3 strengths
4. Top 3 areas for improvement
5. Overall assessment (1 paragraph)

Use exactly these dimension keys in "dimension_scores" and "justifications": %s

Respond in JSON matching this schema:
%s

IMPORTANT: Respond ONLY with valid JSON, no other text.`

// BuildPrompt renders the judge prompt. The rubric contributes descriptions
// only, in rubric order. The structured input is pretty printed and cut to
// jsonLimit characters, the document text to textLimit characters.
func BuildPrompt(req EvaluationRequest, jsonLimit, textLimit int) (string, error) {
	rubric, err := rubricDescriptions(req.Rubric)
	if err != nil {
		return "", err
	}

	var structured bytes.Buffer
	if len(req.Structured) > 0 {
		if err := json.Indent(&structured, req.Structured, "", "  "); err != nil {
			return "", fmt.Errorf("formatting structured input: %w", err)
		}
	}

	keys, err := json.Marshal(req.Rubric.Dimensions())
	if err != nil {
		return "", err
	}

	schema, err := responseSchema()
	if err != nil {
		return "", fmt.Errorf("generating response schema: %w", err)
	}

	return fmt.Sprintf(promptTemplate,
		rubric,
		util.Truncate(structured.String(), jsonLimit),
		textLimit,
		util.Truncate(req.DocumentText, textLimit),
		keys,
		schema,
	), nil
}

func rubricDescriptions(rubric model.Rubric) (string, error) {
	if len(rubric) == 0 {
		return "{}", nil
	}
	var sb strings.Builder
	sb.WriteString("{\n")
	for i, e := range rubric {
		key, err := json.Marshal(e.Dimension)
		if err != nil {
			return "", err
		}
		val, err := json.Marshal(e.Description)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&sb, "  %s: %s", key, val)
		if i < len(rubric)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("}")
	return sb.String(), nil
}
