package aioutput

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// RawText is model output that has not been validated yet.
type RawText string

const (
	ShapeQuestions  = "questions"
	ShapeEvaluation = "evaluation"
	ShapeFeedback   = "feedback"

	MinScore = 1
	MaxScore = 10

	// DegradedSummary is used when the model returned nothing usable at all.
	DegradedSummary = "The interview feedback could not be generated in a structured form."
)

// maxCandidates bounds how many embedded JSON starts are tried per response.
const maxCandidates = 64

// QuestionPlan is the required category mix of a generated question list.
type QuestionPlan struct {
	Technical  int
	Behavioral int
}

var DefaultQuestionPlan = QuestionPlan{Technical: 5, Behavioral: 2}

func (p QuestionPlan) Total() int { return p.Technical + p.Behavioral }

type Question struct {
	Question string `json:"question"`
	Category string `json:"category"`
}

type QuestionList []Question

type Evaluation struct {
	Score       int    `json:"score"`
	Comment     string `json:"comment"`
	Suggestions string `json:"suggestions"`
}

type FeedbackFields struct {
	TechnicalScore *int     `json:"technicalScore,omitempty"`
	Communication  string   `json:"communication"`
	Confidence     string   `json:"confidence"`
	Strengths      []string `json:"strengths"`
	Weaknesses     []string `json:"weaknesses"`
	Summary        string   `json:"summary"`
	Degraded       bool     `json:"degraded"`
}

// ParseQuestions validates a question list against plan. Any failure is
// returned as *MalformedOutputError; a partial list is never returned.
func ParseQuestions(raw RawText, plan QuestionPlan) (QuestionList, error) {
	cleaned := Sanitize(string(raw))
	var out QuestionList
	err := decodeFirst(cleaned, func(data []byte) error {
		list, err := decodeQuestions(data, plan)
		if err != nil {
			return err
		}
		out = list
		return nil
	})
	if err != nil {
		return nil, &MalformedOutputError{Shape: ShapeQuestions, Raw: string(raw), Cleaned: cleaned, Err: err}
	}
	return out, nil
}

// ParseEvaluation validates a per-answer evaluation. Failures are fatal.
func ParseEvaluation(raw RawText) (*Evaluation, error) {
	cleaned := Sanitize(string(raw))
	var out *Evaluation
	err := decodeFirst(cleaned, func(data []byte) error {
		ev, err := decodeEvaluation(data)
		if err != nil {
			return err
		}
		out = ev
		return nil
	})
	if err != nil {
		return nil, &MalformedOutputError{Shape: ShapeEvaluation, Raw: string(raw), Cleaned: cleaned, Err: err}
	}
	return out, nil
}

// ParseFeedback never fails: output that does not parse is degraded to a
// report holding only a non-empty summary.
func ParseFeedback(raw RawText) FeedbackFields {
	cleaned := Sanitize(string(raw))
	var out FeedbackFields
	err := decodeFirst(cleaned, func(data []byte) error {
		fb, err := decodeFeedback(data)
		if err != nil {
			return err
		}
		out = *fb
		return nil
	})
	if err != nil {
		return degradedFeedback(string(raw), cleaned)
	}
	return out
}

func degradedFeedback(raw, cleaned string) FeedbackFields {
	summary := cleaned
	if summary == "" {
		summary = strings.TrimSpace(raw)
	}
	if summary == "" {
		summary = DegradedSummary
	}
	return FeedbackFields{Summary: summary, Degraded: true}
}

// decodeFirst tries the whole text first and then every embedded JSON value,
// in order, until decode accepts one.
func decodeFirst(text string, decode func([]byte) error) error {
	if text == "" {
		return errors.New("empty response")
	}
	var firstErr error
	wholeValid := gjson.Valid(text)
	if wholeValid {
		firstErr = decode([]byte(text))
		if firstErr == nil {
			return nil
		}
	}

	tried := 0
	for i := 0; i < len(text) && tried < maxCandidates; i++ {
		if text[i] != '{' && text[i] != '[' {
			continue
		}
		if i == 0 && wholeValid {
			continue
		}
		tried++
		var candidate json.RawMessage
		if err := json.NewDecoder(strings.NewReader(text[i:])).Decode(&candidate); err != nil {
			continue
		}
		err := decode(candidate)
		if err == nil {
			return nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	if firstErr == nil {
		firstErr = errors.New("no JSON value found")
	}
	return firstErr
}

func decodeQuestions(data []byte, plan QuestionPlan) (QuestionList, error) {
	var items []struct {
		Question *string `json:"question"`
		Category *string `json:"category"`
	}
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("expected a JSON array of questions: %w", err)
	}
	if len(items) != plan.Total() {
		return nil, fmt.Errorf("expected %d questions, got %d", plan.Total(), len(items))
	}

	list := make(QuestionList, 0, len(items))
	technical, behavioral := 0, 0
	for i, item := range items {
		if item.Question == nil || strings.TrimSpace(*item.Question) == "" {
			return nil, fmt.Errorf("question %d: missing question text", i+1)
		}
		if item.Category == nil {
			return nil, fmt.Errorf("question %d: missing category", i+1)
		}
		category, ok := normalizeCategory(*item.Category)
		if !ok {
			return nil, fmt.Errorf("question %d: unknown category %q", i+1, *item.Category)
		}
		if category == "Technical" {
			technical++
		} else {
			behavioral++
		}
		list = append(list, Question{Question: strings.TrimSpace(*item.Question), Category: category})
	}
	if technical != plan.Technical || behavioral != plan.Behavioral {
		return nil, fmt.Errorf("expected %d Technical and %d Behavioral questions, got %d and %d",
			plan.Technical, plan.Behavioral, technical, behavioral)
	}
	return list, nil
}

func normalizeCategory(category string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(category)) {
	case "technical":
		return "Technical", true
	case "behavioral", "behavioural":
		return "Behavioral", true
	}
	return "", false
}

func decodeEvaluation(data []byte) (*Evaluation, error) {
	var payload struct {
		Score       json.RawMessage `json:"score"`
		Comment     *string         `json:"comment"`
		Suggestions json.RawMessage `json:"suggestions"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("expected a JSON evaluation object: %w", err)
	}
	if len(payload.Score) == 0 {
		return nil, errors.New("missing score")
	}
	score, err := parseScore(payload.Score)
	if err != nil {
		return nil, err
	}
	if score < MinScore || score > MaxScore {
		return nil, fmt.Errorf("score %d outside %d-%d", score, MinScore, MaxScore)
	}
	if payload.Comment == nil {
		return nil, errors.New("missing comment")
	}
	suggestions, err := parseText(payload.Suggestions)
	if err != nil {
		return nil, fmt.Errorf("suggestions: %w", err)
	}
	return &Evaluation{
		Score:       score,
		Comment:     strings.TrimSpace(*payload.Comment),
		Suggestions: suggestions,
	}, nil
}

func decodeFeedback(data []byte) (*FeedbackFields, error) {
	var payload struct {
		TechnicalScore json.RawMessage `json:"technicalScore"`
		Communication  json.RawMessage `json:"communication"`
		Confidence     json.RawMessage `json:"confidence"`
		Strengths      json.RawMessage `json:"strengths"`
		Weaknesses     json.RawMessage `json:"weaknesses"`
		Summary        json.RawMessage `json:"summary"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("expected a JSON feedback object: %w", err)
	}

	out := &FeedbackFields{}
	if len(payload.TechnicalScore) > 0 && string(payload.TechnicalScore) != "null" {
		score, err := parseScore(payload.TechnicalScore)
		if err != nil {
			return nil, fmt.Errorf("technicalScore: %w", err)
		}
		score = clampScore(score)
		out.TechnicalScore = &score
	}

	var err error
	if out.Summary, err = parseText(payload.Summary); err != nil {
		return nil, fmt.Errorf("summary: %w", err)
	}
	if out.TechnicalScore == nil && out.Summary == "" {
		return nil, errors.New("neither technicalScore nor summary present")
	}
	if out.Summary == "" {
		out.Summary = DegradedSummary
	}
	if out.Communication, err = parseText(payload.Communication); err != nil {
		return nil, fmt.Errorf("communication: %w", err)
	}
	if out.Confidence, err = parseText(payload.Confidence); err != nil {
		return nil, fmt.Errorf("confidence: %w", err)
	}
	if out.Strengths, err = parseList(payload.Strengths); err != nil {
		return nil, fmt.Errorf("strengths: %w", err)
	}
	if out.Weaknesses, err = parseList(payload.Weaknesses); err != nil {
		return nil, fmt.Errorf("weaknesses: %w", err)
	}
	return out, nil
}

// parseScore accepts a JSON number or a numeric string and rounds to the
// nearest integer.
func parseScore(raw json.RawMessage) (int, error) {
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, fmt.Errorf("score is not a number: %s", string(raw))
		}
		f, err = strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 0, fmt.Errorf("score is not a number: %q", s)
		}
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errors.New("score is not finite")
	}
	return int(math.Round(f)), nil
}

func clampScore(score int) int {
	if score < MinScore {
		return MinScore
	}
	if score > MaxScore {
		return MaxScore
	}
	return score
}

// parseText accepts a string, a list of strings (joined by newlines) or null.
func parseText(raw json.RawMessage) (string, error) {
	list, err := parseList(raw)
	if err != nil {
		return "", err
	}
	return strings.Join(list, "\n"), nil
}

// parseList accepts a list of strings, a single string or null.
func parseList(raw json.RawMessage) ([]string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return []string{}, nil
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err != nil {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("expected text or a list of text, got %s", string(raw))
		}
		list = []string{s}
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out, nil
}
