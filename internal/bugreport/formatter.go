// Package bugreport turns informal testing notes into structured bug
// reports using the Gemini API.
package bugreport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

// ErrNoJSON is returned when the model reply carries no JSON object.
var ErrNoJSON = errors.New("model returned no JSON object")

const promptTemplate = `You are a professional Senior QA Engineer.
I will provide you with a messy, informal testing note about a bug.
Your task is to convert it into a highly professional, structured bug report.

Please return your response as a valid JSON object with the following fields:
1. title: A concise, professional title for the bug.
2. steps: An array of steps to reproduce the bug.
3. expected: What was supposed to happen.
4. actual: What actually happened.
5. severity: Suggest a severity (Low, Medium, High, Critical).

Testing Note:
"%s"`

// Models sometimes wrap the object in a code fence; take the outermost
// braces instead of trusting the reply verbatim.
var jsonObjectPattern = regexp.MustCompile(`(?s)\{.*\}`)

// Formatter formats bug notes through a Gemini model. A Formatter
// built without an API key stays usable but reports Configured()==false.
type Formatter struct {
	client *genai.Client
	model  string
	logger *zap.Logger
}

// NewFormatter creates the formatter. An empty apiKey yields an
// unconfigured formatter rather than an error, so the rest of the site
// can run without AI access.
func NewFormatter(ctx context.Context, apiKey, model string, logger *zap.Logger) (*Formatter, error) {
	f := &Formatter{model: model, logger: logger}
	if apiKey == "" {
		return f, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	f.client = client
	return f, nil
}

// Configured reports whether an API key was provided.
func (f *Formatter) Configured() bool {
	return f != nil && f.client != nil
}

// Format sends the note to the model and returns the structured report
// as raw JSON.
func (f *Formatter) Format(ctx context.Context, note string) (json.RawMessage, error) {
	prompt := fmt.Sprintf(promptTemplate, note)

	resp, err := f.client.Models.GenerateContent(ctx, f.model, genai.Text(prompt), nil)
	if err != nil {
		return nil, fmt.Errorf("generate content: %w", err)
	}

	report, err := ExtractJSON(resp.Text())
	if err != nil {
		f.logger.Warn("unusable model reply", zap.String("model", f.model), zap.Error(err))
		return nil, err
	}
	return report, nil
}

// ExtractJSON pulls the first JSON object out of a model reply.
func ExtractJSON(text string) (json.RawMessage, error) {
	match := jsonObjectPattern.FindString(text)
	if match == "" {
		return nil, ErrNoJSON
	}
	if !json.Valid([]byte(match)) {
		return nil, ErrNoJSON
	}
	return json.RawMessage(match), nil
}
