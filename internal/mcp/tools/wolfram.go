package tools

import (
	"context"
	"strings"
	"unicode/utf8"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/fergun/pkg/jsoncompact"
	"github.com/usestring/fergun/pkg/wolfram"
)

// Input limits
const (
	maxInputLen      = 1000
	maxSelectResults = 1000
)

// QueryInput is the input for wolfram_query.
type QueryInput struct {
	Input    string `json:"input" jsonschema:"Something to calculate or know about, e.g. 'integrate x^2' or 'population of Chicago'"`
	Language string `json:"language,omitempty" jsonschema:"ISO 639-1 language code for the answer (default: en)"`
	JQ       string `json:"jq,omitempty" jsonschema:"Optional jq expression evaluated over the full result JSON, e.g. '.pods[].title'"`
}

// QueryOutput is the output of wolfram_query.
type QueryOutput struct {
	Type            string               `json:"type" jsonschema:"success, didYouMean, futureTopic, noResult, error or unknown"`
	Pods            []PodView            `json:"pods,omitzero"`
	DidYouMean      []string             `json:"did_you_mean,omitzero"`
	FutureTopic     *wolfram.FutureTopic `json:"future_topic,omitempty"`
	Error           *wolfram.RemoteError `json:"error,omitempty"`
	Selection       any                  `json:"selection,omitempty" jsonschema:"Compacted jq values, present when jq was given"`
	SelectionErrors []string             `json:"selection_errors,omitzero"`
}

// PodView is a pod without inline image bytes.
type PodView struct {
	Title    string       `json:"title"`
	ID       string       `json:"id,omitempty"`
	Position int          `json:"position"`
	SubPods  []SubPodView `json:"subpods"`
}

// SubPodView is a subpod without inline image bytes.
type SubPodView struct {
	Title        string `json:"title,omitempty"`
	PlainText    string `json:"plaintext,omitempty"`
	ImageURL     string `json:"image_url,omitempty"`
	HasImageData bool   `json:"has_image_data,omitempty"`
}

// ToolQuery runs a Wolfram|Alpha query.
func ToolQuery(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input QueryInput) (*sdkmcp.CallToolResult, QueryOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input QueryInput) (*sdkmcp.CallToolResult, QueryOutput, error) {
		if strings.TrimSpace(input.Input) == "" {
			return nil, QueryOutput{}, ErrInvalidInput("input is required")
		}
		if utf8.RuneCountInString(input.Input) > maxInputLen {
			return nil, QueryOutput{}, ErrInvalidInput("input is too long")
		}
		if input.JQ != "" {
			if err := d.Query.ValidateExpression(input.JQ); err != nil {
				return nil, QueryOutput{}, ErrInvalidInput(err.Error())
			}
		}

		language := input.Language
		if language == "" {
			language = d.Config.DefaultLanguage
		}

		queryCtx, cancel := context.WithTimeout(ctx, d.Config.QueryTimeout)
		defer cancel()

		result, err := d.Wolfram.Query(queryCtx, input.Input, language)
		if err != nil {
			return nil, QueryOutput{}, WrapWolframError(err)
		}

		out := buildQueryOutput(result)
		if input.JQ != "" {
			sel, err := d.Query.Select(ctx, result, input.JQ, false, maxSelectResults)
			if err != nil {
				return nil, QueryOutput{}, ErrInvalidInput(err.Error())
			}
			opts := d.Config.CompactOptions()
			out.Selection = jsoncompact.CompactValue(sel.Values, &opts)
			out.SelectionErrors = sel.Errors
		}

		return nil, out, nil
	}
}

func buildQueryOutput(r *wolfram.QueryResult) QueryOutput {
	out := QueryOutput{Type: r.Type().String()}

	switch o := r.Outcome().(type) {
	case wolfram.DidYouMean:
		out.DidYouMean = o.Suggestions
	case wolfram.FutureTopic:
		out.FutureTopic = &o
	case wolfram.RemoteError:
		out.Error = &o
	}

	for _, pod := range r.Pods {
		view := PodView{
			Title:    pod.Title,
			ID:       pod.ID,
			Position: pod.Position,
			SubPods:  make([]SubPodView, 0, len(pod.SubPods)),
		}
		for _, sub := range pod.SubPods {
			sv := SubPodView{Title: sub.Title, PlainText: sub.PlainText}
			if sub.Image != nil {
				sv.ImageURL = sub.Image.Src
				sv.HasImageData = sub.Image.HasData()
			}
			view.SubPods = append(view.SubPods, sv)
		}
		out.Pods = append(out.Pods, view)
	}
	return out
}

// AutocompleteInput is the input for wolfram_autocomplete.
type AutocompleteInput struct {
	Input string `json:"input" jsonschema:"Partial query to complete"`
}

// AutocompleteOutput is the output of wolfram_autocomplete.
type AutocompleteOutput struct {
	Suggestions []string `json:"suggestions,omitzero"`
}

// ToolAutocomplete returns query completions for a prefix.
func ToolAutocomplete(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input AutocompleteInput) (*sdkmcp.CallToolResult, AutocompleteOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input AutocompleteInput) (*sdkmcp.CallToolResult, AutocompleteOutput, error) {
		prefix := strings.TrimSpace(input.Input)
		if prefix == "" {
			return nil, AutocompleteOutput{}, ErrInvalidInput("input is required")
		}

		suggestions, err := d.Autocomplete.Autocomplete(ctx, prefix)
		if err != nil {
			return nil, AutocompleteOutput{}, WrapWolframError(err)
		}
		return nil, AutocompleteOutput{Suggestions: suggestions}, nil
	}
}
