package prompts

import (
	"context"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// HandleSolve implements the question answering workflow.
func HandleSolve(cfg *Config) func(ctx context.Context, req *sdkmcp.GetPromptRequest) (*sdkmcp.GetPromptResult, error) {
	return func(ctx context.Context, req *sdkmcp.GetPromptRequest) (*sdkmcp.GetPromptResult, error) {
		args := req.Params.Arguments

		question := strings.TrimSpace(args["question"])
		if question == "" {
			return nil, fmt.Errorf("question is required")
		}
		language := args["language"]
		if language == "" {
			language = cfg.DefaultLanguage
		}

		var sb strings.Builder

		sb.WriteString("# Answer with Wolfram|Alpha\n\n")
		sb.WriteString("You answer questions by querying Wolfram|Alpha and reporting what it computed. ")
		sb.WriteString("Prefer its results over your own arithmetic or recollection of facts.\n\n")

		sb.WriteString("## Question\n\n")
		fmt.Fprintf(&sb, "%s\n\n", question)

		sb.WriteString("## Workflow Steps\n\n")
		sb.WriteString("1. **Phrase the input** - Wolfram|Alpha understands short keyword phrases best\n")
		sb.WriteString("   - `integrate x^2 sin x` rather than `what is the integral of x squared times sine x`\n")
		sb.WriteString("   - If unsure, call `wolfram_autocomplete` with the start of the input and pick a suggestion\n\n")
		fmt.Fprintf(&sb, "2. **Query** - Call `wolfram_query` with `language: %q`\n\n", language)
		sb.WriteString("3. **Check `type`**\n")
		sb.WriteString("   - `success`: read the pods\n")
		sb.WriteString("   - `didYouMean`: retry once with the first entry of `did_you_mean`\n")
		sb.WriteString("   - `noResult`: rephrase more simply and retry once, then say Wolfram|Alpha has no answer\n")
		sb.WriteString("   - `futureTopic`: report `future_topic.msg`; the topic is not supported yet\n")
		sb.WriteString("   - `error`: report `error.message`\n\n")
		sb.WriteString("4. **Read the pods** - Pods come in display order\n")
		sb.WriteString("   - The first pod is usually the input interpretation; check it matches the question\n")
		sb.WriteString("   - The answer is usually in a pod titled `Result`, `Exact result` or `Decimal approximation`\n")
		sb.WriteString("   - For large results pass `jq`, e.g. `.pods[] | select(.title == \"Result\") | .subpods[].plaintext`\n\n")

		sb.WriteString("## Output Format\n\n")
		sb.WriteString("- State the answer first, then the interpretation Wolfram|Alpha used\n")
		sb.WriteString("- Quote plain text values exactly, including units\n")
		sb.WriteString("- Link image URLs for plots instead of describing them\n")

		return &sdkmcp.GetPromptResult{
			Description: "Answer a question with Wolfram|Alpha",
			Messages: []*sdkmcp.PromptMessage{
				{
					Role:    "user",
					Content: &sdkmcp.TextContent{Text: sb.String()},
				},
			},
		}, nil
	}
}
