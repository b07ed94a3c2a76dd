package prompts

import (
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Register registers all prompts with the MCP server.
func Register(srv *sdkmcp.Server, cfg *Config) {
	srv.AddPrompt(&sdkmcp.Prompt{
		Name:        "wolfram_solve",
		Description: "RECOMMENDED: Answer a question with Wolfram|Alpha. Walks through phrasing the input, reading the pods, and recovering from didYouMean or noResult.",
		Arguments: []*sdkmcp.PromptArgument{
			{
				Name:        "question",
				Description: "The question or computation, in natural language",
				Required:    true,
			},
			{
				Name:        "language",
				Description: "ISO 639-1 code of the language to answer in",
				Required:    false,
			},
		},
	}, HandleSolve(cfg))
}
