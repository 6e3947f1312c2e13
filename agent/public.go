package agent

import (
	"context"
	"fmt"

	"github.com/finlens/thirteenf"
	"github.com/finlens/thirteenf/docs"
	"github.com/finlens/thirteenf/quarter"
	"github.com/finlens/thirteenf/renderer"
	"google.golang.org/genai"
)

const model = "gemini-2.5-pro"

// creates the facilitator
func newFacilitator(experts ...*Expert) *Expert {
	return &Expert{
		Name:        "Facilitator",
		Description: ``,
		ModelName:   model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(experts)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			As a facilitator you are in charge of the conversation and solving the user's request.

			Learn about the expert's skill that you can get from the Tools to ask them questions.
			They are at your service and 100% dedicated to you, they keep context of your previous questions.

			The user is here to understand what hedge funds held and traded, quarter by quarter,
			based on their public 13F filings.

			Devise a plan of questions to ask each expert and come up with the best response to the user's request.

			The user will assume that you know about the funds and securities in his local filing store,
			check the store first to understand what they are.
		`}}},
		},
		Library: NewLibrary(experts),
	}
}

// NewResearcher returns the expert grounding answers in public information.
func NewResearcher() *Expert {
	return &Expert{
		Name: "Researcher",
		Description: `This is an expert financial researcher,
		very well aware of financial products and institutions,
		and of the latest news about funds and companies.
		Ask the Researcher whenever you need recent or grounding information.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{GoogleSearch: &genai.GoogleSearch{}},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			You are an expert in financial research, you can search and find about anything related
			to financial institutions, companies, markets and funds. You leverage Google Search to
			ground your assertions in a solid truth.
			You can get the latest news too, and you know how to relate them to the user's request.
				`}}},
		},
	}
}

// Loader provides the filing data the analyst's tools operate on. It is
// called on every tool call so the assistant always sees the current file.
type Loader func() (*thirteenf.Service, error)

// NewAnalyst returns the expert in charge of the user's local filing store.
func NewAnalyst(load Loader) *Expert {
	lib := []Function{
		securitiesFunc(load),
		timelineFunc(load),
		snapshotFunc(load),
		moversFunc(load),
	}

	return &Expert{
		Name: "Analyst",
		Description: `This is the Analyst. He is in charge of reading the user's local store of
		13F filings. He can list the known funds and securities, summarize a fund's portfolio
		for a quarter, walk its quarter-by-quarter changes, and rank what many funds bought
		or sold in a quarter.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(lib)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
				You are an analyst in charge of the user's local store of 13F filings.
				You know how to use the Tools to extract relevant information from it.
				You are part of a team of experts, yours is everything inside the filing store.
				They might ask you questions with approximate fund or security names,
				pardon their language and figure out what they meant.

				Use the available tools to get information about
				  - the known funds and securities
				  - a fund's portfolio in a quarter
				  - a fund's quarter-by-quarter trading
				  - what many funds did in a quarter
			`}}},
		},
		Library: NewLibrary(lib),
	}
}

// Func implements a simple Function
type Func struct {
	// Declare this function
	Decl *genai.FunctionDeclaration
	// Call this function
	Func func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse
}

func (f *Func) Declaration() *genai.FunctionDeclaration { return f.Decl }
func (f *Func) Call(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
	return f.Func(ctx, id, args)
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func errResponse(id, name string, err error) *genai.FunctionResponse {
	return &genai.FunctionResponse{
		ID:   id,
		Name: name,
		Response: map[string]any{
			"error": err.Error(),
		},
	}
}

func okResponse(id, name, output string) *genai.FunctionResponse {
	return &genai.FunctionResponse{
		ID:   id,
		Name: name,
		Response: map[string]any{
			"output": output,
		},
	}
}

func stringArg(args map[string]any, name string) (string, error) {
	v, ok := args[name]
	if !ok {
		return "", fmt.Errorf("missing argument %q", name)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("argument %q is not a string as expected but %T", name, v)
	}
	return s, nil
}

func quarterArg(args map[string]any) (quarter.Quarter, error) {
	s, err := stringArg(args, "quarter")
	if err != nil {
		return quarter.Quarter{}, err
	}
	q, err := quarter.Parse(s)
	if err != nil {
		return quarter.Quarter{}, fmt.Errorf("argument 'quarter' must be a valid quarter, got %q. Below is the doc about the format\n\n%s", s, must(docs.GetTopic("quarters")))
	}
	return q, nil
}

func securitiesFunc(load Loader) *Func {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name: "Securities",
			Description: `Securities lists all funds and all securities known to the filing store.

			For each security it details the canonical key, the usual name, the matching
			confidence, and every raw identifier ever seen for it.`,
			Parameters: &genai.Schema{Type: genai.TypeObject},
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A markdown-formatted list of funds followed by a table of all known securities.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			svc, err := load()
			if err != nil {
				return errResponse(id, "Securities", err)
			}
			out := renderer.FundsMarkdown(svc.Store().Funds()) + "\n" +
				renderer.SecuritiesMarkdown(svc.Normalizer())
			return okResponse(id, "Securities", out)
		},
	}
}

func timelineFunc(load Loader) *Func {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name: "Timeline",
			Description: `Timeline walks one fund's filings quarter by quarter, with the number of
			positions opened, closed, increased and decreased against the nearest earlier filing.`,
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"fund": {
						Type:        genai.TypeString,
						Description: "The fund identifier, as listed by the Securities tool.",
					},
				},
				Required: []string{"fund"},
			},
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A markdown-formatted table, one row per reported quarter.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			fund, err := stringArg(args, "fund")
			if err != nil {
				return errResponse(id, "Timeline", err)
			}
			svc, err := load()
			if err != nil {
				return errResponse(id, "Timeline", err)
			}
			entries, err := thirteenf.NewAggregator(svc.Store()).Timeline(fund)
			if err != nil {
				return errResponse(id, "Timeline", err)
			}
			return okResponse(id, "Timeline", renderer.TimelineMarkdown(fund, entries))
		},
	}
}

func snapshotFunc(load Loader) *Func {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name: "Snapshot",
			Description: `Snapshot summarizes one fund's portfolio for one quarter: total value,
			largest holdings with their weights, and the concentration index.`,
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"fund": {
						Type:        genai.TypeString,
						Description: "The fund identifier, as listed by the Securities tool.",
					},
					"quarter": {
						Type:        genai.TypeString,
						Description: "The quarter, e.g. \"Q1 2024\".",
					},
				},
				Required: []string{"fund", "quarter"},
			},
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A markdown-formatted portfolio summary.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			fund, err := stringArg(args, "fund")
			if err != nil {
				return errResponse(id, "Snapshot", err)
			}
			q, err := quarterArg(args)
			if err != nil {
				return errResponse(id, "Snapshot", err)
			}
			svc, err := load()
			if err != nil {
				return errResponse(id, "Snapshot", err)
			}
			snap, err := thirteenf.NewAggregator(svc.Store()).Snapshot(fund, q, 20)
			if err != nil {
				return errResponse(id, "Snapshot", err)
			}
			return okResponse(id, "Snapshot", renderer.SnapshotMarkdown(snap))
		},
	}
}

func moversFunc(load Loader) *Func {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name: "Movers",
			Description: `Movers ranks securities by how many funds performed the same action on
			them in a quarter. Use it to answer "what did everyone buy" questions.`,
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"quarter": {
						Type:        genai.TypeString,
						Description: "The quarter, e.g. \"Q1 2024\".",
					},
					"action": {
						Type:        genai.TypeString,
						Description: "One of: opened, closed, increased, decreased, unchanged.",
					},
				},
				Required: []string{"quarter", "action"},
			},
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A markdown-formatted ranking of securities with the funds involved.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			q, err := quarterArg(args)
			if err != nil {
				return errResponse(id, "Movers", err)
			}
			s, err := stringArg(args, "action")
			if err != nil {
				return errResponse(id, "Movers", err)
			}
			action, err := thirteenf.ParseAction(s)
			if err != nil {
				return errResponse(id, "Movers", err)
			}
			svc, err := load()
			if err != nil {
				return errResponse(id, "Movers", err)
			}
			movers, err := thirteenf.NewAggregator(svc.Store()).Movers(q, action, 20)
			if err != nil {
				return errResponse(id, "Movers", err)
			}
			return okResponse(id, "Movers", renderer.MoversMarkdown(q, action, movers))
		},
	}
}
