package wolfram

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Inbound frame types
const (
	FramePods          = "pods"
	FrameDidYouMean    = "didyoumean"
	FrameFutureTopic   = "futureTopic"
	FrameNoResult      = "noResult"
	FrameQueryComplete = "queryComplete"
	FrameError         = "error"
)

// frameSchemaJSON lists the fields each handled frame type must carry.
// Unlisted frame types only need the "type" discriminator.
const frameSchemaJSON = `{
  "type": "object",
  "required": ["type"],
  "properties": {"type": {"type": "string"}},
  "allOf": [
    {
      "if": {"properties": {"type": {"const": "pods"}}},
      "then": {
        "required": ["pods"],
        "properties": {
          "pods": {
            "type": "array",
            "items": {
              "type": "object",
              "required": ["position"],
              "properties": {
                "position": {"type": "integer"},
                "error": {"type": "boolean"},
                "numsubpods": {"type": "integer"}
              }
            }
          }
        }
      }
    },
    {
      "if": {"properties": {"type": {"const": "didyoumean"}}},
      "then": {
        "required": ["didyoumean"],
        "properties": {
          "didyoumean": {
            "type": "array",
            "items": {"type": "object", "required": ["val"], "properties": {"val": {"type": "string"}}}
          }
        }
      }
    },
    {
      "if": {"properties": {"type": {"const": "futureTopic"}}},
      "then": {"required": ["futureTopic"], "properties": {"futureTopic": {"type": "object"}}}
    },
    {
      "if": {"properties": {"type": {"const": "error"}}},
      "then": {
        "required": ["status", "message"],
        "properties": {"status": {"type": "integer"}, "message": {"type": "string"}}
      }
    }
  ]
}`

var frameSchema = mustCompileFrameSchema()

func mustCompileFrameSchema() *jsonschema.Schema {
	var doc any
	if err := json.Unmarshal([]byte(frameSchemaJSON), &doc); err != nil {
		panic(fmt.Sprintf("wolfram: frame schema: %v", err))
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("frame.json", doc); err != nil {
		panic(fmt.Sprintf("wolfram: adding frame schema: %v", err))
	}
	schema, err := compiler.Compile("frame.json")
	if err != nil {
		panic(fmt.Sprintf("wolfram: compiling frame schema: %v", err))
	}
	return schema
}

// frame is an inbound message. Only the fields of its Type are set.
type frame struct {
	Type        string            `json:"type"`
	Pods        []json.RawMessage `json:"pods"`
	DidYouMean  []didYouMeanEntry `json:"didyoumean"`
	FutureTopic *FutureTopic      `json:"futureTopic"`
	Status      int               `json:"status"`
	Message     string            `json:"message"`
}

type didYouMeanEntry struct {
	Val string `json:"val"`
}

// podHeader holds the fields needed to decide whether a pod is kept,
// so rejected pods are never fully decoded.
type podHeader struct {
	Position   int  `json:"position"`
	Error      bool `json:"error"`
	NumSubpods int  `json:"numsubpods"`
}

// parseFrame decodes and validates one reassembled message.
func parseFrame(data []byte) (*frame, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &ProtocolError{Err: fmt.Errorf("invalid JSON: %w", err)}
	}

	var frameType string
	if m, ok := doc.(map[string]any); ok {
		frameType, _ = m["type"].(string)
	}

	if err := frameSchema.Validate(doc); err != nil {
		return nil, &ProtocolError{FrameType: frameType, Err: describeValidation(err)}
	}

	var f frame
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, &ProtocolError{FrameType: frameType, Err: err}
	}
	return &f, nil
}

// describeValidation flattens a schema validation error into one line.
func describeValidation(err error) error {
	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return err
	}
	var msgs []string
	collectLeaves(verr, &msgs)
	if len(msgs) == 0 {
		return err
	}
	return errors.New(strings.Join(msgs, "; "))
}

var printer = message.NewPrinter(language.English)

func collectLeaves(err *jsonschema.ValidationError, msgs *[]string) {
	if len(err.Causes) == 0 {
		if err.ErrorKind == nil {
			return
		}
		path := "/" + strings.Join(err.InstanceLocation, "/")
		*msgs = append(*msgs, fmt.Sprintf("%s: %s", path, err.ErrorKind.LocalizedString(printer)))
		return
	}
	for _, cause := range err.Causes {
		collectLeaves(cause, msgs)
	}
}

// resultBuilder accumulates frames into a QueryResult.
type resultBuilder struct {
	pods    PodSet
	outcome Outcome
}

func newResultBuilder() *resultBuilder {
	return &resultBuilder{outcome: Unknown{}}
}

// apply folds one frame into the result. It reports whether the frame is
// terminal, i.e. the stream must be closed.
func (b *resultBuilder) apply(f *frame) (terminal bool, err error) {
	switch f.Type {
	case FramePods:
		for _, raw := range f.Pods {
			if err := b.addPod(raw); err != nil {
				return false, &ProtocolError{FrameType: f.Type, Err: err}
			}
		}

	case FrameDidYouMean:
		suggestions := make([]string, len(f.DidYouMean))
		for i, d := range f.DidYouMean {
			suggestions[i] = d.Val
		}
		b.outcome = DidYouMean{Suggestions: suggestions}

	case FrameFutureTopic:
		b.outcome = *f.FutureTopic

	case FrameNoResult:
		b.outcome = NoResult{}

	case FrameQueryComplete:
		if b.outcome.Type() == TypeUnknown {
			b.outcome = Success{}
		}
		return true, nil

	case FrameError:
		b.outcome = RemoteError{StatusCode: f.Status, Message: f.Message}
		return true, nil

	default:
		slog.Debug("ignoring unknown wolfram frame", slog.String("type", f.Type))
	}
	return false, nil
}

func (b *resultBuilder) addPod(raw json.RawMessage) error {
	var h podHeader
	if err := json.Unmarshal(raw, &h); err != nil {
		return err
	}
	if h.Error || h.NumSubpods == 0 || b.pods.Has(h.Position) {
		return nil
	}

	var pod Pod
	if err := json.Unmarshal(raw, &pod); err != nil {
		return fmt.Errorf("pod at position %d: %w", h.Position, err)
	}
	b.pods.Add(pod)
	return nil
}

func (b *resultBuilder) result() *QueryResult {
	return &QueryResult{
		Pods:    b.pods.Pods(),
		outcome: b.outcome,
	}
}

// initFrame is the single outbound message of a query.
type initFrame struct {
	Type     string            `json:"type"`
	Lang     string            `json:"lang"`
	Messages []newQueryMessage `json:"messages"`
}

type newQueryMessage struct {
	Type             string  `json:"type"`
	LocationID       *string `json:"locationId"`
	Language         string  `json:"language"`
	RequestSidebarAd bool    `json:"requestSidebarAd"`
	Input            string  `json:"input"`
}

func encodeInit(input, language string) ([]byte, error) {
	return json.Marshal(initFrame{
		Type: "init",
		Lang: language,
		Messages: []newQueryMessage{{
			Type:     "newQuery",
			Language: language,
			Input:    input,
		}},
	})
}
