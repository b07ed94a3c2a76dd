package wolfram

import (
	"encoding/json"
	"fmt"
)

// ResultType identifies which outcome a QueryResult carries.
type ResultType int

// Result types
const (
	TypeUnknown ResultType = iota
	TypeSuccess
	TypeDidYouMean
	TypeFutureTopic
	TypeNoResult
	TypeError
)

var resultTypeNames = [...]string{
	TypeUnknown:     "unknown",
	TypeSuccess:     "success",
	TypeDidYouMean:  "didYouMean",
	TypeFutureTopic: "futureTopic",
	TypeNoResult:    "noResult",
	TypeError:       "error",
}

func (t ResultType) String() string {
	if t < 0 || int(t) >= len(resultTypeNames) {
		return fmt.Sprintf("ResultType(%d)", int(t))
	}
	return resultTypeNames[t]
}

// MarshalText implements encoding.TextMarshaler.
func (t ResultType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Outcome is the type-specific payload of a QueryResult.
// The concrete types are Unknown, Success, DidYouMean, FutureTopic, NoResult
// and RemoteError; no other type implements it.
type Outcome interface {
	Type() ResultType
	isOutcome()
}

// Unknown is the outcome of a query that ended without a type-setting frame.
type Unknown struct{}

// Success is the outcome of a query that completed with pods.
type Success struct{}

// NoResult is the outcome of a query the service could not interpret.
type NoResult struct{}

// DidYouMean carries the spelling suggestions offered instead of a result.
type DidYouMean struct {
	Suggestions []string `json:"suggestions"`
}

// FutureTopic is returned for topics that are not yet supported.
type FutureTopic struct {
	Topic   string `json:"topic"`
	Message string `json:"msg"`
}

// RemoteError is an error reported by the service in an "error" frame.
// It is an expected outcome of a valid query, not a Go error.
type RemoteError struct {
	StatusCode int    `json:"status"`
	Message    string `json:"message"`
}

func (Unknown) Type() ResultType     { return TypeUnknown }
func (Success) Type() ResultType     { return TypeSuccess }
func (NoResult) Type() ResultType    { return TypeNoResult }
func (DidYouMean) Type() ResultType  { return TypeDidYouMean }
func (FutureTopic) Type() ResultType { return TypeFutureTopic }
func (RemoteError) Type() ResultType { return TypeError }

func (Unknown) isOutcome()     {}
func (Success) isOutcome()     {}
func (NoResult) isOutcome()    {}
func (DidYouMean) isOutcome()  {}
func (FutureTopic) isOutcome() {}
func (RemoteError) isOutcome() {}

// QueryResult is the assembled outcome of one streaming query.
type QueryResult struct {
	// Pods are ordered by ascending position with at most one pod per position.
	Pods []Pod

	outcome Outcome
}

// NewQueryResult builds a result from an outcome and pods. Pods are copied
// into ascending position order, keeping the first pod seen per position.
func NewQueryResult(outcome Outcome, pods ...Pod) *QueryResult {
	var set PodSet
	for _, p := range pods {
		set.Add(p)
	}
	return &QueryResult{Pods: set.Pods(), outcome: outcome}
}

// Type returns the result type tag.
func (r *QueryResult) Type() ResultType {
	return r.Outcome().Type()
}

// Outcome returns the type-specific payload. It is never nil.
func (r *QueryResult) Outcome() Outcome {
	if r.outcome == nil {
		return Unknown{}
	}
	return r.outcome
}

// MarshalJSON renders the result with its type tag and the single payload
// matching that tag.
func (r *QueryResult) MarshalJSON() ([]byte, error) {
	out := struct {
		Type        ResultType   `json:"type"`
		DidYouMean  []string     `json:"didYouMean,omitempty"`
		FutureTopic *FutureTopic `json:"futureTopic,omitempty"`
		Error       *RemoteError `json:"error,omitempty"`
		Pods        []Pod        `json:"pods"`
	}{
		Type: r.Type(),
		Pods: r.Pods,
	}
	if out.Pods == nil {
		out.Pods = []Pod{}
	}

	switch o := r.Outcome().(type) {
	case DidYouMean:
		out.DidYouMean = o.Suggestions
	case FutureTopic:
		out.FutureTopic = &o
	case RemoteError:
		out.Error = &o
	}

	return json.Marshal(out)
}

// Pod is one titled section of a result (e.g. "Input interpretation").
type Pod struct {
	Title      string   `json:"title"`
	Scanner    string   `json:"scanner,omitempty"`
	ID         string   `json:"id"`
	Position   int      `json:"position"`
	Error      bool     `json:"error"`
	NumSubpods int      `json:"numsubpods"`
	Primary    bool     `json:"primary,omitempty"`
	SubPods    []SubPod `json:"subpods"`
}

// SubPod is one entry of a pod.
type SubPod struct {
	Title     string `json:"title"`
	PlainText string `json:"plaintext"`
	Image     *Image `json:"img,omitempty"`
}

// Image describes the rendered form of a subpod.
type Image struct {
	Src         string `json:"src"`
	Alt         string `json:"alt,omitempty"`
	Title       string `json:"title,omitempty"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ContentType string `json:"contenttype,omitempty"`
	Data        []byte `json:"data,omitempty"` // Base64-encoded inline image, when sent
}

// HasData reports whether the image bytes were sent inline.
func (i *Image) HasData() bool {
	return i != nil && len(i.Data) > 0
}
