// Package wolfram provides a Go client for the Wolfram|Alpha web front end.
//
// Queries run over the streaming results websocket used by
// wolframalpha.com: the client sends one "init" frame and folds the frames
// the service streams back (pods, spelling suggestions, status messages)
// into a single QueryResult.
//
// # Quick Start
//
//	c := wolfram.New()
//	defer c.Close()
//
//	result, err := c.Query(ctx, "Chicago", "en")
//	if err != nil {
//	    return err
//	}
//
// # Result Types
//
// A QueryResult carries exactly one Outcome, selected by its type:
//
//	switch o := result.Outcome().(type) {
//	case wolfram.Success:
//	    for _, pod := range result.Pods {
//	        fmt.Println(pod.Title)
//	    }
//	case wolfram.DidYouMean:
//	    fmt.Println("did you mean", o.Suggestions)
//	case wolfram.FutureTopic:
//	    fmt.Println(o.Topic, o.Message)
//	case wolfram.RemoteError:
//	    fmt.Println(o.StatusCode, o.Message)
//	case wolfram.NoResult:
//	    fmt.Println("no result")
//	}
//
// Pods are ordered by position. Pods the service flags as failed or that
// have no subpods are dropped, and a pod re-sent for a position already seen
// is ignored.
//
// # Errors
//
// Errors returned by Query and Autocomplete are one of:
//
//   - ctx.Err() when the context is cancelled or times out
//   - ErrClosed after Close
//   - *TransportError for socket failures
//   - *ProtocolError for frames that cannot be parsed
//   - *APIError for HTTP error responses from the autocomplete endpoint
//
// Nothing is retried inside the client.
package wolfram
