package wolfram

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// chunkPool recycles the buffers single reads land in. A chunk goes back to
// the pool as soon as its bytes are copied into the message buffer.
var chunkPool = sync.Pool{
	New: func() any {
		b := make([]byte, DefaultChunkSize)
		return &b
	},
}

func getChunk(size int) *[]byte {
	bp := chunkPool.Get().(*[]byte)
	if cap(*bp) < size {
		b := make([]byte, size)
		return &b
	}
	*bp = (*bp)[:size]
	return bp
}

func putChunk(bp *[]byte) {
	chunkPool.Put(bp)
}

// readChunks copies one logical message from r into dst, at most size bytes
// per read, until r reports the end of the message.
func readChunks(r io.Reader, dst *bytes.Buffer, size int) error {
	for {
		chunk := getChunk(size)
		n, err := r.Read(*chunk)
		dst.Write((*chunk)[:n])
		putChunk(chunk)

		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// Query sends input to Wolfram|Alpha and assembles the streamed result.
//
// A remote "error" frame is reported through the result (TypeError), not as
// a Go error. Cancellation of ctx, including while the socket is blocked,
// returns ctx.Err() and no result.
func (c *Client) Query(ctx context.Context, input, language string) (*QueryResult, error) {
	if err := c.checkUsable(ctx); err != nil {
		return nil, err
	}
	if language == "" {
		return nil, fmt.Errorf("%w: language is required", ErrInvalidArgument)
	}

	start := time.Now()

	header := http.Header{}
	header.Set("User-Agent", c.userAgent)

	conn, _, err := c.dialer.DialContext(ctx, c.resultsURL, header)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		slog.Debug("wolfram stream dial failed",
			slog.String("error", err.Error()),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return nil, &TransportError{Op: "dial", Err: err}
	}
	defer conn.Close()

	s := &stream{
		conn:         conn,
		chunkSize:    c.chunkSize,
		closeTimeout: c.closeTimeout,
	}

	// Closing the network connection unblocks any pending read or write.
	stop := context.AfterFunc(ctx, func() {
		_ = conn.NetConn().Close()
	})
	defer stop()

	result, err := s.run(ctx, input, language)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		slog.Debug("wolfram query failed",
			slog.String("error", err.Error()),
			slog.Int("frames", s.frames),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return nil, err
	}

	slog.Debug("wolfram query completed",
		slog.String("type", result.Type().String()),
		slog.Int("pods", len(result.Pods)),
		slog.Int("frames", s.frames),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()),
	)
	return result, nil
}

// stream is the state of one query connection.
type stream struct {
	conn         *websocket.Conn
	chunkSize    int
	closeTimeout time.Duration

	closing bool
	frames  int
	msg     bytes.Buffer
}

func (s *stream) run(ctx context.Context, input, language string) (*QueryResult, error) {
	payload, err := encodeInit(input, language)
	if err != nil {
		return nil, fmt.Errorf("encoding query: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		return nil, &TransportError{Op: "write", Err: err}
	}

	b := newResultBuilder()
	for !s.closing {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if err := s.readMessage(); err != nil {
			if isNormalClose(err) {
				// The peer ended the stream without a terminal frame.
				break
			}
			return nil, &TransportError{Op: "read", Err: err}
		}
		s.frames++

		f, err := parseFrame(s.msg.Bytes())
		if err != nil {
			return nil, err
		}

		terminal, err := b.apply(f)
		if err != nil {
			return nil, err
		}
		if terminal {
			if err := s.close(ctx); err != nil {
				return nil, err
			}
		}
	}

	return b.result(), nil
}

// readMessage reads the next complete data message into s.msg.
func (s *stream) readMessage() error {
	s.msg.Reset()
	_, r, err := s.conn.NextReader()
	if err != nil {
		return err
	}
	return readChunks(r, &s.msg, s.chunkSize)
}

// close performs the normal-closure handshake: send a close frame, then
// discard anything still in flight until the peer's close frame arrives or
// the close timeout expires.
func (s *stream) close(ctx context.Context) error {
	s.closing = true
	deadline := time.Now().Add(s.closeTimeout)

	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	if err := s.conn.WriteControl(websocket.CloseMessage, msg, deadline); err != nil {
		return &TransportError{Op: "close", Err: err}
	}

	if err := s.conn.SetReadDeadline(deadline); err != nil {
		return &TransportError{Op: "close", Err: err}
	}
	for {
		_, _, err := s.conn.NextReader()
		if err == nil {
			continue
		}
		var closeErr *websocket.CloseError
		if errors.As(err, &closeErr) {
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		slog.Debug("wolfram stream closed without acknowledgement", slog.String("error", err.Error()))
		return nil
	}
}

func isNormalClose(err error) bool {
	return websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway)
}
