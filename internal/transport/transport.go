// Package transport streams a finished job's flow report back to a
// coordinator over one long-lived, multiplexed TCP connection, one smux
// stream per finished job (SPEC_FULL.md §5, "Result Transport").
package transport

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"

	"github.com/xtaci/smux"
	"go.uber.org/zap"

	"mcfsolver/internal/linkgraph/graph"
)

// Report is the wire shape of one solved job's result: per-edge flow and
// residual demand, enough for a coordinator to persist or re-dispatch
// unsatisfied demand without needing the whole LinkGraphJob.
type Report struct {
	JobID       string       `json:"job_id"`
	Size        int          `json:"size"`
	EdgeResults []EdgeResult `json:"edges"`
}

// EdgeResult is one (from, to) edge's final flow bookkeeping.
type EdgeResult struct {
	From              graph.NodeID `json:"from"`
	To                graph.NodeID `json:"to"`
	Flow              uint         `json:"flow"`
	UnsatisfiedDemand uint         `json:"unsatisfied_demand"`
}

// BuildReport walks every node/edge pair in a solved job and collects its
// final flow state.
func BuildReport(jobID string, job *graph.LinkGraphJob) Report {
	report := Report{JobID: jobID, Size: job.Size()}
	for from := 0; from < job.Size(); from++ {
		for to, edge := range job.Node(graph.NodeID(from)).Edges() {
			report.EdgeResults = append(report.EdgeResults, EdgeResult{
				From:              graph.NodeID(from),
				To:                to,
				Flow:              edge.Flow(),
				UnsatisfiedDemand: edge.UnsatisfiedDemand(),
			})
		}
	}
	return report
}

// Server accepts one multiplexed connection per worker and hands each
// inbound stream's decoded Report to onReport.
type Server struct {
	listenAddr string
	logger     *zap.Logger
}

func NewServer(listenAddr string, logger *zap.Logger) *Server {
	return &Server{listenAddr: listenAddr, logger: logger}
}

// Serve starts listening and returns at once; a background goroutine
// accepts connections until the caller closes the returned net.Listener
// (mirrors the teacher's RelayRepository.handleRequestConnection accept
// loop).
func (s *Server) Serve(onReport func(Report)) (net.Listener, error) {
	listener, err := net.Listen("tcp", s.listenAddr)
	if err != nil {
		return nil, fmt.Errorf("transport: listen %s: %w", s.listenAddr, err)
	}

	go func() {
		for {
			conn, err := listener.Accept()
			if err != nil {
				return // listener closed by caller
			}
			go s.handleConn(conn, onReport)
		}
	}()
	return listener, nil
}

func (s *Server) handleConn(conn net.Conn, onReport func(Report)) {
	session, err := smux.Server(conn, smux.DefaultConfig())
	if err != nil {
		s.logError("smux server handshake", err)
		conn.Close()
		return
	}
	defer session.Close()

	for {
		stream, err := session.AcceptStream()
		if err != nil {
			if session.IsClosed() {
				return
			}
			s.logError("accept stream", err)
			continue
		}
		go s.handleStream(stream, onReport)
	}
}

func (s *Server) handleStream(stream *smux.Stream, onReport func(Report)) {
	defer stream.Close()

	var report Report
	if err := json.NewDecoder(bufio.NewReader(stream)).Decode(&report); err != nil {
		s.logError("decode report", err)
		return
	}
	onReport(report)
}

func (s *Server) logError(op string, err error) {
	if s.logger != nil {
		s.logger.Warn("transport error", zap.String("op", op), zap.Error(err))
	}
}

// Client holds one long-lived multiplexed connection to a Server and opens
// one stream per finished job to send its Report.
type Client struct {
	session *smux.Session
}

// Dial opens the underlying TCP connection and the smux session on top of
// it. One Client is meant to live for the worker process's lifetime.
func Dial(addr string) (*Client, error) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("transport: dial %s: %w", addr, err)
	}
	session, err := smux.Client(conn, smux.DefaultConfig())
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("transport: smux client handshake: %w", err)
	}
	return &Client{session: session}, nil
}

// Send opens a fresh stream and writes report as JSON, closing the stream
// once the coordinator has the full payload.
func (c *Client) Send(report Report) error {
	stream, err := c.session.OpenStream()
	if err != nil {
		return fmt.Errorf("transport: open stream: %w", err)
	}
	defer stream.Close()

	if err := json.NewEncoder(stream).Encode(report); err != nil {
		return fmt.Errorf("transport: encode report: %w", err)
	}
	return nil
}

func (c *Client) Close() error { return c.session.Close() }
