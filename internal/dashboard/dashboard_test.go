package dashboard

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/goccy/go-json"

	"github.com/mschirtzinger/shellbench/internal/benchmark"
	"github.com/mschirtzinger/shellbench/internal/gaps"
	"github.com/mschirtzinger/shellbench/internal/sentinel"
)

func startServer(t *testing.T) *Server {
	t.Helper()

	server := NewServer(&Config{Port: 0, Host: "127.0.0.1"})
	if err := server.Start(); err != nil {
		t.Fatalf("Failed to start server: %v", err)
	}
	t.Cleanup(func() { _ = server.Stop() })

	// Give server time to start
	time.Sleep(100 * time.Millisecond)
	return server
}

// connect dials the WebSocket endpoint and consumes the hello message.
func connect(ctx context.Context, t *testing.T, server *Server) *websocket.Conn {
	t.Helper()

	conn, _, err := websocket.Dial(ctx, "ws://"+server.GetAddr()+"/ws", nil)
	if err != nil {
		t.Fatalf("Failed to connect WebSocket: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close(websocket.StatusNormalClosure, "") })

	hello := readMessage(ctx, t, conn)
	if hello.Type != MessageTypeHello {
		t.Fatalf("Expected %s message first, got %s", MessageTypeHello, hello.Type)
	}
	return conn
}

func readMessage(ctx context.Context, t *testing.T, conn *websocket.Conn) Message {
	t.Helper()

	_, data, err := conn.Read(ctx)
	if err != nil {
		t.Fatalf("Failed to read message: %v", err)
	}
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("Failed to unmarshal message: %v", err)
	}
	return msg
}

func get(t *testing.T, url string) (int, []byte) {
	t.Helper()

	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s failed: %v", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read body: %v", err)
	}
	return resp.StatusCode, body
}

func TestServerStartStop(t *testing.T) {
	server := NewServer(&Config{Port: 0, Host: "127.0.0.1"})

	if err := server.Start(); err != nil {
		t.Fatalf("Failed to start server: %v", err)
	}
	if server.GetAddr() == "" {
		t.Error("Server address should not be empty")
	}
	if err := server.Stop(); err != nil {
		t.Fatalf("Failed to stop server: %v", err)
	}
}

func TestHealth(t *testing.T) {
	server := startServer(t)

	status, body := get(t, "http://"+server.GetAddr()+"/health")
	if status != http.StatusOK {
		t.Fatalf("Expected 200, got %d", status)
	}

	var health struct {
		Status  string `json:"status"`
		Clients int    `json:"clients"`
	}
	if err := json.Unmarshal(body, &health); err != nil {
		t.Fatalf("Failed to decode health: %v", err)
	}
	if health.Status != "ok" || health.Clients != 0 {
		t.Errorf("Unexpected health response: %+v", health)
	}
}

func TestMultipleClients(t *testing.T) {
	server := startServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	const numClients = 3
	for i := 0; i < numClients; i++ {
		connect(ctx, t, server)
	}

	if count := server.ClientCount(); count != numClients {
		t.Errorf("Expected %d clients, got %d", numClients, count)
	}
}

func TestMessageBroadcast(t *testing.T) {
	server := startServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn := connect(ctx, t, server)

	sent := benchmark.Progress{Round: 3, Rounds: 10}
	sent.Shellsort.Comparisons = 42
	if err := server.BroadcastData(MessageTypeRound, sent); err != nil {
		t.Fatalf("BroadcastData failed: %v", err)
	}

	msg := readMessage(ctx, t, conn)
	if msg.Type != MessageTypeRound {
		t.Errorf("Expected message type %s, got %s", MessageTypeRound, msg.Type)
	}

	var got benchmark.Progress
	if err := json.Unmarshal(msg.Data, &got); err != nil {
		t.Fatalf("Failed to unmarshal round data: %v", err)
	}
	if got.Round != 3 || got.Shellsort.Comparisons != 42 {
		t.Errorf("Unexpected round data: %+v", got)
	}
}

func TestSequences(t *testing.T) {
	server := startServer(t)

	status, body := get(t, "http://"+server.GetAddr()+"/api/sequences?length=100")
	if status != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", status, body)
	}

	var seqs []SequenceData
	if err := json.Unmarshal(body, &seqs); err != nil {
		t.Fatalf("Failed to decode sequences: %v", err)
	}
	if len(seqs) != len(gaps.Catalog()) {
		t.Fatalf("Expected %d sequences, got %d", len(gaps.Catalog()), len(seqs))
	}
	for _, s := range seqs {
		if s.Name == "" || s.Description == "" {
			t.Errorf("Incomplete entry: %+v", s)
		}
		if len(s.Gaps) == 0 || s.Gaps[0] != 1 {
			t.Errorf("%s: expected gaps starting at 1, got %v", s.Name, s.Gaps)
		}
	}

	status, _ = get(t, "http://"+server.GetAddr()+"/api/sequences?length=-1")
	if status != http.StatusBadRequest {
		t.Errorf("Expected 400 for a negative length, got %d", status)
	}
}

func TestRunBroadcastsRoundsAndReport(t *testing.T) {
	server := startServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	conn := connect(ctx, t, server)

	const rounds = 5
	status, body := get(t, "http://"+server.GetAddr()+"/api/run?length=200&rounds=5&seed=7&gaps=knuth_1973&quicksort=true")
	if status != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", status, body)
	}

	report, err := benchmark.ReadReport(strings.NewReader(string(body)))
	if err != nil {
		t.Fatalf("Failed to decode report: %v", err)
	}
	if report.Params.Length != 200 || report.Params.Rounds != rounds || report.Params.Seed != 7 {
		t.Errorf("Unexpected params: %+v", report.Params)
	}
	if report.Params.Sequence != "knuth_1973" {
		t.Errorf("Expected knuth_1973, got %s", report.Params.Sequence)
	}
	if report.Quicksort == nil {
		t.Error("Expected a quicksort report")
	}

	for i := 1; i <= rounds; i++ {
		msg := readMessage(ctx, t, conn)
		if msg.Type != MessageTypeRound {
			t.Fatalf("Message %d: expected %s, got %s", i, MessageTypeRound, msg.Type)
		}
		var p benchmark.Progress
		if err := json.Unmarshal(msg.Data, &p); err != nil {
			t.Fatalf("Failed to unmarshal round: %v", err)
		}
		if p.Round != i || p.Rounds != rounds {
			t.Errorf("Expected round %d/%d, got %d/%d", i, rounds, p.Round, p.Rounds)
		}
	}

	msg := readMessage(ctx, t, conn)
	if msg.Type != MessageTypeReport {
		t.Fatalf("Expected %s, got %s", MessageTypeReport, msg.Type)
	}
	var broadcast benchmark.Report
	if err := json.Unmarshal(msg.Data, &broadcast); err != nil {
		t.Fatalf("Failed to unmarshal report: %v", err)
	}
	if broadcast.Fingerprint != report.Fingerprint {
		t.Errorf("Broadcast fingerprint %s differs from response %s", broadcast.Fingerprint, report.Fingerprint)
	}
}

func TestRunIsReproducible(t *testing.T) {
	server := startServer(t)
	url := "http://" + server.GetAddr() + "/api/run?length=100&rounds=3&seed=11"

	_, first := get(t, url)
	_, second := get(t, url)

	a, err := benchmark.ReadReport(strings.NewReader(string(first)))
	if err != nil {
		t.Fatalf("Failed to decode report: %v", err)
	}
	b, err := benchmark.ReadReport(strings.NewReader(string(second)))
	if err != nil {
		t.Fatalf("Failed to decode report: %v", err)
	}
	if a.Fingerprint != b.Fingerprint {
		t.Errorf("Same parameters gave fingerprints %s and %s", a.Fingerprint, b.Fingerprint)
	}
	if a.Params.Sequence != gaps.Default().String() {
		t.Errorf("Expected the default sequence, got %s", a.Params.Sequence)
	}
}

func TestRunInvalidParameters(t *testing.T) {
	server := startServer(t)

	tests := []struct {
		name  string
		query string
		want  string
	}{
		{"bad gaps", "gaps=fibonacci", sentinel.ErrInvalidGapSequence.Error()},
		{"unsorted custom gaps", "gaps=1,10,4", sentinel.ErrUnsortedGaps.Error()},
		{"probability", "probability=1.5", sentinel.ErrInvalidProbability.Error()},
		{"negative length", "length=-3", sentinel.ErrInvalidLength.Error()},
		{"negative rounds", "rounds=-1", sentinel.ErrInvalidRounds.Error()},
		{"zero rounds", "rounds=0", sentinel.ErrEmptyResults.Error()},
		{"not a number", "length=ten", "length"},
		{"bad bool", "quicksort=maybe", "quicksort"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := get(t, "http://"+server.GetAddr()+"/api/run?"+tt.query)
			if status != http.StatusBadRequest {
				t.Fatalf("Expected 400, got %d: %s", status, body)
			}
			var e ErrorData
			if err := json.Unmarshal(body, &e); err != nil {
				t.Fatalf("Failed to decode error: %v", err)
			}
			if !strings.Contains(e.Error, tt.want) {
				t.Errorf("Expected error containing %q, got %q", tt.want, e.Error)
			}
		})
	}
}

func TestRootAndNotFound(t *testing.T) {
	server := startServer(t)

	status, body := get(t, "http://"+server.GetAddr()+"/")
	if status != http.StatusOK || !strings.Contains(string(body), "/api/run") {
		t.Errorf("Unexpected root response %d: %s", status, body)
	}

	status, _ = get(t, "http://"+server.GetAddr()+"/nope")
	if status != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", status)
	}
}
