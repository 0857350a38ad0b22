package live

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/vango-dev/notes/pkg/dom"
	"github.com/vango-dev/notes/pkg/protocol"
	"github.com/vango-dev/notes/pkg/reactive"
	"github.com/vango-dev/notes/pkg/render"
	"github.com/vango-dev/notes/pkg/scheduler"
	"github.com/vango-dev/notes/pkg/telemetry"
	"github.com/vango-dev/notes/pkg/vdom"
)

type fixture struct {
	state *reactive.Store
	sched *scheduler.Scheduler
	hub   *Hub
	reg   *prometheus.Registry
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	rt := reactive.NewRuntime()
	state := rt.Wrap(map[string]any{
		"title": "Notes",
		"notes": []any{"Groceries"},
	})
	doc := dom.NewDocument()
	root := doc.CreateRoot("app")
	view := func() *vdom.Node {
		return vdom.Div(
			vdom.H1(state.String("title")),
			vdom.Ul(vdom.Map(state.List("notes").Values(), func(v any, _ int) *vdom.Node {
				return vdom.Li(v)
			})),
		)
	}
	reg := prometheus.NewRegistry()
	m := telemetry.New(telemetry.WithRegistry(reg), telemetry.WithNamespace("test"))
	sched := scheduler.New(root, view, scheduler.WithRuntime(rt), scheduler.WithMetrics(m))

	opts = append([]Option{
		WithMetrics(m),
		WithGatherer(reg),
		WithPage(render.PageData{Title: "Notes"}),
	}, opts...)
	hub := New(sched, opts...)
	sched.Mount()
	return &fixture{state: state, sched: sched, hub: hub, reg: reg}
}

// serve runs the scheduler loop and an HTTP server for the hub.
func (f *fixture) serve(t *testing.T) *httptest.Server {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = f.sched.Run(ctx)
	}()
	srv := httptest.NewServer(f.hub)
	t.Cleanup(func() {
		srv.Close()
		cancel()
		<-done
	})
	return srv
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	resp.Body.Close()
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) *protocol.Frame {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	kind, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage: %v", err)
	}
	if kind != websocket.BinaryMessage {
		t.Fatalf("message type = %d, want binary", kind)
	}
	f, err := protocol.DecodeFrame(data)
	if err != nil {
		t.Fatalf("DecodeFrame: %v", err)
	}
	return f
}

func eventually(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal(msg)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func metricValue(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	var sum float64
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
		for _, m := range f.GetMetric() {
			sum += m.GetCounter().GetValue() + m.GetGauge().GetValue()
		}
	}
	return sum
}

func TestPageServesCurrentTree(t *testing.T) {
	f := newFixture(t)
	srv := f.serve(t)

	resp, err := http.Get(srv.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	for _, want := range []string{
		"<title>Notes</title>",
		`<div id="app"><div><h1>Notes</h1><ul><li>Groceries</li></ul></div></div>`,
		`<script src="/live.js?mount=app" defer></script>`,
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("page missing %q\n%s", want, body)
		}
	}
}

func TestViewerMirrorsPasses(t *testing.T) {
	f := newFixture(t)
	srv := f.serve(t)
	conn := dial(t, srv)

	snap := readFrame(t, conn)
	if snap.Type != protocol.FrameSnapshot || snap.Flags != 0 {
		t.Fatalf("first frame = %s flags %d, want unflagged snapshot", snap.Type, snap.Flags)
	}
	seq, tree, err := protocol.DecodeSnapshot(snap.Payload)
	if err != nil {
		t.Fatal(err)
	}
	mirrorDoc := dom.NewDocument()
	mirror := mirrorDoc.CreateRoot("app")
	mirror.AppendChild(tree.Build(mirrorDoc))

	f.sched.Dispatch(func() {
		f.state.Set("title", "Renamed")
		f.state.List("notes").Append("Taxes")
	})

	for _, want := range []string{
		"<div><h1>Renamed</h1><ul><li>Groceries</li></ul></div>",
		"<div><h1>Renamed</h1><ul><li>Groceries</li><li>Taxes</li></ul></div>",
	} {
		frame := readFrame(t, conn)
		if frame.Type != protocol.FramePatch {
			t.Fatalf("frame = %s, want Patch", frame.Type)
		}
		batch, err := protocol.DecodeBatch(frame.Payload)
		if err != nil {
			t.Fatal(err)
		}
		if batch.Seq != seq+1 {
			t.Errorf("seq = %d, want %d", batch.Seq, seq+1)
		}
		seq = batch.Seq
		for _, op := range batch.Ops {
			if err := protocol.Apply(mirror, op); err != nil {
				t.Fatalf("Apply: %v", err)
			}
		}
		if got := mirror.InnerHTML(); got != want {
			t.Errorf("mirror = %q, want %q", got, want)
		}
	}
}

func TestViewerAccounting(t *testing.T) {
	f := newFixture(t)
	srv := f.serve(t)
	conn := dial(t, srv)
	readFrame(t, conn)

	eventually(t, func() bool { return f.hub.Viewers() == 1 }, "viewer never registered")
	if got := metricValue(t, f.reg, "test_live_viewers"); got != 1 {
		t.Errorf("test_live_viewers = %v, want 1", got)
	}
	eventually(t, func() bool {
		return metricValue(t, f.reg, "test_live_frames_sent_total") >= 1
	}, "snapshot frame not counted")

	conn.Close()
	eventually(t, func() bool { return f.hub.Viewers() == 0 }, "viewer never unregistered")
	if got := metricValue(t, f.reg, "test_live_viewers"); got != 0 {
		t.Errorf("test_live_viewers = %v, want 0", got)
	}
}

func TestRoutesAndMetrics(t *testing.T) {
	f := newFixture(t)
	srv := f.serve(t)

	for _, tc := range []struct {
		path        string
		contentType string
		contains    string
	}{
		{"/healthz", "text/plain", "ok"},
		{"/live.js", "text/javascript", "FRAME_SNAPSHOT"},
		{"/metrics", "text/plain", "test_render_passes_total"},
	} {
		resp, err := http.Get(srv.URL + tc.path)
		if err != nil {
			t.Fatal(err)
		}
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("%s: status = %d", tc.path, resp.StatusCode)
		}
		if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, tc.contentType) {
			t.Errorf("%s: Content-Type = %q, want %s", tc.path, ct, tc.contentType)
		}
		if !strings.Contains(string(body), tc.contains) {
			t.Errorf("%s: body missing %q", tc.path, tc.contains)
		}
	}

	eventually(t, func() bool {
		return metricValue(t, f.reg, "test_http_requests_total") >= 3
	}, "requests not counted")
}

func TestOnUIReturnsAfterPanic(t *testing.T) {
	f := newFixture(t)
	f.serve(t)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	err := f.hub.onUI(ctx, func() { panic("boom") })
	if err != nil {
		t.Fatalf("onUI = %v, want nil", err)
	}
}

func TestPageUnavailableWhenStopped(t *testing.T) {
	f := newFixture(t)
	f.sched.Stop()
	srv := httptest.NewServer(f.hub)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", resp.StatusCode)
	}
}

func TestSlowViewerGetsResyncSnapshot(t *testing.T) {
	f := newFixture(t)
	v := &viewer{id: "slow", send: make(chan []byte, 1), done: make(chan struct{})}
	f.hub.viewers[v] = struct{}{}

	f.state.Set("title", "one")
	f.state.Set("title", "two")
	if !v.resync {
		t.Fatal("viewer not marked for resync after a full buffer")
	}
	<-v.send

	f.state.Set("title", "three")
	frame, err := protocol.DecodeFrame(<-v.send)
	if err != nil {
		t.Fatal(err)
	}
	if frame.Type != protocol.FrameSnapshot || frame.Flags&protocol.FlagResync == 0 {
		t.Fatalf("frame = %s flags %d, want resync snapshot", frame.Type, frame.Flags)
	}
	_, tree, err := protocol.DecodeSnapshot(frame.Payload)
	if err != nil {
		t.Fatal(err)
	}
	doc := dom.NewDocument()
	root := doc.CreateRoot("app")
	root.AppendChild(tree.Build(doc))
	if got := root.TextContent(); got != "threeGroceries" {
		t.Errorf("snapshot text = %q", got)
	}
	if v.resync {
		t.Error("resync flag not cleared")
	}

	v.close()
	f.state.Set("title", "four")
	if _, ok := f.hub.viewers[v]; ok {
		t.Error("closed viewer still registered")
	}
}
