package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"snake-arcade/game"
	"snake-arcade/game/types"

	"github.com/gorilla/websocket"
)

// view mirrors the wire form of View with the enums left as text.
type view struct {
	ID        string       `json:"id"`
	Size      int          `json:"size"`
	Phase     string       `json:"phase"`
	Direction string       `json:"direction"`
	Body      []types.Cell `json:"body"`
	Food      []types.Cell `json:"food"`
	Ticks     int          `json:"ticks"`
	Deltas    []struct {
		Kind string `json:"kind"`
	} `json:"deltas"`
	Result *struct {
		Outcome string `json:"outcome"`
	} `json:"result"`
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(New(NewStore()).Routes())
	t.Cleanup(ts.Close)
	return ts
}

func post(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return v
}

func createGame(t *testing.T, ts *httptest.Server) view {
	t.Helper()
	resp := post(t, ts.URL+"/games", `{"size":6,"food":1,"seed":1}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d, want %d", resp.StatusCode, http.StatusCreated)
	}
	return decode[view](t, resp)
}

func TestCreateAndGet(t *testing.T) {
	ts := newTestServer(t)
	v := createGame(t, ts)

	if v.ID == "" {
		t.Fatal("expected a session id")
	}
	if v.Size != 6 || v.Phase != "playing" || v.Direction != "right" {
		t.Errorf("unexpected view %+v", v)
	}
	if len(v.Body) != 2 || len(v.Food) != 1 {
		t.Errorf("body=%v food=%v", v.Body, v.Food)
	}

	resp, err := http.Get(ts.URL + "/games/" + v.ID)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get status = %d", resp.StatusCode)
	}
	got := decode[view](t, resp)
	if got.ID != v.ID || len(got.Body) != 2 {
		t.Errorf("get returned %+v", got)
	}
}

func TestCreateRejectsBadOptions(t *testing.T) {
	ts := newTestServer(t)
	for _, body := range []string{
		`{"size":1}`,
		`{"size":100}`,
		`{"size":4,"food":15}`,
		`{"size":`,
	} {
		resp := post(t, ts.URL+"/games", body)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", body, resp.StatusCode)
		}
	}
}

func TestUnknownSession(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/games/nope")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
	if resp := post(t, ts.URL+"/games/nope/tick", ""); resp.StatusCode != http.StatusNotFound {
		t.Errorf("tick status = %d, want 404", resp.StatusCode)
	}
}

func TestSetDirection(t *testing.T) {
	ts := newTestServer(t)
	v := createGame(t, ts)
	url := ts.URL + "/games/" + v.ID + "/direction"

	type answer struct {
		Accepted bool   `json:"accepted"`
		Current  string `json:"current"`
	}

	// Left points back into the neck.
	got := decode[answer](t, post(t, url, `{"direction":"left"}`))
	if got.Accepted || got.Current != "right" {
		t.Errorf("left: %+v", got)
	}

	for _, body := range []string{`{"direction":"sideways"}`, `not json`, `{}`, `{"direction":null}`} {
		if resp := post(t, url, body); resp.StatusCode != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", body, resp.StatusCode)
		}
	}
	// None of the rejected bodies may have steered the snake.
	resp, err := http.Get(ts.URL + "/games/" + v.ID)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if cur := decode[view](t, resp); cur.Direction != "right" {
		t.Errorf("direction = %q after bad requests, want right", cur.Direction)
	}

	got = decode[answer](t, post(t, url, `{"direction":"up"}`))
	if !got.Accepted || got.Current != "up" {
		t.Errorf("up: %+v", got)
	}
}

func TestTickAndReset(t *testing.T) {
	ts := newTestServer(t)
	v := createGame(t, ts)

	tick := decode[view](t, post(t, ts.URL+"/games/"+v.ID+"/tick", ""))
	if tick.Ticks != 1 || tick.Result == nil {
		t.Fatalf("tick view %+v", tick)
	}
	if tick.Result.Outcome == "terminated" {
		t.Fatalf("first tick terminated")
	}
	if tick.Body[0] != (types.Cell{X: 2, Y: 1}) {
		t.Errorf("head = %v, want (2,1)", tick.Body[0])
	}
	if len(tick.Deltas) == 0 || tick.Deltas[0].Kind != game.SegmentAdded.String() {
		t.Errorf("deltas = %+v", tick.Deltas)
	}

	reset := decode[view](t, post(t, ts.URL+"/games/"+v.ID+"/reset", ""))
	if reset.Ticks != 0 || reset.Phase != "playing" {
		t.Errorf("reset view %+v", reset)
	}
	if reset.Body[0] != v.Body[0] {
		t.Errorf("reset head = %v, want %v", reset.Body[0], v.Body[0])
	}
}

func TestStreamDeliversTicks(t *testing.T) {
	ts := newTestServer(t)
	v := createGame(t, ts)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/games/" + v.ID + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var first view
	if err := conn.ReadJSON(&first); err != nil {
		t.Fatalf("read first view: %v", err)
	}
	if first.ID != v.ID || first.Ticks != 0 {
		t.Errorf("first view %+v", first)
	}

	// The subscription is registered before the first view is written.
	post(t, ts.URL+"/games/"+v.ID+"/tick", "")

	var next view
	if err := conn.ReadJSON(&next); err != nil {
		t.Fatalf("read tick view: %v", err)
	}
	if next.Ticks != 1 || len(next.Deltas) == 0 {
		t.Errorf("tick view %+v", next)
	}
}

func TestStoreLifecycle(t *testing.T) {
	st := NewStore()
	a := st.Create(game.Options{Size: 5, FoodCount: 1, Seed: 1})
	b := st.Create(game.Options{Size: 5, FoodCount: 1, Seed: 2})
	if a.ID == b.ID {
		t.Fatal("ids must be unique")
	}
	if st.Len() != 2 {
		t.Fatalf("Len = %d, want 2", st.Len())
	}

	got, err := st.Get(a.ID)
	if err != nil || got != a {
		t.Fatalf("Get(%s) = %v, %v", a.ID, got, err)
	}
	a.With(func(g *game.Game) {
		if g.Phase() != game.Playing {
			t.Errorf("phase = %v, want playing", g.Phase())
		}
	})

	if err := st.Delete(a.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := st.Delete("missing"); err != ErrSessionNotFound {
		t.Errorf("Delete(missing) = %v, want ErrSessionNotFound", err)
	}
	if _, err := st.Get(a.ID); err != ErrSessionNotFound {
		t.Errorf("Get after delete: %v", err)
	}
	if st.Len() != 1 {
		t.Errorf("Len = %d, want 1", st.Len())
	}
}

func TestBroadcaster(t *testing.T) {
	b := NewBroadcaster()
	fast := b.Subscribe()
	slow := b.Subscribe()
	if b.Len() != 2 {
		t.Fatalf("Len = %d, want 2", b.Len())
	}

	for i := 0; i < cap(slow)+4; i++ {
		b.Publish([]byte{byte(i)})
		if i < cap(fast) {
			<-fast
		}
	}
	if len(slow) != cap(slow) {
		t.Errorf("slow subscriber holds %d, want %d", len(slow), cap(slow))
	}

	b.Unsubscribe(slow)
	b.Unsubscribe(slow)
	n := 0
	for range slow {
		n++
	}
	if n != cap(slow) {
		t.Errorf("drained %d after close, want %d", n, cap(slow))
	}
	if b.Len() != 1 {
		t.Errorf("Len = %d, want 1", b.Len())
	}
}

func del(t *testing.T, url string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodDelete, url, nil)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("DELETE %s: %v", url, err)
	}
	resp.Body.Close()
	return resp
}

func TestDeleteGame(t *testing.T) {
	ts := newTestServer(t)
	v := createGame(t, ts)
	gameURL := ts.URL + "/games/" + v.ID

	wsURL := "ws" + strings.TrimPrefix(gameURL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var first view
	if err := conn.ReadJSON(&first); err != nil {
		t.Fatalf("read first view: %v", err)
	}

	if resp := del(t, gameURL); resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete status = %d, want 204", resp.StatusCode)
	}

	// The stream ends with the session.
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Error("stream still open after delete")
	}

	resp, err := http.Get(gameURL)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("get after delete = %d, want 404", resp.StatusCode)
	}
	if resp := del(t, gameURL); resp.StatusCode != http.StatusNotFound {
		t.Errorf("second delete = %d, want 404", resp.StatusCode)
	}
}

func TestBroadcasterClose(t *testing.T) {
	b := NewBroadcaster()
	ch := b.Subscribe()
	b.Publish([]byte("a"))
	b.Close()

	if msg, ok := <-ch; !ok || string(msg) != "a" {
		t.Errorf("first read = %q, %v; want the buffered view", msg, ok)
	}
	if _, ok := <-ch; ok {
		t.Error("channel open after Close")
	}
	if b.Len() != 0 {
		t.Errorf("Len = %d after Close, want 0", b.Len())
	}

	late := b.Subscribe()
	if _, ok := <-late; ok {
		t.Error("subscribe after Close returned an open channel")
	}
	b.Publish([]byte("b"))
	b.Unsubscribe(late)
}
