package ipc

import (
	"path/filepath"
	"testing"
	"time"
)

func TestSendReachesHandler(t *testing.T) {
	sock := filepath.Join(t.TempDir(), "iris.sock")
	got := make(chan ControlMessage, 1)

	srv, err := StartServer(sock, func(m ControlMessage) { got <- m })
	if err != nil {
		t.Fatal(err)
	}
	defer srv.Close()

	if err := Send(sock, ControlMessage{Cmd: "ask", Text: "what time is it"}); err != nil {
		t.Fatal(err)
	}

	select {
	case m := <-got:
		if m.Cmd != "ask" || m.Text != "what time is it" {
			t.Errorf("got %+v", m)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("handler never called")
	}
}

func TestSendWithoutServer(t *testing.T) {
	sock := filepath.Join(t.TempDir(), "nobody.sock")
	if err := Send(sock, ControlMessage{Cmd: "wake"}); err == nil {
		t.Error("dial to missing socket should fail")
	}
}
