package tuitest

import (
	"bytes"
	"testing"
)

func TestParseFramesSplitsOnClear(t *testing.T) {
	raw := []byte("\x1b[2J\x1b[HPage 1 / 10   \r\n\x1b[2J\x1b[H\x1b[1mPages 2-3 / 10\x1b[0m\r\n\r\n")
	rec := &Recording{Raw: raw, Frames: parseFrames(raw)}
	if len(rec.Frames) != 2 {
		t.Fatalf("frame count mismatch: got %d want 2", len(rec.Frames))
	}
	final, ok := rec.FinalFrame()
	if !ok || final.Plain != "Pages 2-3 / 10" {
		t.Fatalf("final frame mismatch: got %q", final.Plain)
	}
	frame, ok := rec.LastFrameContaining("Page 1")
	if !ok || frame.Index != 0 {
		t.Fatalf("search mismatch: got %+v (%v)", frame, ok)
	}
	if _, ok := rec.LastFrameContaining("Pages 9"); ok {
		t.Fatal("unexpected match")
	}
}

func TestMouseEventEncoding(t *testing.T) {
	got := MouseEvent(MouseLeft, 0, 0)
	want := []byte{0x1b, '[', 'M', 32, 33, 33}
	if !bytes.Equal(got, want) {
		t.Fatalf("encoding mismatch: got %v want %v", got, want)
	}
	if got := MouseEvent(MouseWheelDown, 10, 5); got[3] != 97 || got[4] != 43 || got[5] != 38 {
		t.Fatalf("wheel encoding mismatch: got %v", got)
	}
}

func TestResponderAnswersCursorQuery(t *testing.T) {
	var out bytes.Buffer
	responder := newTerminalResponder(&out)
	responder.Process([]byte("noise\x1b[6"))
	responder.Process([]byte("nmore"))
	if out.String() != "\x1b[1;1R" {
		t.Fatalf("response mismatch: got %q", out.String())
	}
}
