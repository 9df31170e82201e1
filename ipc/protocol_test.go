package ipc

import (
	"bytes"
	"encoding/binary"
	"strings"
	"testing"

	"github.com/nstehr/gridwars/gridwars-core/sim"
)

func TestEnvelopeFraming(t *testing.T) {
	env, err := NewEnvelope(TypeCommand, sim.Move(3, 4, 5))
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := WriteEnvelope(&buf, env); err != nil {
		t.Fatalf("WriteEnvelope: %v", err)
	}

	prefix := binary.LittleEndian.Uint32(buf.Bytes()[:4])
	if int(prefix) != buf.Len()-4 {
		t.Errorf("length prefix = %d, payload = %d bytes", prefix, buf.Len()-4)
	}

	got, err := ReadEnvelope(&buf)
	if err != nil {
		t.Fatalf("ReadEnvelope: %v", err)
	}
	if got.Type != TypeCommand {
		t.Errorf("Type = %q, want %q", got.Type, TypeCommand)
	}
	var cmd CommandMessage
	if err := got.Decode(&cmd); err != nil {
		t.Fatal(err)
	}
	if cmd != sim.Move(3, 4, 5) {
		t.Errorf("decoded command = %+v", cmd)
	}
}

func TestReadEnvelopeRejectsBadFrames(t *testing.T) {
	frame := func(n uint32, payload string) *bytes.Buffer {
		var b bytes.Buffer
		binary.Write(&b, binary.LittleEndian, n)
		b.WriteString(payload)
		return &b
	}
	tests := []struct {
		name string
		in   *bytes.Buffer
		want string
	}{
		{"zero length", frame(0, ""), "invalid message length"},
		{"oversize", frame(MaxFrame+1, ""), "invalid message length"},
		{"truncated", frame(10, `{"ty`), "read payload"},
		{"not json", frame(3, "abc"), "unmarshal envelope"},
		{"short prefix", bytes.NewBufferString("ab"), "read length"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ReadEnvelope(tc.in)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Errorf("error = %v, want it to mention %q", err, tc.want)
			}
		})
	}
}

func TestDecodeEmptyPayload(t *testing.T) {
	msg := SelectMessage{Unit: 7}
	if err := (Envelope{Type: TypeSelect}).Decode(&msg); err != nil {
		t.Fatal(err)
	}
	if msg.Unit != 7 {
		t.Errorf("empty payload overwrote value: %+v", msg)
	}
	if err := (Envelope{Type: TypeSelect, Data: []byte(`{"unit":"x"}`)}).Decode(&msg); err == nil {
		t.Error("Decode should fail on a mistyped field")
	}
}

func TestNewResultMessage(t *testing.T) {
	res := sim.Result{Events: []sim.Event{{Kind: sim.EventUnitWaited, Unit: 1}}}
	ok := NewResultMessage(res, nil)
	if !ok.OK || len(ok.Events) != 1 || ok.Error != "" {
		t.Errorf("success result = %+v", ok)
	}

	err := &sim.CommandError{Op: sim.CmdMove, Kind: sim.ErrIllegalAction, Reason: "already moved"}
	bad := NewResultMessage(sim.Result{}, err)
	if bad.OK || bad.ErrorKind != "illegal_action" || bad.Error == "" {
		t.Errorf("failure result = %+v", bad)
	}
}
