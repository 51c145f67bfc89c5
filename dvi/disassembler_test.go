package dvi

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/mrklie/dvious/dvierr"
)

func TestDisassembleSetImplicit(t *testing.T) {
	for b := 0; b <= 127; b++ {
		ops, err := Disassemble([]byte{byte(b)})
		if err != nil {
			t.Fatalf("Disassemble(%d): %v", b, err)
		}
		if len(ops) != 1 || ops[0].Tag != OpSet || ops[0].C != int32(b) {
			t.Errorf("Disassemble(%d) = %v, want [Set{c=%d}]", b, ops, b)
		}
	}
}

func TestDisassembleFntImplicit(t *testing.T) {
	for b := 172; b <= 234; b++ {
		ops, err := Disassemble([]byte{byte(b)})
		if err != nil {
			t.Fatalf("Disassemble(%d): %v", b, err)
		}
		if len(ops) != 1 || ops[0].Tag != OpFnt || ops[0].FontNum != int32(b) {
			t.Errorf("Disassemble(%d) = %v, want [Fnt{k=%d}]", b, ops, b)
		}
	}
}

func TestDisassembleRightSignExtends(t *testing.T) {
	ops, err := Disassemble([]byte{143, 0xD6})
	if err != nil {
		t.Fatalf("Disassemble: %v", err)
	}
	if len(ops) != 1 || ops[0].Tag != OpRight || ops[0].B != -42 {
		t.Errorf("got %v, want [Right{b=-42}]", ops)
	}
}

func TestDisassembleWSignExtends16(t *testing.T) {
	ops, err := Disassemble([]byte{149, 0xEF, 0x98})
	if err != nil {
		t.Fatalf("Disassemble: %v", err)
	}
	if len(ops) != 1 || ops[0].Tag != OpW || ops[0].B != -4200 {
		t.Errorf("got %v, want [W{b=-4200}]", ops)
	}
}

func TestDisassembleSet3(t *testing.T) {
	ops, err := Disassemble([]byte{0x82, 0xAB, 0xCD, 0xEF})
	if err != nil {
		t.Fatalf("Disassemble: %v", err)
	}
	if len(ops) != 1 || ops[0].Tag != OpSet || ops[0].C != 0xABCDEF {
		t.Errorf("got %v, want [Set{c=0xABCDEF}]", ops)
	}
}

func TestDisassembleSetRule(t *testing.T) {
	ops, err := Disassemble([]byte{0x84, 0x00, 0xAB, 0xCD, 0xEF, 0x00, 0xFE, 0xDC, 0xBA})
	if err != nil {
		t.Fatalf("Disassemble: %v", err)
	}
	if len(ops) != 1 || ops[0].Tag != OpSetRule || ops[0].A != 0xABCDEF || ops[0].B != 0xFEDCBA {
		t.Errorf("got %v, want [SetRule{a=0xABCDEF, b=0xFEDCBA}]", ops)
	}
}

func TestDisassembleXxx(t *testing.T) {
	ops, err := Disassemble([]byte{0xEF, 0x05, 1, 2, 3, 4, 5})
	if err != nil {
		t.Fatalf("Disassemble: %v", err)
	}
	if len(ops) != 1 {
		t.Fatalf("got %d opcodes, want 1", len(ops))
	}
	got := ops[0]
	if got.Tag != OpXxx || got.Count != 5 {
		t.Fatalf("got %v, want Xxx{k=5, x=[1,2,3,4,5]}", got)
	}
	want := []byte{1, 2, 3, 4, 5}
	for i := range want {
		if got.Payload[i] != want[i] {
			t.Fatalf("Payload = %v, want %v", got.Payload, want)
		}
	}
}

func TestDisassembleFntDef(t *testing.T) {
	input := []byte{
		0xF3, 0x42,
		0xDE, 0xAD, 0xBE, 0xEF,
		0xCA, 0xFE, 0xBA, 0xBE,
		0xBA, 0xAA, 0xAA, 0xAD,
		0x02, 0x03,
		1, 2, 3, 4, 5,
	}
	ops, err := Disassemble(input)
	if err != nil {
		t.Fatalf("Disassemble: %v", err)
	}
	if len(ops) != 1 {
		t.Fatalf("got %d opcodes, want 1", len(ops))
	}

	want := Opcode{
		Tag: OpFntDef, FontNum: 0x42,
		Checksum: 0xDEADBEEF, Scaled: 0xCAFEBABE, Design: 0xBAAAAAAD,
		AreaLen: 2, NameLen: 3,
		Name: []byte{1, 2, 3, 4, 5},
	}
	if diff := cmp.Diff(want, ops[0]); diff != "" {
		t.Fatalf("Disassemble mismatch (-want +got):\n%s", diff)
	}
}

func TestDisassemblePostPostAbsorbsPadding(t *testing.T) {
	input := []byte{0xF9, 0xAB, 0xCD, 0xEF, 0xAA, 0x42, 0xDF, 0xDF}
	ops, err := Disassemble(input)
	if err != nil {
		t.Fatalf("Disassemble: %v", err)
	}
	if len(ops) != 1 {
		t.Fatalf("got %d opcodes, want 1", len(ops))
	}
	got := ops[0]
	if got.Tag != OpPostPost || got.Q != nil || got.FormatID != 0x42 {
		t.Fatalf("got %v, want PostPost{q=None, i=0x42}", got)
	}
}

func TestDisassembleConsumesEntireBuffer(t *testing.T) {
	input := []byte{0, 1, 2, 138, 140}
	ops, err := Disassemble(input)
	if err != nil {
		t.Fatalf("Disassemble: %v", err)
	}
	if len(ops) != len(input) {
		t.Fatalf("got %d opcodes, want %d", len(ops), len(input))
	}
}

func TestDisassembleUnknownOpcode(t *testing.T) {
	_, err := Disassemble([]byte{250})
	if err == nil {
		t.Fatal("expected error for reserved opcode byte 250")
	}
	var de *dvierr.Error
	if !errors.As(err, &de) || de.Kind != dvierr.UnknownOpcode || de.Opcode != 250 {
		t.Errorf("err = %v, want UnknownOpcode(250)", err)
	}
}

func TestDisassembleBopPostBackReferences(t *testing.T) {
	// Bop (idx 0) at opcode 139, 11 i32 fields (c0..c9, back-pointer), all
	// zero; followed by Post (idx 1) at opcode 248 with its own discarded
	// i32 back-pointer and the five u32 + two u16 postamble fields.
	bop := append([]byte{139}, make([]byte, 44)...)
	post := append([]byte{248}, make([]byte, 4+4+4+4+4+4+2+2)...)
	input := append(bop, post...)

	ops, err := Disassemble(input)
	if err != nil {
		t.Fatalf("Disassemble: %v", err)
	}
	if len(ops) != 2 {
		t.Fatalf("got %d opcodes, want 2", len(ops))
	}
	if ops[0].Tag != OpBop {
		t.Fatalf("ops[0].Tag = %v, want OpBop", ops[0].Tag)
	}
	if ops[1].Tag != OpPost {
		t.Fatalf("ops[1].Tag = %v, want OpPost", ops[1].Tag)
	}
	if ops[1].P == nil || *ops[1].P != 0 {
		t.Fatalf("ops[1].P = %v, want pointer to 0", ops[1].P)
	}
}

func TestDisassemblePostWithNoPriorBop(t *testing.T) {
	post := append([]byte{248}, make([]byte, 4+4+4+4+4+4+2+2)...)
	ops, err := Disassemble(post)
	if err != nil {
		t.Fatalf("Disassemble: %v", err)
	}
	if len(ops) != 1 || ops[0].P != nil {
		t.Fatalf("ops[0].P = %v, want nil", ops[0].P)
	}
}
