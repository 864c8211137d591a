package vm

import (
	"strings"
	"testing"
)

func TestDisassemble_MainStream(t *testing.T) {
	program := compileSource(t, `
let x = 2;
write x + 40;
`)
	listing := Disassemble(program)

	for _, want := range []string{
		"== main ==",
		"PUSH_NUM     2\n",
		`STORE        "x"`,
		`LOAD         "x"`,
		"PUSH_NUM     40\n",
		"ADD",
		"WRITE",
		"HALT",
	} {
		if !strings.Contains(listing, want) {
			t.Errorf("listing missing %q:\n%s", want, listing)
		}
	}
}

func TestDisassemble_FunctionSections(t *testing.T) {
	program := compileSource(t, `
def add(a, b) { a + b; }
write add(1, 2);
`)
	listing := Disassemble(program)

	if !strings.Contains(listing, "== fn add(a, b) ==") {
		t.Errorf("listing missing function header:\n%s", listing)
	}
	if !strings.Contains(listing, `CALL_NAMED   "add" argc=2`) {
		t.Errorf("listing missing call instruction:\n%s", listing)
	}
	if !strings.Contains(listing, "RET") {
		t.Errorf("listing missing RET:\n%s", listing)
	}
	// Offsets are rendered as 4-digit columns.
	if !strings.Contains(listing, "0000 ") {
		t.Errorf("listing missing offset column:\n%s", listing)
	}
}

func TestDisassemble_MalformedTailDoesNotPanic(t *testing.T) {
	p := &Program{Main: []byte{byte(OP_PUSH_NUM), 1, 2}}
	listing := Disassemble(p)
	if !strings.Contains(listing, "bad instruction") {
		t.Errorf("listing = %q, want a bad-instruction marker", listing)
	}
}
