// Package vm implements the bytecode compiler, the binary artifact codec
// and the stack virtual machine.
package vm

// Opcode represents a single VM instruction tag. Tags are part of the
// binary artifact format and must never be renumbered.
type Opcode byte

const (
	// Constants
	OP_PUSH_NUM Opcode = iota // Push f64 constant (8-byte LE payload)
	OP_PUSH_STR               // Push string constant (u32 length + bytes)

	// Arithmetic
	OP_ADD // +  (numbers, or string concatenation)
	OP_SUB // -
	OP_MUL // *
	OP_DIV // /

	// Variables
	OP_STORE // Pop value, bind to name (u32 length + bytes)
	OP_LOAD  // Push value bound to name (u32 length + bytes)

	// OP_CALL is a reserved legacy tag. It still decodes (u64 arg count
	// payload) so old artifacts disassemble, but executing it is a
	// runtime error.
	OP_CALL

	// Output
	OP_WRITE // Pop value, print it followed by a newline

	// Termination
	OP_HALT // Stop the main stream

	// Stack hygiene
	OP_POP // Discard top of stack

	// Functions
	OP_CALL_NAMED // Call function by name (u32 length + bytes, then u64 arg count)
	OP_RET        // Return from function body
)

// OpcodeNames maps opcodes to their mnemonic for disassembly and errors.
var OpcodeNames = map[Opcode]string{
	OP_PUSH_NUM:   "PUSH_NUM",
	OP_PUSH_STR:   "PUSH_STR",
	OP_ADD:        "ADD",
	OP_SUB:        "SUB",
	OP_MUL:        "MUL",
	OP_DIV:        "DIV",
	OP_STORE:      "STORE",
	OP_LOAD:       "LOAD",
	OP_CALL:       "CALL",
	OP_WRITE:      "WRITE",
	OP_HALT:       "HALT",
	OP_POP:        "POP",
	OP_CALL_NAMED: "CALL_NAMED",
	OP_RET:        "RET",
}

// Name returns the mnemonic, or a hex form for tags outside the set.
func (op Opcode) Name() string {
	if name, ok := OpcodeNames[op]; ok {
		return name
	}
	return "UNKNOWN"
}
