package vm

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Disassemble returns a human-readable listing of the whole program:
// one section per function, then the main stream.
func Disassemble(p *Program) string {
	var sb strings.Builder

	for _, fn := range p.Functions {
		fmt.Fprintf(&sb, "== fn %s(%s) ==\n", fn.Name, strings.Join(fn.Params, ", "))
		disassembleStream(&sb, fn.Code)
	}

	sb.WriteString("== main ==\n")
	disassembleStream(&sb, p.Main)

	return sb.String()
}

func disassembleStream(sb *strings.Builder, code []byte) {
	offset := 0
	for offset < len(code) {
		offset = disassembleInstruction(sb, code, offset)
	}
}

// disassembleInstruction renders one instruction and returns the offset of
// the next one. A malformed tail is rendered as raw bytes rather than
// panicking, so partial artifacts can still be inspected.
func disassembleInstruction(sb *strings.Builder, code []byte, offset int) int {
	fmt.Fprintf(sb, "%04d ", offset)

	op := Opcode(code[offset])
	width, err := instructionWidth(code, offset)
	if err != nil {
		fmt.Fprintf(sb, "?? 0x%02x (bad instruction: %s)\n", byte(op), err.Message)
		return len(code)
	}
	operands := code[offset+1 : offset+width]

	switch op {
	case OP_PUSH_NUM:
		n := math.Float64frombits(binary.LittleEndian.Uint64(operands))
		fmt.Fprintf(sb, "%-12s %s\n", op.Name(), strconv.FormatFloat(n, 'f', -1, 64))

	case OP_PUSH_STR, OP_STORE, OP_LOAD:
		length := binary.LittleEndian.Uint32(operands)
		fmt.Fprintf(sb, "%-12s %q\n", op.Name(), string(operands[4:4+length]))

	case OP_CALL:
		fmt.Fprintf(sb, "%-12s argc=%d\n", op.Name(), binary.LittleEndian.Uint64(operands))

	case OP_CALL_NAMED:
		length := binary.LittleEndian.Uint32(operands)
		name := string(operands[4 : 4+length])
		argc := binary.LittleEndian.Uint64(operands[4+length:])
		fmt.Fprintf(sb, "%-12s %q argc=%d\n", op.Name(), name, argc)

	default:
		fmt.Fprintf(sb, "%s\n", op.Name())
	}

	return offset + width
}
