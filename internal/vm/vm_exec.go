package vm

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/vira-language/vira/internal/diagnostics"
)

// executeOneOp runs a single decoded instruction. done is true after HALT.
func (vm *VM) executeOneOp(op Opcode, opOffset int) (done bool, err *diagnostics.Error) {
	f := vm.frame()

	switch op {
	case OP_PUSH_NUM:
		bits, ok := readU64(f)
		if !ok {
			return false, vm.truncatedAt(op, opOffset)
		}
		if err := vm.push(NumVal(math.Float64frombits(bits))); err != nil {
			return false, vm.overflowAt(opOffset)
		}

	case OP_PUSH_STR:
		s, ok := readStringOperand(f)
		if !ok {
			return false, vm.truncatedAt(op, opOffset)
		}
		if err := vm.push(StrVal(s)); err != nil {
			return false, vm.overflowAt(opOffset)
		}

	case OP_ADD, OP_SUB, OP_MUL, OP_DIV:
		if err := vm.binaryOp(op, opOffset); err != nil {
			return false, err
		}

	case OP_STORE:
		name, ok := readStringOperand(f)
		if !ok {
			return false, vm.truncatedAt(op, opOffset)
		}
		v, perr := vm.pop()
		if perr != nil {
			return false, vm.underflowAt(op, opOffset)
		}
		f.vars[name] = v

	case OP_LOAD:
		name, ok := readStringOperand(f)
		if !ok {
			return false, vm.truncatedAt(op, opOffset)
		}
		v, found := vm.lookup(name)
		if !found {
			return false, diagnostics.NewAtOffset(diagnostics.ErrR002, opOffset,
				"undefined variable %q", name)
		}
		if err := vm.push(v); err != nil {
			return false, vm.overflowAt(opOffset)
		}

	case OP_CALL:
		return false, diagnostics.NewAtOffset(diagnostics.ErrR006, opOffset,
			"reserved opcode CALL is not executable")

	case OP_CALL_NAMED:
		if err := vm.callNamed(f, opOffset); err != nil {
			return false, err
		}

	case OP_RET:
		if len(vm.frames) == 1 {
			return false, diagnostics.NewAtOffset(diagnostics.ErrA004, opOffset,
				"RET outside of a function call")
		}
		// The return value is already on the operand stack.
		vm.frames = vm.frames[:len(vm.frames)-1]

	case OP_WRITE:
		v, perr := vm.pop()
		if perr != nil {
			return false, vm.underflowAt(op, opOffset)
		}
		fmt.Fprintln(vm.out, v.Inspect())

	case OP_POP:
		if _, perr := vm.pop(); perr != nil {
			return false, vm.underflowAt(op, opOffset)
		}

	case OP_HALT:
		return true, nil

	default:
		return false, diagnostics.NewAtOffset(diagnostics.ErrR005, opOffset,
			"unknown opcode 0x%02x", byte(op))
	}

	return false, nil
}

func (vm *VM) binaryOp(op Opcode, opOffset int) *diagnostics.Error {
	right, err := vm.pop()
	if err != nil {
		return vm.underflowAt(op, opOffset)
	}
	left, err := vm.pop()
	if err != nil {
		return vm.underflowAt(op, opOffset)
	}

	if op == OP_ADD && left.IsStr() && right.IsStr() {
		if err := vm.push(StrVal(left.Str + right.Str)); err != nil {
			return vm.overflowAt(opOffset)
		}
		return nil
	}
	if !left.IsNum() || !right.IsNum() {
		return diagnostics.NewAtOffset(diagnostics.ErrR001, opOffset,
			"%s requires two numbers, got %s and %s",
			op.Name(), left.TypeName(), right.TypeName())
	}

	var result float64
	switch op {
	case OP_ADD:
		result = left.Num + right.Num
	case OP_SUB:
		result = left.Num - right.Num
	case OP_MUL:
		result = left.Num * right.Num
	case OP_DIV:
		// Division by zero follows IEEE-754: Inf or NaN, not an error.
		result = left.Num / right.Num
	}
	if err := vm.push(NumVal(result)); err != nil {
		return vm.overflowAt(opOffset)
	}
	return nil
}

func (vm *VM) callNamed(f *callFrame, opOffset int) *diagnostics.Error {
	name, ok := readStringOperand(f)
	if !ok {
		return vm.truncatedAt(OP_CALL_NAMED, opOffset)
	}
	argCount, ok := readU64(f)
	if !ok {
		return vm.truncatedAt(OP_CALL_NAMED, opOffset)
	}

	fn := vm.program.Lookup(name)
	if fn == nil {
		return diagnostics.NewAtOffset(diagnostics.ErrR003, opOffset,
			"undefined function %q", name)
	}
	if int(argCount) != len(fn.Params) {
		return diagnostics.NewAtOffset(diagnostics.ErrR007, opOffset,
			"function %q takes %d argument(s), got %d",
			name, len(fn.Params), argCount)
	}
	if len(vm.frames) >= MaxFrameCount {
		return diagnostics.NewAtOffset(diagnostics.ErrR008, opOffset,
			"call depth limit exceeded calling %q", name)
	}

	// Arguments were pushed in declaration order, so they pop off in
	// reverse.
	frame := &callFrame{
		fn:   fn,
		code: fn.Code,
		vars: make(map[string]Value, len(fn.Params)),
	}
	for i := len(fn.Params) - 1; i >= 0; i-- {
		v, err := vm.pop()
		if err != nil {
			return vm.underflowAt(OP_CALL_NAMED, opOffset)
		}
		frame.vars[fn.Params[i]] = v
	}
	vm.frames = append(vm.frames, frame)
	return nil
}

// readU64 reads an 8-byte little-endian operand from the frame's stream.
func readU64(f *callFrame) (uint64, bool) {
	if f.ip+8 > len(f.code) {
		return 0, false
	}
	v := binary.LittleEndian.Uint64(f.code[f.ip:])
	f.ip += 8
	return v, true
}

// readStringOperand reads a u32-length-prefixed string operand.
func readStringOperand(f *callFrame) (string, bool) {
	if f.ip+4 > len(f.code) {
		return "", false
	}
	length := int(binary.LittleEndian.Uint32(f.code[f.ip:]))
	if f.ip+4+length > len(f.code) {
		return "", false
	}
	s := string(f.code[f.ip+4 : f.ip+4+length])
	f.ip += 4 + length
	return s, true
}

func (vm *VM) truncatedAt(op Opcode, offset int) *diagnostics.Error {
	return diagnostics.NewAtOffset(diagnostics.ErrA003, offset,
		"truncated %s instruction", op.Name())
}

func (vm *VM) underflowAt(op Opcode, offset int) *diagnostics.Error {
	return diagnostics.NewAtOffset(diagnostics.ErrR004, offset,
		"stack underflow executing %s", op.Name())
}

func (vm *VM) overflowAt(offset int) *diagnostics.Error {
	return diagnostics.NewAtOffset(diagnostics.ErrR008, offset,
		"operand stack limit exceeded")
}
