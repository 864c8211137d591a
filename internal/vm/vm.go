package vm

import (
	"errors"
	"io"
	"os"

	"github.com/vira-language/vira/internal/diagnostics"
)

var errStackUnderflow = errors.New("stack underflow")
var errStackOverflow = errors.New("stack overflow")

// Initial operand stack capacity.
const InitialStackSize = 256

// MaxStackSize bounds the operand stack to keep a miscompiled or
// adversarial artifact from exhausting memory.
const MaxStackSize = 1024 * 1024

// MaxFrameCount bounds call depth; the language has no loops, so this only
// trips on deep recursion.
const MaxFrameCount = 4096

// callFrame is one active function invocation. The bottom frame holds the
// globals and runs the main stream.
type callFrame struct {
	fn   *Function // nil for the main frame
	code []byte
	ip   int
	vars map[string]Value
}

// VM executes a compiled program. Each instance owns its stack, frames and
// variable bindings exclusively; run one program per VM.
type VM struct {
	program *Program

	stack []Value
	sp    int // next free slot

	frames []*callFrame

	out io.Writer
}

func New(program *Program) *VM {
	return &VM{
		program: program,
		stack:   make([]Value, InitialStackSize),
		out:     os.Stdout,
	}
}

// SetOutput redirects write output, mainly for tests.
func (vm *VM) SetOutput(w io.Writer) {
	vm.out = w
}

func (vm *VM) push(v Value) error {
	if vm.sp >= MaxStackSize {
		return errStackOverflow
	}
	if vm.sp == len(vm.stack) {
		vm.stack = append(vm.stack, v)
		vm.sp++
		return nil
	}
	vm.stack[vm.sp] = v
	vm.sp++
	return nil
}

func (vm *VM) pop() (Value, error) {
	if vm.sp == 0 {
		return Value{}, errStackUnderflow
	}
	vm.sp--
	return vm.stack[vm.sp], nil
}

func (vm *VM) frame() *callFrame {
	return vm.frames[len(vm.frames)-1]
}

// lookup resolves a name in the current frame, then in the globals frame.
// Intermediate frames are not searched; there is no lexical nesting.
func (vm *VM) lookup(name string) (Value, bool) {
	f := vm.frame()
	if v, ok := f.vars[name]; ok {
		return v, true
	}
	if len(vm.frames) > 1 {
		if v, ok := vm.frames[0].vars[name]; ok {
			return v, true
		}
	}
	return Value{}, false
}

// Run executes the program's main stream until HALT. The returned error,
// if any, carries the offset of the faulting instruction.
func (vm *VM) Run() *diagnostics.Error {
	vm.frames = vm.frames[:0]
	vm.frames = append(vm.frames, &callFrame{
		code: vm.program.Main,
		vars: make(map[string]Value),
	})

	for {
		f := vm.frame()
		if f.ip >= len(f.code) {
			return diagnostics.NewAtOffset(diagnostics.ErrA004, f.ip,
				"instruction stream ended without a terminator")
		}
		opOffset := f.ip
		op := Opcode(f.code[f.ip])
		f.ip++

		done, err := vm.executeOneOp(op, opOffset)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
}
