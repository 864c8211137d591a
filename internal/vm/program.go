package vm

import (
	"encoding/binary"
	"math"
)

// Function is one compiled function: its parameter names and its
// instruction stream, which always terminates with OP_RET.
type Function struct {
	Name   string
	Params []string
	Code   []byte
}

// Program is a complete compiled artifact: a function table plus the main
// instruction stream, which always terminates with OP_HALT.
type Program struct {
	Functions []*Function
	Main      []byte
}

// Lookup finds a function by name.
func (p *Program) Lookup(name string) *Function {
	for _, fn := range p.Functions {
		if fn.Name == name {
			return fn
		}
	}
	return nil
}

// stream builds one instruction stream during compilation.
type stream struct {
	code []byte
}

func (s *stream) emitOp(op Opcode) {
	s.code = append(s.code, byte(op))
}

func (s *stream) emitNum(n float64) {
	s.emitOp(OP_PUSH_NUM)
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], math.Float64bits(n))
	s.code = append(s.code, buf[:]...)
}

func (s *stream) emitStr(op Opcode, value string) {
	s.emitOp(op)
	s.emitStrOperand(value)
}

func (s *stream) emitStrOperand(value string) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], uint32(len(value)))
	s.code = append(s.code, buf[:]...)
	s.code = append(s.code, value...)
}

func (s *stream) emitCallNamed(callee string, argCount int) {
	s.emitOp(OP_CALL_NAMED)
	s.emitStrOperand(callee)
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(argCount))
	s.code = append(s.code, buf[:]...)
}
