package vm

import (
	"bytes"
	"encoding/binary"

	"github.com/vira-language/vira/internal/diagnostics"
)

// Artifact layout:
//   magic "VIRB" (4 bytes), version (1 byte)
//   u32 function count
//   per function: name (u32 length + bytes), u32 param count,
//                 params (u32 length + bytes each),
//                 u32 code length, code (ends with RET)
//   main code (rest of the buffer, ends with HALT)
// All integers are little-endian. Numbers travel as IEEE-754 bits.

var artifactMagic = [4]byte{'V', 'I', 'R', 'B'}

const artifactVersion byte = 0x02

// Encode serializes a program to the binary artifact format. The program's
// instruction streams are validated first, so a miscompiled stream never
// reaches disk.
func Encode(p *Program) ([]byte, *diagnostics.Error) {
	for _, fn := range p.Functions {
		if err := validateStream(fn.Code, OP_RET, "function "+fn.Name); err != nil {
			return nil, err
		}
	}
	if err := validateStream(p.Main, OP_HALT, "main"); err != nil {
		return nil, err
	}

	buf := new(bytes.Buffer)
	buf.Write(artifactMagic[:])
	buf.WriteByte(artifactVersion)

	writeU32(buf, uint32(len(p.Functions)))
	for _, fn := range p.Functions {
		writeString(buf, fn.Name)
		writeU32(buf, uint32(len(fn.Params)))
		for _, param := range fn.Params {
			writeString(buf, param)
		}
		writeU32(buf, uint32(len(fn.Code)))
		buf.Write(fn.Code)
	}
	buf.Write(p.Main)

	return buf.Bytes(), nil
}

// Decode parses and fully validates a binary artifact. Every length prefix
// is checked against the remaining buffer and both instruction streams are
// walked before the program is handed to the VM.
func Decode(data []byte) (*Program, *diagnostics.Error) {
	r := &reader{data: data}

	magic, err := r.readBytes(4, "magic number")
	if err != nil {
		return nil, err
	}
	if !bytes.Equal(magic, artifactMagic[:]) {
		return nil, diagnostics.NewAtOffset(diagnostics.ErrA001, 0,
			"not a vira artifact: bad magic %q", magic)
	}

	version, err := r.readByte("version")
	if err != nil {
		return nil, err
	}
	if version != artifactVersion {
		return nil, diagnostics.NewAtOffset(diagnostics.ErrA002, 4,
			"unsupported artifact version 0x%02x (expected 0x%02x)",
			version, artifactVersion)
	}

	fnCount, err := r.readU32("function count")
	if err != nil {
		return nil, err
	}

	p := &Program{}
	for i := uint32(0); i < fnCount; i++ {
		fn := &Function{}
		fn.Name, err = r.readString("function name")
		if err != nil {
			return nil, err
		}
		paramCount, err := r.readU32("parameter count")
		if err != nil {
			return nil, err
		}
		for j := uint32(0); j < paramCount; j++ {
			param, err := r.readString("parameter name")
			if err != nil {
				return nil, err
			}
			fn.Params = append(fn.Params, param)
		}
		codeLen, err := r.readU32("function code length")
		if err != nil {
			return nil, err
		}
		fn.Code, err = r.readBytes(int(codeLen), "function code")
		if err != nil {
			return nil, err
		}
		if err := validateStream(fn.Code, OP_RET, "function "+fn.Name); err != nil {
			return nil, err
		}
		p.Functions = append(p.Functions, fn)
	}

	p.Main = r.rest()
	if err := validateStream(p.Main, OP_HALT, "main"); err != nil {
		return nil, err
	}

	return p, nil
}

// validateStream walks every instruction in code, checking that each
// payload fits and that the stream ends with exactly one terminator.
func validateStream(code []byte, terminator Opcode, where string) *diagnostics.Error {
	if len(code) == 0 {
		return diagnostics.NewAtOffset(diagnostics.ErrA004, 0,
			"%s stream is empty: missing %s", where, terminator.Name())
	}
	offset := 0
	for offset < len(code) {
		op := Opcode(code[offset])
		width, err := instructionWidth(code, offset)
		if err != nil {
			return err
		}
		offset += width
		if op == terminator {
			if offset != len(code) {
				return diagnostics.NewAtOffset(diagnostics.ErrA003, offset,
					"%s stream has %d trailing bytes after %s",
					where, len(code)-offset, terminator.Name())
			}
			return nil
		}
		if op == OP_HALT || op == OP_RET {
			return diagnostics.NewAtOffset(diagnostics.ErrA004, offset-width,
				"%s stream terminated by %s (expected %s)",
				where, op.Name(), terminator.Name())
		}
	}
	return diagnostics.NewAtOffset(diagnostics.ErrA004, len(code),
		"%s stream ends without %s", where, terminator.Name())
}

// instructionWidth returns the full width in bytes of the instruction at
// offset, payload included.
func instructionWidth(code []byte, offset int) (int, *diagnostics.Error) {
	op := Opcode(code[offset])
	switch op {
	case OP_ADD, OP_SUB, OP_MUL, OP_DIV, OP_WRITE, OP_HALT, OP_POP, OP_RET:
		return 1, nil

	case OP_PUSH_NUM:
		if offset+9 > len(code) {
			return 0, truncated(op, offset, len(code))
		}
		return 9, nil

	case OP_PUSH_STR, OP_STORE, OP_LOAD:
		n, ok := stringOperandWidth(code, offset+1)
		if !ok {
			return 0, truncated(op, offset, len(code))
		}
		return 1 + n, nil

	case OP_CALL:
		if offset+9 > len(code) {
			return 0, truncated(op, offset, len(code))
		}
		return 9, nil

	case OP_CALL_NAMED:
		n, ok := stringOperandWidth(code, offset+1)
		if !ok {
			return 0, truncated(op, offset, len(code))
		}
		if offset+1+n+8 > len(code) {
			return 0, truncated(op, offset, len(code))
		}
		return 1 + n + 8, nil

	default:
		return 0, diagnostics.NewAtOffset(diagnostics.ErrA003, offset,
			"invalid instruction tag 0x%02x", byte(op))
	}
}

// stringOperandWidth returns the width of a u32-prefixed string operand
// starting at pos, or ok=false if it overruns the stream.
func stringOperandWidth(code []byte, pos int) (int, bool) {
	if pos+4 > len(code) {
		return 0, false
	}
	length := int(binary.LittleEndian.Uint32(code[pos:]))
	if pos+4+length > len(code) {
		return 0, false
	}
	return 4 + length, true
}

func truncated(op Opcode, offset, size int) *diagnostics.Error {
	return diagnostics.NewAtOffset(diagnostics.ErrA003, offset,
		"truncated %s instruction at offset %d (stream is %d bytes)",
		op.Name(), offset, size)
}

type reader struct {
	data []byte
	pos  int
}

func (r *reader) readByte(what string) (byte, *diagnostics.Error) {
	b, err := r.readBytes(1, what)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *reader) readBytes(n int, what string) ([]byte, *diagnostics.Error) {
	if r.pos+n > len(r.data) {
		return nil, diagnostics.NewAtOffset(diagnostics.ErrA003, r.pos,
			"truncated artifact: need %d bytes for %s, have %d",
			n, what, len(r.data)-r.pos)
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

func (r *reader) readU32(what string) (uint32, *diagnostics.Error) {
	b, err := r.readBytes(4, what)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (r *reader) readString(what string) (string, *diagnostics.Error) {
	length, err := r.readU32(what + " length")
	if err != nil {
		return "", err
	}
	b, err := r.readBytes(int(length), what)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (r *reader) rest() []byte {
	return r.data[r.pos:]
}

func writeU32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}

func writeString(buf *bytes.Buffer, s string) {
	writeU32(buf, uint32(len(s)))
	buf.WriteString(s)
}
