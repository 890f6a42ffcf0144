package op

// Field sizes of the binary format, in bytes.
const (
	SignatureSize = len(Signature)
	MemorySize    = 4 // meta.memory, uint32.
	DimensionSize = 2 // meta.width, meta.height, meta.tickrate, uint16.
	EntrySize     = 4 // tick, start, int32 (-1 when absent).
	CountSize     = 4 // instruction and data entry counts, uint32.
	OpcodeSize    = 1
	ArgTypeSize   = 1
	ValueSize     = 4 // Argument values and data values, int32.
)

// NoEntry marks an absent start or tick in the binary format.
const NoEntry = -1

// HeaderStructSize returns the size of the fixed part preceding the instructions.
func HeaderStructSize() int {
	return SignatureSize + MemorySize + 3*DimensionSize + 2*EntrySize + CountSize
}

// InstructionSize returns the encoded size of an instruction with the given opcode.
func InstructionSize(o Opcode) int {
	return OpcodeSize + o.Arity()*(ArgTypeSize+ValueSize)
}
