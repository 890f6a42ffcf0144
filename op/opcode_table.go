package op

// Opcodes, in binary id order.
const (
	Mov Opcode = iota
	Movp
	Add
	Sub
	Mul
	Div
	Mod
	Less
	Equal
	Not
	Jmp
	Color
	Point
	Line
	Rect
	Log

	NumOpcodes = int(iota)
)

// OpCodeTable is the single source of truth for instruction shape.
// The binary format never stores arities, they come from here.
var OpCodeTable = [NumOpcodes]OpCode{
	{"mov", Mov, 2, ClassAssign, "mov a v       memory[a] = v"},
	{"movp", Movp, 2, ClassAssign, "movp a b      memory[a] = memory[b]"},
	{"add", Add, 3, ClassAssign, "add a x y     memory[a] = x + y"},
	{"sub", Sub, 3, ClassAssign, "sub a x y     memory[a] = x - y"},
	{"mul", Mul, 3, ClassAssign, "mul a x y     memory[a] = x * y"},
	{"div", Div, 3, ClassAssign, "div a x y     memory[a] = x // y"},
	{"mod", Mod, 3, ClassAssign, "mod a x y     memory[a] = x % y"},
	{"less", Less, 3, ClassAssign, "less a x y    memory[a] = x < y"},
	{"equal", Equal, 3, ClassAssign, "equal a x y   memory[a] = x == y"},
	{"not", Not, 2, ClassAssign, "not a x       memory[a] = !x"},
	{"jmp", Jmp, 2, ClassControl, "jmp t c       if c, pc = t"},
	{"color", Color, 3, ClassDraw, "color r g b"},
	{"point", Point, 2, ClassDraw, "point x y"},
	{"line", Line, 4, ClassDraw, "line x0 y0 x1 y1"},
	{"rect", Rect, 4, ClassDraw, "rect x y w h"},
	{"log", Log, 1, ClassOutput, "log v"},
}
