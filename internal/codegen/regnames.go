package codegen

var reg32Names = map[string]string{
	"rax": "eax", "rbx": "ebx", "rcx": "ecx", "rdx": "edx",
	"rsi": "esi", "rdi": "edi",
	"r8": "r8d", "r9": "r9d", "r10": "r10d", "r11": "r11d",
	"r12": "r12d", "r13": "r13d", "r14": "r14d", "r15": "r15d",
}

var reg8Names = map[string]string{
	"rax": "al", "rbx": "bl", "rcx": "cl", "rdx": "dl",
	"rsi": "sil", "rdi": "dil",
	"r8": "r8b", "r9": "r9b", "r10": "r10b", "r11": "r11b",
	"r12": "r12b", "r13": "r13b", "r14": "r14b", "r15": "r15b",
}

// sizedRegister returns the sub-register name matching size bytes (1, 4,
// or the full 64-bit name for anything else/unrecognized), used whenever
// a value narrower than a full register needs to move through one of
// rax..r15 (e.g. CHAR/BOOL spills).
func sizedRegister(reg string, size int) string {
	switch size {
	case 1:
		if n, ok := reg8Names[reg]; ok {
			return n
		}
	case 4:
		if n, ok := reg32Names[reg]; ok {
			return n
		}
	}
	return reg
}
