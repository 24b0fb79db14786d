package agent

import (
	"github.com/davidbalbert/lldpd/lldp"
	"golang.org/x/net/bpf"
)

const (
	etherTypeOff = 12
	etherTypeLen = 2

	// Largest frame handed to userspace.
	snapLen = 9000
)

// lldpFilter accepts frames with the LLDP ethertype sent to one of the LLDP
// group addresses, 01:80:c2:00:00:{00,03,0e}.
func lldpFilter() ([]bpf.RawInstruction, error) {
	return bpf.Assemble(lldpProgram())
}

func lldpProgram() []bpf.Instruction {
	return []bpf.Instruction{
		// 0
		bpf.LoadAbsolute{Off: etherTypeOff, Size: etherTypeLen},
		bpf.JumpIf{Cond: bpf.JumpNotEqual, Val: lldp.EtherType, SkipTrue: 6},

		// 2: first four bytes of the destination
		bpf.LoadAbsolute{Off: 0, Size: 4},
		bpf.JumpIf{Cond: bpf.JumpNotEqual, Val: 0x0180c200, SkipTrue: 4},

		// 4: last two bytes of the destination
		bpf.LoadAbsolute{Off: 4, Size: 2},
		bpf.JumpIf{Cond: bpf.JumpEqual, Val: 0x000e, SkipTrue: 3},
		bpf.JumpIf{Cond: bpf.JumpEqual, Val: 0x0003, SkipTrue: 2},
		bpf.JumpIf{Cond: bpf.JumpEqual, Val: 0x0000, SkipTrue: 1},

		// 8: reject
		bpf.RetConstant{Val: 0},

		// 9: accept
		bpf.RetConstant{Val: snapLen},
	}
}
