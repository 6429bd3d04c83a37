package cpu

// executeCB handles the 0xCB-prefixed instruction space: 8 shift/
// rotate ops, BIT, RES and SET, each taking one of the 8 reg8 operand
// positions.
func (c *CPU) executeCB() {
	op := c.fetch8()
	reg := op & 0x07
	group := op >> 6
	sub := (op >> 3) & 0x07

	v := c.reg8(reg)

	switch group {
	case 0: // rotate/shift family, selected by sub
		var r uint8
		switch sub {
		case 0:
			r = c.rlc(v)
		case 1:
			r = c.rrc(v)
		case 2:
			r = c.rl(v)
		case 3:
			r = c.rr(v)
		case 4:
			r = c.sla(v)
		case 5:
			r = c.sra(v)
		case 6:
			r = c.swap(v)
		case 7:
			r = c.srl(v)
		}
		c.setReg8(reg, r)
	case 1: // BIT n,r
		c.bit(sub, v)
	case 2: // RES n,r
		c.setReg8(reg, v&^(1<<sub))
	case 3: // SET n,r
		c.setReg8(reg, v|1<<sub)
	}
}
