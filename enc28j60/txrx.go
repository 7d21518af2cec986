package enc28j60

// Send transmits length bytes from out, per spec.md §4.1's transmit
// sequence: spin on ECON1.TXRTS, pulse TXRST if a prior error latched,
// point the write pointer and TX end at the packet, write the per-packet
// control byte, stream the frame, then set TXRTS.
func (d *Driver) Send(out []byte, length int) {
	for d.readControlReg(ECON1)&ECON1TXRTS != 0 {
	}
	if d.readControlReg(EIR)&EIRTXERIF != 0 {
		d.bitFieldSet(ECON1, ECON1TXRST)
		d.bitFieldClear(ECON1, ECON1TXRST)
		d.bitFieldClear(EIR, EIRTXERIF)
	}

	d.writeControlReg16(EWRPTL, EWRPTH, TXSTART)
	d.writeControlReg16(ETXNDL, ETXNDH, TXSTART+uint16(length))
	d.writeBufferMem([]byte{0x00}) // per-packet control byte.
	d.writeBufferMem(out[:length])
	d.bitFieldSet(ECON1, ECON1TXRTS)
}

// PollReceive drains the next queued frame, if any, into in, per spec.md
// §4.1's receive sequence. It returns the frame length (0 when nothing was
// queued or the frame was invalid) and whether a frame was placed in in.
func (d *Driver) PollReceive(in []byte) (n int, ok bool) {
	if d.readControlReg(EPKTCNT) == 0 {
		return 0, false
	}

	d.writeControlReg16(ERDPTL, ERDPTH, d.nextPacketPtr)

	hdr := make([]byte, 6)
	d.readBufferMem(hdr)
	d.nextPacketPtr = uint16(hdr[0]) | uint16(hdr[1])<<8
	recvLen := int(uint16(hdr[2])|uint16(hdr[3])<<8) - 4 // exclude trailing CRC.
	status := uint16(hdr[4]) | uint16(hdr[5])<<8
	if status&0x80 == 0 { // bit 7: received OK.
		recvLen = 0
	}
	if recvLen > MTUIn {
		recvLen = MTUIn
	}
	if recvLen < 0 {
		recvLen = 0
	}

	if recvLen > 0 {
		if recvLen > len(in)-1 {
			recvLen = len(in) - 1
		}
		d.readBufferMem(in[:recvLen])
		in[recvLen] = 0 // NUL terminator, per spec.md §3's buffer_in trailing byte.
	}

	d.advanceReadPointer()
	d.bitFieldSet(ECON2, ECON2PKTDEC)

	if recvLen == 0 {
		return 0, false
	}
	return recvLen, true
}

// advanceReadPointer sets ERXRDPT from the just-read next-packet pointer,
// per the B4 errata spec.md §4.1 requires: never write an even address,
// relying on RXSTOP being odd when next_packet_ptr wraps past it. The
// next_packet_ptr == 0 case is a supplement beyond spec.md's literal
// two-branch rule: RXSTART is 0 in this layout, so next_packet_ptr - 1
// would otherwise underflow to 0xFFFF instead of wrapping to RXSTOP.
// next_packet_ptr == RXSTOP must also take the RXSTOP branch: falling
// through to the subtraction would write RXSTOP-1, which is even.
func (d *Driver) advanceReadPointer() {
	var rdpt uint16
	if d.nextPacketPtr >= RXSTOP {
		rdpt = RXSTOP
	} else if d.nextPacketPtr == 0 {
		rdpt = RXSTOP
	} else {
		rdpt = d.nextPacketPtr - 1
	}
	d.writeControlReg16(ERXRDPTL, ERXRDPTH, rdpt)
}

// IsLinkUp reports PHSTAT2.LSTAT.
func (d *Driver) IsLinkUp() bool {
	return d.readPHY(PHSTAT2)&PHSTAT2LSTAT != 0
}

// Status returns a packed PHY status byte: bit 4 link, bit 3 duplex, with
// the remaining bits reserved (zero), per spec.md §4.1's status() contract.
func (d *Driver) Status() uint8 {
	v := d.readPHY(PHSTAT2)
	var s uint8
	if v&PHSTAT2LSTAT != 0 {
		s |= 1 << 4
	}
	if v&PHSTAT2DPXSTAT != 0 {
		s |= 1 << 3
	}
	return s
}

// SetBroadcast toggles general broadcast reception in ERXFCON without
// disturbing the unicast/CRC/pattern-match bits Init programmed.
func (d *Driver) SetBroadcast(enable bool) {
	if enable {
		d.bitFieldSet(ERXFCON, ERXFCONBCEN)
	} else {
		d.bitFieldClear(ERXFCON, ERXFCONBCEN)
	}
}
