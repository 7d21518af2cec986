// Package enc28j60 drives an ENC28J60-class Ethernet MAC/PHY controller
// over bit-banged SPI, per spec.md §4.1: bank-aware register access, PHY
// indirect access, packet transmit/receive framing, and the chip's
// documented errata.
package enc28j60

import (
	"log/slog"
	"time"

	"github.com/slashdev/slashnet/internal"
)

// SPI is the minimal byte-exchange HAL the driver needs. Transfer clocks
// out tx and clocks in the byte the chip returns, the same full-duplex
// shift-register exchange every SPI peripheral implements.
type SPI interface {
	Transfer(tx byte) (rx byte, err error)
}

// ChipSelect drives the SPI slave-select line framing a multi-byte SPI
// transaction.
type ChipSelect interface {
	Select()
	Deselect()
}

// Driver is an ENC28J60 NIC driver instance. The zero value is not usable;
// construct with New.
type Driver struct {
	spi SPI
	cs  ChipSelect
	Log *slog.Logger

	bank          uint8
	nextPacketPtr uint16
	revision      uint8
}

// New returns a Driver ready for Init.
func New(spi SPI, cs ChipSelect, log *slog.Logger) *Driver {
	return &Driver{spi: spi, cs: cs, Log: log}
}

// Revision returns the chip's reported silicon revision, errata-corrected
// per spec.md §4.1 (revision 6 must display as B7: add 1 when the raw
// EREVID value exceeds 5).
func (d *Driver) Revision() uint8 {
	if d.revision > 5 {
		return d.revision + 1
	}
	return d.revision
}

func (d *Driver) transact(bytes_ []byte) {
	d.cs.Select()
	for i, b := range bytes_ {
		rx, _ := d.spi.Transfer(b)
		bytes_[i] = rx
	}
	d.cs.Deselect()
}

// setBank switches ECON1.BSEL1:0 to r's bank, unless r is one of the five
// common registers reachable from any bank, per spec.md §4.1's bank
// switching rule.
func (d *Driver) setBank(r Register) {
	if r.isCommon() || r.bank() == d.bank {
		return
	}
	d.bitFieldClear(ECON1, ECON1BSEL0|ECON1BSEL1)
	if r.bank() != 0 {
		d.bitFieldSet(ECON1, r.bank()&(ECON1BSEL0|ECON1BSEL1))
	}
	d.bank = r.bank()
}

// readControlReg issues RCR, with the extra dummy byte MAC/MII registers
// require per spec.md §4.1.
func (d *Driver) readControlReg(r Register) uint8 {
	d.setBank(r)
	buf := make([]byte, 2, 3)
	buf[0] = opReadControlReg | r.addr()
	if r.isMAC() {
		buf = append(buf, 0)
	}
	d.transact(buf)
	return buf[len(buf)-1]
}

func (d *Driver) writeControlReg(r Register, v uint8) {
	d.setBank(r)
	d.transact([]byte{opWriteControlReg | r.addr(), v})
}

func (d *Driver) writeControlReg16(lo, hi Register, v uint16) {
	d.writeControlReg(lo, uint8(v))
	d.writeControlReg(hi, uint8(v>>8))
}

func (d *Driver) bitFieldSet(r Register, mask uint8) {
	d.setBank(r)
	d.transact([]byte{opBitFieldSet | r.addr(), mask})
}

func (d *Driver) bitFieldClear(r Register, mask uint8) {
	d.setBank(r)
	d.transact([]byte{opBitFieldClear | r.addr(), mask})
}

func (d *Driver) softReset() {
	d.transact([]byte{opSystemResetCmd})
	d.bank = 0
}

// readBufferMem streams len(dst) bytes from the chip's packet buffer at
// the current ERDPT into dst.
func (d *Driver) readBufferMem(dst []byte) {
	d.cs.Select()
	d.spi.Transfer(opReadBufferMem)
	for i := range dst {
		dst[i], _ = d.spi.Transfer(0)
	}
	d.cs.Deselect()
}

// writeBufferMem streams src into the chip's packet buffer at the current
// EWRPT.
func (d *Driver) writeBufferMem(src []byte) {
	d.cs.Select()
	d.spi.Transfer(opWriteBufferMem)
	for _, b := range src {
		d.spi.Transfer(b)
	}
	d.cs.Deselect()
}

// readPHY performs the two-step indirect PHY register read spec.md §4.1
// describes: write the address to MIREGADR, set MICMD.MIIRD, poll
// MISTAT.BUSY with a delay between polls, clear MICMD, then read
// MIRDH/MIRDL.
func (d *Driver) readPHY(addr PHYRegister) uint16 {
	d.writeControlReg(MIREGADR, uint8(addr))
	d.writeControlReg(MICMD, MICMDMIIRD)
	d.waitPHYNotBusy()
	d.writeControlReg(MICMD, 0)
	lo := d.readControlReg(MIRDL)
	hi := d.readControlReg(MIRDH)
	return uint16(hi)<<8 | uint16(lo)
}

// writePHY performs the indirect PHY register write spec.md §4.1 describes:
// write the address to MIREGADR, write MIWRL then MIWRH, then poll
// MISTAT.BUSY.
func (d *Driver) writePHY(addr PHYRegister, v uint16) {
	d.writeControlReg(MIREGADR, uint8(addr))
	d.writeControlReg(MIWRL, uint8(v))
	d.writeControlReg(MIWRH, uint8(v>>8))
	d.waitPHYNotBusy()
}

// waitPHYNotBusy polls MISTAT.BUSY with a ~10µs delay between polls, per
// spec.md §4.1's "_delay_loop_2(0)" step.
func (d *Driver) waitPHYNotBusy() {
	for d.readControlReg(MISTAT)&MISTATBUSY != 0 {
		time.Sleep(10 * time.Microsecond)
	}
}

func (d *Driver) logDebug(msg string, attrs ...slog.Attr) {
	internal.LogAttrs(d.Log, slog.LevelDebug, msg, attrs...)
}
