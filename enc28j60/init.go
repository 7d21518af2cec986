package enc28j60

import (
	"time"

	"github.com/slashdev/slashnet"
)

// Init brings the chip up per spec.md §4.1's initialization sequence,
// steps 2-8 (step 1, configuring the SPI peripheral's own pins/mode, is the
// caller's responsibility via the SPI/ChipSelect it hands to New; step 9,
// clearing the ARP cache and starting DHCP acquisition, belongs to the
// dispatch loop that owns those subsystems, not the NIC driver).
func (d *Driver) Init(mac slashnet.MAC) error {
	d.softReset()
	time.Sleep(20 * time.Millisecond)

	// Step 3: bank 0, packet memory partition and read pointer.
	d.writeControlReg16(ERXSTL, ERXSTH, RXSTART)
	d.nextPacketPtr = RXSTART
	d.writeControlReg16(ERXRDPTL, ERXRDPTH, RXSTART)
	d.writeControlReg16(ETXSTL, ETXSTH, TXSTART)
	d.writeControlReg16(ETXNDL, ETXNDH, TXSTOP)
	d.writeControlReg16(ERXNDL, ERXNDH, RXSTOP)

	// Step 4: bank 1, unicast + CRC + pattern-match filters, tuned so ARP
	// broadcasts (EtherType 0x0806, destination ff:ff:ff:ff:ff:ff) pass
	// without enabling general broadcast reception.
	d.writeControlReg(ERXFCON, ERXFCONUCEN|ERXFCONCRCEN|ERXFCONPMEN)
	d.writeControlReg16(EPMM0, EPMM1, 0x303F)
	d.writeControlReg16(EPMCSL, EPMCSH, 0xF7F9)

	// Step 5: bank 2, MAC receive enable + pause frames, pad-to-60/CRC/
	// frame-length check, IPG timing, max frame length.
	d.writeControlReg(MACON1, MACON1MARXEN|MACON1RXPAUS|MACON1TXPAUS)
	d.writeControlReg(MACON3, MACON3PADCFG0|MACON3TXCRCEN|MACON3FRMLNEN)
	d.writeControlReg(MACON4, 0)
	d.writeControlReg(MABBIPG, 0x12)
	d.writeControlReg(MAIPGL, 0x12)
	d.writeControlReg(MAIPGH, 0x0C)
	d.writeControlReg16(MAMXFLL, MAMXFLH, MTUIn)

	// Step 6: bank 3, MAC address.
	d.writeControlReg(MAADR0, mac[0])
	d.writeControlReg(MAADR1, mac[1])
	d.writeControlReg(MAADR2, mac[2])
	d.writeControlReg(MAADR3, mac[3])
	d.writeControlReg(MAADR4, mac[4])
	d.writeControlReg(MAADR5, mac[5])

	// Step 7: PHY, disable half-duplex loopback, LEDA=link/LEDB=RX-TX.
	d.writePHY(PHCON2, PHCON2HDLDIS)
	d.writePHY(PHLCON, 0x0476)

	// Step 8: enable interrupts and reception.
	d.writeControlReg(EIE, EIEINTIE|EIEPKTIE)
	d.bitFieldSet(ECON1, ECON1RXEN)
	d.writeControlReg(ECOCON, 0)
	time.Sleep(60 * time.Microsecond)

	d.revision = d.readControlReg(EREVID)
	return nil
}
