package ll

import (
	"bytes"
	"testing"
)

func pduTestSM() *connSM {
	return &connSM{
		state:       statePending,
		ownAddrType: AddressTypePublic,
		accessAddr:  0x12345678,
		crcInit:     0x00abcdef,
		txWinSize:   1,
		txWinOff:    0x0203,
		connItvl:    0x0028,
		latency:     0x0001,
		supTimeout:  0x0048,
		chanMap:     [ChanMapLen]byte{0xff, 0xff, 0xff, 0xff, 0x1f},
		hopInc:      7,
		masterSCA:   1,
	}
}

func TestConnectReqLayout(t *testing.T) {
	c, _, _ := newTestController(t,
		WithPublicAddress([6]byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06}))

	pdu := c.makeConnReqPDU(pduTestSM())
	defer c.pduPool.Put(pdu)

	want := []byte{
		0x05, 0x22, // header: CONNECT_REQ, 34 bytes
		0x01, 0x02, 0x03, 0x04, 0x05, 0x06, // InitA
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, // AdvA placeholder
		0x78, 0x56, 0x34, 0x12, // access address
		0xef, 0xcd, 0xab, // CRC init
		0x01,       // window size
		0x03, 0x02, // window offset
		0x28, 0x00, // interval
		0x01, 0x00, // latency
		0x48, 0x00, // timeout
		0xff, 0xff, 0xff, 0xff, 0x1f, // channel map
		0x27, // hop 7 | sca 1<<5
	}
	if !bytes.Equal(pdu, want) {
		t.Fatalf("pdu mismatch\n got [% x]\nwant [% x]", pdu, want)
	}
}

func TestConnectReqRandomAddressSetsTxAdd(t *testing.T) {
	c, _, _ := newTestController(t,
		WithRandomAddress([6]byte{0xc1, 0xc2, 0xc3, 0xc4, 0xc5, 0xc6}))

	sm := pduTestSM()
	sm.ownAddrType = AddressTypeRandom
	pdu := c.makeConnReqPDU(sm)
	defer c.pduPool.Put(pdu)

	if pdu[0] != (pduTypeConnectReq | pduHdrTxAddRand) {
		t.Fatalf("header 0x%02x, TxAdd bit not set", pdu[0])
	}
	if !bytes.Equal(pdu[2:8], []byte{0xc1, 0xc2, 0xc3, 0xc4, 0xc5, 0xc6}) {
		t.Fatalf("InitA [% x] is not the random address", pdu[2:8])
	}
}

func TestConnectReqNoBufferPanics(t *testing.T) {
	c, _, _ := newTestController(t, WithPDUBufferPool(NewSlabPool(PDUBufferSize, 0)))

	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic with no transmit buffer")
		}
	}()
	c.makeConnReqPDU(pduTestSM())
}
