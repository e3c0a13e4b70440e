package i2c

// Transfer is one recorded Tx call.
type Transfer struct {
	Addr  uint16
	Write []byte
	Read  int
}

// FakeBus records transfers and answers reads from a per-register table.
type FakeBus struct {
	Transfers []Transfer

	// Registers maps the first written byte of a read transfer to the bytes
	// returned.
	Registers map[byte][]byte

	// TxError, if set, will be returned by Tx.
	TxError error
}

// NewFakeBus creates an empty FakeBus.
func NewFakeBus() *FakeBus {
	return &FakeBus{Registers: map[byte][]byte{}}
}

func (f *FakeBus) Tx(addr uint16, w, r []byte) error {
	if f.TxError != nil {
		return f.TxError
	}
	f.Transfers = append(f.Transfers, Transfer{
		Addr:  addr,
		Write: append([]byte(nil), w...),
		Read:  len(r),
	})
	if len(r) > 0 && len(w) > 0 {
		copy(r, f.Registers[w[0]])
	}
	return nil
}

// Writes returns the write payloads sent to addr, in order.
func (f *FakeBus) Writes(addr uint16) [][]byte {
	var out [][]byte
	for _, t := range f.Transfers {
		if t.Addr == addr && len(t.Write) > 0 {
			out = append(out, t.Write)
		}
	}
	return out
}
