package display

// FakeDisplay records the text written to each row.
type FakeDisplay struct {
	Rows [2]string

	// History contains every write as "row:text".
	History []string

	// Err, if set, will be returned by Status and Result.
	Err error

	Closed bool
}

// NewFakeDisplay creates a FakeDisplay.
func NewFakeDisplay() *FakeDisplay {
	return &FakeDisplay{}
}

func (f *FakeDisplay) Status(text string) error {
	return f.write(0, text)
}

func (f *FakeDisplay) Result(text string) error {
	return f.write(1, text)
}

func (f *FakeDisplay) write(row int, text string) error {
	if f.Err != nil {
		return f.Err
	}
	f.Rows[row] = text
	f.History = append(f.History, string(rune('0'+row))+":"+text)
	return nil
}

func (f *FakeDisplay) Close() error {
	f.Closed = true
	return nil
}
