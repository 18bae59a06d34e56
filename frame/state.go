package frame

// ParserState is the frame parser's top-level state: it is either
// accumulating a message's head or forwarding bytes to that message's
// active body decoder.
type ParserState int

const (
	ExpectHead ParserState = iota
	ExpectBody
)

func (s ParserState) String() string {
	if s == ExpectHead {
		return "ExpectHead"
	}
	return "ExpectBody"
}
