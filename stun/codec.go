package stun

import "github.com/pion/logging"

// Codec wraps message parsing with trace-level logging of every decoded
// attribute, for diagnosing STUN traffic without re-deriving it from a
// packet capture.
type Codec struct {
	log logging.LeveledLogger
}

// NewCodec builds a Codec that logs through the "stun" scope of factory.
func NewCodec(factory logging.LoggerFactory) *Codec {
	return &Codec{log: factory.NewLogger("stun")}
}

// Parse decodes a message the same way the package-level Parse does, but
// traces each attribute's type and length as it goes.
func (c *Codec) Parse(buf []byte) (Message, []byte, error) {
	msg, remainder, err := Parse(buf)
	if err != nil {
		c.log.Debugf("stun: parse failed: %v", err)
		return Message{}, nil, err
	}

	c.log.Tracef("stun: parsed %s/%s, %d attributes", msg.Header.Method, msg.Header.Class, len(msg.Attributes))
	for _, a := range msg.Attributes {
		c.log.Tracef("stun: attribute type=0x%04x length=%d", a.Type(), a.Length())
	}

	return msg, remainder, nil
}
