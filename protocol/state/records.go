/*
Package state implements the record types of the plume protocol and their
wire format: the singleton intro each writer publishes, the immutable
replies attached to it, and the per-intro reply counter.

Records live in fixed-capacity ledger slots. A record serializes as its tag
string, the initialized flag, the embedded tokens, and the length-prefixed
name and message; slots are allocated at full capacity and the serialized
record occupies a prefix, with the remainder zeroed.
*/
package state

import (
	"github.com/plumenet/plume/crypto"
	"github.com/plumenet/plume/util"
)

// Capacity is the fixed slot size for intro and reply records. Payloads
// whose encoded size exceeds it are rejected before allocation.
const Capacity = 1000

const (
	IntroTag   = "intro"
	ReplyTag   = "reply"
	CounterTag = "counter"
)

// CounterSize is the fixed slot size of a reply counter.
const CounterSize = 2 + len(CounterTag) + 1 + 8

// Intro is a writer's singleton introduction record. Only Message is
// mutable after creation, and only by the writer.
type Intro struct {
	Initialized bool
	Writer      crypto.Token
	Name        string
	Message     string
}

func (i *Intro) Serialize() []byte {
	bytes := make([]byte, 0, IntroSize(i.Name, i.Message))
	util.PutString(IntroTag, &bytes)
	util.PutBool(i.Initialized, &bytes)
	util.PutToken(i.Writer, &bytes)
	util.PutString(i.Name, &bytes)
	util.PutString(i.Message, &bytes)
	return bytes
}

// ParseIntro reads an intro record from slot data. Trailing slot padding is
// ignored. It returns nil when the data does not carry an intro tag, which
// is also the case for a freshly allocated zeroed slot.
func ParseIntro(data []byte) *Intro {
	position := 0
	var tag string
	tag, position = util.ParseString(data, position)
	if tag != IntroTag {
		return nil
	}
	intro := Intro{}
	intro.Initialized, position = util.ParseBool(data, position)
	intro.Writer, position = util.ParseToken(data, position)
	intro.Name, position = util.ParseString(data, position)
	intro.Message, position = util.ParseString(data, position)
	if position > len(data) {
		return nil
	}
	return &intro
}

// IntroSize is the encoded size of an intro with the given payload.
func IntroSize(name, message string) int {
	return 2 + len(IntroTag) + 1 + crypto.TokenSize + 2 + len(name) + 2 + len(message)
}

// Reply is an immutable reply record attached to an intro.
type Reply struct {
	Initialized bool
	Intro       crypto.Token
	Replier     crypto.Token
	Name        string
	Message     string
}

func (r *Reply) Serialize() []byte {
	bytes := make([]byte, 0, ReplySize(r.Name, r.Message))
	util.PutString(ReplyTag, &bytes)
	util.PutBool(r.Initialized, &bytes)
	util.PutToken(r.Intro, &bytes)
	util.PutToken(r.Replier, &bytes)
	util.PutString(r.Name, &bytes)
	util.PutString(r.Message, &bytes)
	return bytes
}

func ParseReply(data []byte) *Reply {
	position := 0
	var tag string
	tag, position = util.ParseString(data, position)
	if tag != ReplyTag {
		return nil
	}
	reply := Reply{}
	reply.Initialized, position = util.ParseBool(data, position)
	reply.Intro, position = util.ParseToken(data, position)
	reply.Replier, position = util.ParseToken(data, position)
	reply.Name, position = util.ParseString(data, position)
	reply.Message, position = util.ParseString(data, position)
	if position > len(data) {
		return nil
	}
	return &reply
}

// ReplySize is the encoded size of a reply with the given payload.
func ReplySize(name, message string) int {
	return 2 + len(ReplyTag) + 1 + 2*crypto.TokenSize + 2 + len(name) + 2 + len(message)
}

// ReplyCounter counts the replies ever created for one intro. The count
// doubles as the derivation seed for the next reply's address.
type ReplyCounter struct {
	Initialized bool
	Count       uint64
}

func (c *ReplyCounter) Serialize() []byte {
	bytes := make([]byte, 0, CounterSize)
	util.PutString(CounterTag, &bytes)
	util.PutBool(c.Initialized, &bytes)
	util.PutUint64(c.Count, &bytes)
	return bytes
}

func ParseReplyCounter(data []byte) *ReplyCounter {
	position := 0
	var tag string
	tag, position = util.ParseString(data, position)
	if tag != CounterTag {
		return nil
	}
	counter := ReplyCounter{}
	counter.Initialized, position = util.ParseBool(data, position)
	counter.Count, position = util.ParseUint64(data, position)
	if position > len(data) {
		return nil
	}
	return &counter
}
