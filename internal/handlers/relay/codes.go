package relay

import "crypto/rand"

// Room codes are read aloud between friends, so the alphabet drops the
// characters that are easy to mishear or misread (0/O, 1/I).
const (
	codePrefix   = "RR-"
	codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	codeLength   = 6
)

func randomCode() string {
	buf := make([]byte, codeLength)
	if _, err := rand.Read(buf); err != nil {
		panic("crypto/rand failure: " + err.Error())
	}
	out := make([]byte, codeLength)
	for i := range out {
		out[i] = codeAlphabet[int(buf[i])%len(codeAlphabet)]
	}
	return codePrefix + string(out)
}
