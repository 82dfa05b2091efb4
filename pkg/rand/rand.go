package rand

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"time"
)

// Bytes returns n cryptographically secure random bytes
func Bytes(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// Int64 returns a cryptographically secure random number
func Int64() (uint64, error) {
	var buf [8]byte
	_, err := rand.Read(buf[:])
	return binary.LittleEndian.Uint64(buf[:]), err
}

// NumericCode returns a string of digits digits, suitable for one-time
// verification codes. The first digit is never zero so the code keeps its
// length when read back as a number.
func NumericCode(digits int) (string, error) {
	if digits < 1 {
		return "", fmt.Errorf("code length must be positive")
	}
	out := make([]byte, digits)
	buf, err := Bytes(digits)
	if err != nil {
		return "", err
	}
	for i, b := range buf {
		out[i] = '0' + b%10
	}
	if out[0] == '0' {
		out[0] = '1' + buf[0]%9
	}
	return string(out), nil
}

// TransactionNumber returns a human traceable unique transaction number in the
// form TR-<unix millis>-<4 random digits>.
func TransactionNumber() (string, error) {
	suffix, err := NumericCode(4)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("TR-%d-%s", time.Now().UnixMilli(), suffix), nil
}
