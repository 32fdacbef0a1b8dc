package netutil

import (
	"errors"
	"net"
	"net/url"
	"testing"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestShouldRetry(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "timeout", err: timeoutErr{}, want: true},
		{name: "dial op", err: &net.OpError{Op: "dial", Err: errors.New("refused")}, want: true},
		{name: "wrapped timeout", err: &url.Error{Op: "Get", URL: "http://x", Err: timeoutErr{}}, want: true},
		{name: "plain error", err: errors.New("boom"), want: false},
	}
	for _, tc := range cases {
		if got := ShouldRetry(tc.err); got != tc.want {
			t.Fatalf("%s: ShouldRetry = %v, expected %v", tc.name, got, tc.want)
		}
	}
}
