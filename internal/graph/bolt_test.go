package graph

import (
	"errors"
	"testing"
)

func TestIsConnectionError(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{errors.New("dial tcp 127.0.0.1:7687: connect: connection refused"), true},
		{errors.New("read tcp: connection reset by peer"), true},
		{errors.New("dial tcp: lookup graph.internal: no such host"), true},
		{errors.New("context deadline exceeded (timeout)"), true},
		{errors.New("EOF"), true},
		{errors.New("Neo.ClientError.Security.Unauthorized"), false},
		{errors.New("invalid syntax near MATCH"), false},
	}

	for _, c := range cases {
		if got := IsConnectionError(c.err); got != c.want {
			t.Errorf("IsConnectionError(%v) = %v, want %v", c.err, got, c.want)
		}
	}
}
