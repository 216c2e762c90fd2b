package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessage(t *testing.T) {
	base := errors.New("connection refused")

	assert.Equal(t, "fetch ticker: connection refused", New(Network, "fetch ticker", base).Error())
	assert.Equal(t, "connection refused", New(Network, "", base).Error())
	assert.Equal(t, "bad bound 3", Configf("bad bound %d", 3).Error())
}

func TestKindOfThroughWrapping(t *testing.T) {
	err := fmt.Errorf("run failed: %w", New(IO, "write csv", errors.New("disk full")))

	assert.Equal(t, IO, KindOf(err))
	assert.True(t, Is(err, IO))
	assert.False(t, Is(err, Network))
	assert.Equal(t, Kind(""), KindOf(errors.New("plain")))
}

func TestUnwrap(t *testing.T) {
	base := errors.New("eof")
	err := New(Parse, "decode", base)

	assert.ErrorIs(t, err, base)
	assert.True(t, Is(Parsef("missing %q", "name"), Parse))
}
