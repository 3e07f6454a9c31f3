package notify

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWriter(t *testing.T) {
	var buf bytes.Buffer
	n := NewWriter(&buf)

	n.Notify(context.Background(), LoginRequired)
	n.Notify(context.Background(), "second")

	assert.Equal(t, "[!] "+LoginRequired+"\n[!] second\n", buf.String())
}

func TestQueue_DrainEmpties(t *testing.T) {
	var q Queue
	q.Notify(context.Background(), "a")
	q.Notify(context.Background(), "b")

	assert.Equal(t, []string{"a", "b"}, q.Drain())
	assert.Empty(t, q.Drain())
}

func TestFunc(t *testing.T) {
	var got string
	var n Notifier = Func(func(_ context.Context, msg string) { got = msg })
	n.Notify(context.Background(), "hi")
	assert.Equal(t, "hi", got)
}
