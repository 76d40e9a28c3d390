package sink

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultTextFile)
	require.NoError(t, os.WriteFile(path, []byte("stale\n"), 0644))

	s, err := NewTextFile(path)
	require.NoError(t, err)
	for _, v := range []float64{15, -3.5, 0.1, 50} {
		require.NoError(t, s.Accept(v))
	}
	require.NoError(t, s.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "15\n-3.5\n0.1\n50\n", string(data))
}

func TestCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "samples.csv")

	s, err := NewCSV(path)
	require.NoError(t, err)
	s.now = func() time.Time { return time.Unix(0, 42) }

	require.NoError(t, s.Accept(1.5))
	require.NoError(t, s.Accept(2))
	require.NoError(t, s.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Equal(t, []string{"Seq,Timestamp,Value", "1,42,1.5", "2,42,2"}, lines)
}

type failingSink struct {
	err error
}

func (f failingSink) Accept(float64) error { return f.err }

func (f failingSink) Close() error { return f.err }

func TestMulti(t *testing.T) {
	var (
		a, b    = NewCollector(), NewCollector()
		errSink = errors.New("sink unavailable")
		m       = NewMulti(a, failingSink{err: errSink}, b)
	)

	err := m.Accept(7)
	require.Error(t, err)
	assert.ErrorIs(t, err, errSink)

	// healthy sinks still receive the sample
	assert.Equal(t, []float64{7}, a.Values())
	assert.Equal(t, []float64{7}, b.Values())

	err = m.Close()
	var merr *multierror.Error
	require.ErrorAs(t, err, &merr)
	assert.Len(t, merr.Errors, 1)
	assert.True(t, a.Closed())
	assert.True(t, b.Closed())

	assert.NoError(t, NewMulti(NewCollector()).Accept(1))
}

func TestCollector(t *testing.T) {
	c := NewCollector()
	require.NoError(t, c.Accept(1))
	require.NoError(t, c.Accept(2))

	values := c.Values()
	values[0] = 99
	assert.Equal(t, []float64{1, 2}, c.Values())
	assert.False(t, c.Closed())
}
