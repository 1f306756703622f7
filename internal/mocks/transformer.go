// Package mocks provides testify/mock doubles for interfaces this repo's
// own packages can't exercise every outcome of through real
// implementations alone. Grounded on the teacher's internal/mocks/adapter.go
// (MockFileAdapter/MockAdapterProvider wrapping mock.Mock around webfs's
// adapter interfaces); generalized from remote-source adapters to
// golang.org/x/text/transform.Transformer, since codec's only interface
// worth mocking is the conversion step itself.
package mocks

import (
	"github.com/stretchr/testify/mock"
	"golang.org/x/text/transform"
)

// Transformer implements transform.Transformer for testing across packages,
// letting a test force a specific (nDst, nSrc, err) outcome — partial,
// error, or ok — rather than relying on a real encoding hitting that case
// naturally.
type Transformer struct {
	mock.Mock
}

func (m *Transformer) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	args := m.Called(dst, src, atEOF)

	if fn, ok := args.Get(0).(func([]byte, []byte, bool) (int, int, error)); ok {
		return fn(dst, src, atEOF)
	}

	return args.Int(0), args.Int(1), args.Error(2)
}

func (m *Transformer) Reset() {
	m.Called()
}

var _ transform.Transformer = (*Transformer)(nil)
