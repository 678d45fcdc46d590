package metaform

import (
	"io"
	"sync"

	"github.com/wippyai/metaform/internal/wire"
)

// Pool limit to prevent memory bloat
const poolMaxCap = 64 << 10 // max retained scratch bytes

// writer pool for one-shot encodes
var writerPool = sync.Pool{
	New: func() any {
		return wire.NewWriter(nil)
	},
}

func getWriter(out io.Writer) *wire.Writer {
	w := writerPool.Get().(*wire.Writer)
	w.Reset(out)
	return w
}

func putWriter(w *wire.Writer) {
	if w == nil || w.Cap() > poolMaxCap {
		return // reject oversized
	}
	writerPool.Put(w)
}
