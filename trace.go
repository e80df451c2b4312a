package cliph

import (
	"io"

	"github.com/npillmayer/schuko/tracing"
)

const traceKey = "cliph.rewrite"

// tracer traces with key 'cliph.rewrite'. It is a no-op until the host
// installs a selector with tracing.SetTraceSelector.
func tracer() tracing.Trace {
	return tracing.Select(traceKey)
}

func debugf(format string, args ...interface{}) {
	if t := tracer(); t != nil {
		t.Debugf(format, args...)
	}
}

// SetVerbose switches rewrite tracing between debug and error level.
func SetVerbose(on bool) {
	t := tracer()
	if t == nil {
		return
	}
	if on {
		t.SetTraceLevel(tracing.LevelDebug)
	} else {
		t.SetTraceLevel(tracing.LevelError)
	}
}

// SetTraceOutput routes rewrite tracing to w.
func SetTraceOutput(w io.Writer) {
	if t := tracer(); t != nil {
		t.SetOutput(w)
	}
}
