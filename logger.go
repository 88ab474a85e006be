package osmpbf

import "fmt"

// Logger receives diagnostic lines from the Encoder. It matches the
// shape of the standard library's log.Logger closely enough that
// *log.Logger satisfies it directly.
type Logger interface {
	Printf(format string, v ...interface{})
}

// defaultLogger writes to stdout. It is not installed automatically;
// an Encoder without a configured Logger stays silent.
type defaultLogger struct{}

func (defaultLogger) Printf(format string, v ...interface{}) {
	fmt.Printf(format+"\n", v...)
}
